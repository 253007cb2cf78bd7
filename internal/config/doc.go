// Package config provides configuration management for the bookpulse
// application. Configuration is layered: a YAML file supplies the base
// (including the fixed club roster and proposer alias map), and
// BOOKPULSE-prefixed environment variables override individual values.
package config
