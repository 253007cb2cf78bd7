// Package http exposes the analytics service as a read-only JSON API.
// Every endpoint renders a table the service derives from the loaded
// snapshot; nothing here mutates state.
package http
