// Package services sits between the HTTP transport and the analytics core.
// The AnalyticsService wraps one snapshot with memoized derivations so
// handlers never recompute a table twice for the same data.
package services
