// Package services provides domain services of the order bot that work on
// more than one order at a time or that decide access.
//
// The package includes:
//   - AccessGuard: the single-administrator authorization predicate
//   - TopProducts: best sellers by cumulative quantity
//   - DailySales: per-day sales totals for the sales chart
//
// All services are pure: they never touch storage or the chat transport.
package services
