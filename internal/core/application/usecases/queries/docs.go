// Package queries contains the read-only order operations. Each query is a
// constructor-validated value paired with a handler that reads through
// ports.OrderReader and never opens a transaction.
package queries
