// Package order provides the Order entity for the admin bot together with its
// value objects: the open Status enum, the StatusFilter used by list screens,
// Contact and Items.
//
// Orders are created by the storefront, never by this application. The entity
// is therefore only restored from persistence (RestoreOrder) and the only
// mutation it supports is ChangeStatus.
//
// Key business rules:
//   - The identifier is an opaque, non-empty string and is the sole mutation key
//   - Status is a label, not a state machine: any status may replace any other
//   - Unknown status values read from storage are kept verbatim
//   - A pending order older than the overdue threshold is overdue
package order
