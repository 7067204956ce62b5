package services

// AccessGuard decides whether a caller may use the bot. There is exactly one
// administrator, identified by the chat user id configured at startup.
//
// Example usage:
//
//	guard := NewAccessGuard(cfg.AdminID)
//	if !guard.IsAuthorized(update.SentFrom().ID) {
//	    // reply with the rejection message, touch nothing else
//	}
type AccessGuard struct {
	adminID int64
}

// NewAccessGuard creates a guard for the given administrator id.
func NewAccessGuard(adminID int64) AccessGuard {
	return AccessGuard{adminID: adminID}
}

// IsAuthorized reports whether callerID is the administrator. A guard built
// with a zero admin id authorizes nobody.
func (g AccessGuard) IsAuthorized(callerID int64) bool {
	return g.adminID != 0 && callerID == g.adminID
}

// AdminID returns the configured administrator id.
func (g AccessGuard) AdminID() int64 {
	return g.adminID
}
