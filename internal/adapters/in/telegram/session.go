package telegram

// inputMode is what the next plain text message in a chat is taken as.
type inputMode int

const (
	awaitNothing inputMode = iota
	awaitContact
	awaitOrderID
)

// sessions remembers per chat whether a search prompt is pending. Access is
// serialized by the dispatcher lock.
type sessions map[int64]inputMode

func (s sessions) await(chatID int64, mode inputMode) {
	if mode == awaitNothing {
		delete(s, chatID)
		return
	}
	s[chatID] = mode
}

// take returns the pending mode and resets it.
func (s sessions) take(chatID int64) inputMode {
	mode := s[chatID]
	delete(s, chatID)
	return mode
}
