package bracket

// Participant is one side of a match. ID is a weak reference into the
// participant registry; the bracket only tracks the per-match outcome.
type Participant struct {
	ID     string `json:"id"`
	Score  int    `json:"score"`
	Winner bool   `json:"winner"`
}
