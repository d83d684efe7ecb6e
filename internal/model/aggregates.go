package model

// Aggregate holds summed usage over some slice of turns. Zero value means
// "no data": every query that can match nothing returns a zero Aggregate,
// never an error.
type Aggregate struct {
	Sessions            int64
	Turns               int64
	InputTokens         int64
	OutputTokens        int64
	CacheCreationTokens int64
	CacheReadTokens     int64
	CostUSD             float64
}

// TotalTokens returns the sum of all four token fields.
func (a Aggregate) TotalTokens() int64 {
	return a.InputTokens + a.OutputTokens + a.CacheCreationTokens + a.CacheReadTokens
}

// WindowStats is an Aggregate restricted to a rolling time window, plus the
// oldest qualifying timestamp (used to estimate when usage falls out of the
// window).
type WindowStats struct {
	Aggregate
	Hours      int
	OldestTurn string // ISO-8601, empty when the window is empty
}

// SessionRow is one row of the per-session listing.
type SessionRow struct {
	SessionID   string
	ProjectPath string
	FirstSeen   string
	LastSeen    string
	Model       string // most-recently-seen model in the session
	Aggregate
}

// TurnRow is one stored turn as returned by the per-session detail query.
type TurnRow struct {
	MessageID           string
	SessionID           string
	Timestamp           string
	Model               string
	InputTokens         int64
	OutputTokens        int64
	CacheCreationTokens int64
	CacheReadTokens     int64
	CostUSD             float64
}

// TotalTokens returns the sum of all four token counts.
func (t TurnRow) TotalTokens() int64 {
	return t.InputTokens + t.OutputTokens + t.CacheCreationTokens + t.CacheReadTokens
}

// ProjectStats is the per-project rollup, ordered by descending cost.
type ProjectStats struct {
	ProjectPath string
	Aggregate
}

// ModelStats is the per-model rollup, ordered by descending cost.
type ModelStats struct {
	Model string
	Aggregate
}

// DailyStats is the aggregate for one calendar day.
type DailyStats struct {
	Day string // "2006-01-02"
	Aggregate
}
