// Package model defines domain types for tokentrack turns and aggregates.
package model

// Turn is one priced unit of assistant work: the final, deduplicated state
// of a single API response extracted from a session transcript.
type Turn struct {
	MessageID           string // API message ID (msg_xxx); dedup and upsert key
	OuterUUID           string // JSONL record UUID, informational only
	SessionID           string
	ProjectPath         string // actual cwd the session ran in
	Timestamp           string // ISO-8601, as written by Claude Code
	Model               string
	InputTokens         int64
	OutputTokens        int64
	CacheCreationTokens int64
	CacheReadTokens     int64
}

// TotalTokens returns the sum of all four token counts.
func (t Turn) TotalTokens() int64 {
	return t.InputTokens + t.OutputTokens + t.CacheCreationTokens + t.CacheReadTokens
}
