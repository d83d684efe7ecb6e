package source

// RawEntry represents a single line in a Claude Code JSONL session file.
type RawEntry struct {
	Type      string      `json:"type"`
	UUID      string      `json:"uuid,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	Cwd       string      `json:"cwd,omitempty"`
	Message   *RawMessage `json:"message,omitempty"`
}

// RawMessage represents the assistant's message envelope.
type RawMessage struct {
	ID    string    `json:"id"`
	Role  string    `json:"role"`
	Model string    `json:"model"`
	Usage *RawUsage `json:"usage,omitempty"`
}

// RawUsage holds token counts from the API response.
type RawUsage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
}

// Project is one tracked project directory and the transcript files it holds.
type Project struct {
	Path  string   // resolved cwd (falls back to the directory name)
	Files []string // absolute paths to the project's JSONL transcripts
}
