// Package source discovers and parses Claude Code JSONL session transcripts.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"

	"github.com/theirongolddev/tokentrack/internal/model"
)

// ExtractTurns reads a JSONL transcript and returns the deduplicated turns it
// contains, each attached to the supplied project path.
//
// Claude Code writes multiple assistant records per API call (streaming
// partials plus the final response). Records are grouped by message.id and
// only the one with the highest output-token count survives: that is the
// final, complete version, and every field of that record wins. Records with
// zero total usage are dropped. Malformed lines are skipped; an unreadable
// file yields nothing.
func ExtractTurns(path, projectPath string) []model.Turn {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	// message_id -> best turn seen so far
	best := make(map[string]model.Turn)
	var order []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if extractTopLevelType(line) != "assistant" {
			continue
		}

		var entry RawEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entry.Message == nil || entry.Message.Usage == nil {
			continue
		}

		u := entry.Message.Usage
		total := u.InputTokens + u.OutputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
		if total == 0 {
			continue
		}

		messageID := entry.Message.ID
		if messageID == "" {
			messageID = entry.UUID
		}
		modelName := entry.Message.Model
		if modelName == "" {
			modelName = "unknown"
		}

		turn := model.Turn{
			MessageID:           messageID,
			OuterUUID:           entry.UUID,
			SessionID:           entry.SessionID,
			ProjectPath:         projectPath,
			Timestamp:           entry.Timestamp,
			Model:               modelName,
			InputTokens:         u.InputTokens,
			OutputTokens:        u.OutputTokens,
			CacheCreationTokens: u.CacheCreationInputTokens,
			CacheReadTokens:     u.CacheReadInputTokens,
		}

		existing, seen := best[messageID]
		if !seen {
			best[messageID] = turn
			order = append(order, messageID)
		} else if turn.OutputTokens > existing.OutputTokens {
			best[messageID] = turn
		}
	}

	turns := make([]model.Turn, 0, len(best))
	for _, id := range order {
		turns = append(turns, best[id])
	}
	return turns
}

// ResolveProjectPath reads the first user-type record in a transcript and
// returns its declared working directory, or "" when none is found.
func ResolveProjectPath(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if extractTopLevelType(line) != "user" {
			continue
		}
		var entry RawEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entry.Cwd != "" {
			return entry.Cwd
		}
	}
	return ""
}

// typeKey is the byte sequence for a JSON key named "type" (with quotes).
var typeKey = []byte(`"type"`)

// extractTopLevelType finds the top-level "type" field in a JSONL line.
// Tracks brace depth and string boundaries so nested "type" keys are ignored.
// Early-exits once found, making cost O(1) vs line length.
func extractTopLevelType(line []byte) string {
	depth := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '"':
			if depth == 1 && bytes.HasPrefix(line[i:], typeKey) {
				val, isKey := classifyType(line, i+len(typeKey))
				if isKey {
					return val // found the "type" key — done regardless of value
				}
				// "type" appeared as a value, not a key. Continue scanning.
			}
			i = skipJSONString(line, i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		default:
			i++
		}
	}
	return ""
}

// classifyType checks whether pos follows a JSON key (expects : then value).
// isKey=false means "type" appeared as a value, not a key — caller should
// continue scanning.
func classifyType(line []byte, pos int) (val string, isKey bool) {
	i := skipSpaces(line, pos)
	if i >= len(line) || line[i] != ':' {
		return "", false // no colon — this was a value, not a key
	}
	i = skipSpaces(line, i+1)
	if i >= len(line) || line[i] != '"' {
		return "", true // key with non-string value (null, number, etc.)
	}
	i++ // past opening quote

	end := bytes.IndexByte(line[i:], '"')
	if end < 0 || end > 20 {
		return "", true
	}
	v := string(line[i : i+end])
	switch v {
	case "assistant", "user":
		return v, true
	}
	return "", true // valid key but irrelevant type (e.g., "system")
}

// skipJSONString advances past a JSON string starting at the opening quote.
func skipJSONString(line []byte, i int) int {
	i++ // skip opening quote
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}
