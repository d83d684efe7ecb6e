package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/tokentrack/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testTurn(messageID string, mutate ...func(*model.Turn)) model.Turn {
	turn := model.Turn{
		MessageID:           messageID,
		OuterUUID:           "uuid-" + messageID,
		SessionID:           "sess-1",
		ProjectPath:         "/home/dev/proj",
		Timestamp:           "2025-06-01T10:00:00Z",
		Model:               "claude-sonnet-4-5",
		InputTokens:         100,
		OutputTokens:        50,
		CacheCreationTokens: 10,
		CacheReadTokens:     200,
	}
	for _, m := range mutate {
		m(&turn)
	}
	return turn
}

func mustUpsert(t *testing.T, st *Store, turns ...model.Turn) int {
	t.Helper()
	n, err := st.UpsertTurns(turns)
	if err != nil {
		t.Fatalf("UpsertTurns: %v", err)
	}
	return n
}

func TestUpsertTurns_Idempotent(t *testing.T) {
	st := openTestStore(t)

	mustUpsert(t, st, testTurn("m1"))
	first, err := st.Totals()
	if err != nil {
		t.Fatal(err)
	}

	mustUpsert(t, st, testTurn("m1"))
	second, err := st.Totals()
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("totals changed on duplicate upsert: %+v then %+v", first, second)
	}
	if second.Turns != 1 {
		t.Errorf("turns = %d, want 1", second.Turns)
	}
}

func TestUpsertTurns_MonotonicMerge(t *testing.T) {
	st := openTestStore(t)

	mustUpsert(t, st, testTurn("m1", func(tn *model.Turn) { tn.OutputTokens = 10 }))
	mustUpsert(t, st, testTurn("m1", func(tn *model.Turn) { tn.OutputTokens = 3 }))

	totals, err := st.Totals()
	if err != nil {
		t.Fatal(err)
	}
	if totals.OutputTokens != 10 {
		t.Errorf("output = %d, want 10 (stale resend must not regress)", totals.OutputTokens)
	}

	// A more complete delivery improves the row.
	mustUpsert(t, st, testTurn("m1", func(tn *model.Turn) {
		tn.OutputTokens = 25
		tn.CacheReadTokens = 500
	}))
	totals, err = st.Totals()
	if err != nil {
		t.Fatal(err)
	}
	if totals.OutputTokens != 25 || totals.CacheReadTokens != 500 {
		t.Errorf("got output=%d cacheRead=%d, want 25/500", totals.OutputTokens, totals.CacheReadTokens)
	}
}

func TestUpsertTurns_InputFixedAtInsert(t *testing.T) {
	st := openTestStore(t)

	mustUpsert(t, st, testTurn("m1", func(tn *model.Turn) { tn.InputTokens = 100 }))
	mustUpsert(t, st, testTurn("m1", func(tn *model.Turn) { tn.InputTokens = 999 }))

	totals, err := st.Totals()
	if err != nil {
		t.Fatal(err)
	}
	if totals.InputTokens != 100 {
		t.Errorf("input = %d, want 100 (fixed at first insert)", totals.InputTokens)
	}
}

func TestUpsertTurns_ReturnsProcessedCount(t *testing.T) {
	st := openTestStore(t)

	n := mustUpsert(t, st, testTurn("m1"), testTurn("m1"), testTurn("m2"))
	if n != 3 {
		t.Errorf("processed = %d, want 3 (count processed, not rows changed)", n)
	}
}

func TestSessionBounds(t *testing.T) {
	st := openTestStore(t)

	// Out-of-order delivery: later timestamp first.
	mustUpsert(t, st,
		testTurn("m2", func(tn *model.Turn) { tn.Timestamp = "2025-06-01T12:00:00Z" }),
		testTurn("m1", func(tn *model.Turn) { tn.Timestamp = "2025-06-01T10:00:00Z" }),
		testTurn("m3", func(tn *model.Turn) { tn.Timestamp = "2025-06-01T11:00:00Z" }),
	)

	sessions, err := st.Sessions(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}

	s := sessions[0]
	// first_seen is fixed at insert, so it records the first-delivered
	// timestamp; last_seen extends to the max and never shrinks.
	if s.FirstSeen != "2025-06-01T12:00:00Z" {
		t.Errorf("first_seen = %q, want the insert-time value", s.FirstSeen)
	}
	if s.LastSeen != "2025-06-01T12:00:00Z" {
		t.Errorf("last_seen = %q, want max timestamp", s.LastSeen)
	}
	if s.FirstSeen > s.LastSeen {
		t.Errorf("first_seen %q > last_seen %q", s.FirstSeen, s.LastSeen)
	}
	if s.Turns != 3 {
		t.Errorf("turns = %d, want 3", s.Turns)
	}
}

func TestSessions_OrderAndModel(t *testing.T) {
	st := openTestStore(t)

	mustUpsert(t, st,
		testTurn("a1", func(tn *model.Turn) {
			tn.SessionID = "old"
			tn.Timestamp = "2025-06-01T08:00:00Z"
			tn.Model = "claude-haiku-4-5"
		}),
		testTurn("b1", func(tn *model.Turn) {
			tn.SessionID = "new"
			tn.Timestamp = "2025-06-02T08:00:00Z"
			tn.Model = "claude-haiku-4-5"
		}),
		testTurn("b2", func(tn *model.Turn) {
			tn.SessionID = "new"
			tn.Timestamp = "2025-06-02T09:00:00Z"
			tn.Model = "claude-opus-4-5"
		}),
	)

	sessions, err := st.Sessions(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].SessionID != "new" {
		t.Errorf("first row = %q, want most recent session", sessions[0].SessionID)
	}
	if sessions[0].Model != "claude-opus-4-5" {
		t.Errorf("model = %q, want most-recently-seen model", sessions[0].Model)
	}

	limited, err := st.Sessions(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d sessions with limit 1, want 1", len(limited))
	}
}

func TestSessionTurns_OldestFirst(t *testing.T) {
	st := openTestStore(t)

	mustUpsert(t, st,
		testTurn("m2", func(tn *model.Turn) { tn.Timestamp = "2025-06-01T12:00:00Z" }),
		testTurn("m1", func(tn *model.Turn) { tn.Timestamp = "2025-06-01T10:00:00Z" }),
	)

	turns, err := st.SessionTurns("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].MessageID != "m1" || turns[1].MessageID != "m2" {
		t.Errorf("order = [%s %s], want oldest first", turns[0].MessageID, turns[1].MessageID)
	}
}

func TestRollingWindow(t *testing.T) {
	st := openTestStore(t)

	now := time.Now().UTC()
	inside := now.Add(-4 * time.Hour).Format(time.RFC3339)
	outside := now.Add(-6 * time.Hour).Format(time.RFC3339)

	mustUpsert(t, st,
		testTurn("in", func(tn *model.Turn) { tn.Timestamp = inside; tn.OutputTokens = 100 }),
		testTurn("out", func(tn *model.Turn) { tn.Timestamp = outside; tn.OutputTokens = 7000 }),
	)

	window, err := st.RollingWindow(5)
	if err != nil {
		t.Fatal(err)
	}
	if window.Turns != 1 {
		t.Fatalf("window turns = %d, want 1 (6h-old turn excluded)", window.Turns)
	}
	if window.OutputTokens != 100 {
		t.Errorf("window output = %d, want 100", window.OutputTokens)
	}
	if window.OldestTurn != inside {
		t.Errorf("oldest = %q, want %q", window.OldestTurn, inside)
	}
}

func TestToday(t *testing.T) {
	st := openTestStore(t)

	now := time.Now().UTC()
	mustUpsert(t, st,
		testTurn("today", func(tn *model.Turn) {
			tn.Timestamp = now.Format(time.RFC3339)
			tn.OutputTokens = 11
		}),
		testTurn("lastweek", func(tn *model.Turn) {
			tn.Timestamp = now.AddDate(0, 0, -7).Format(time.RFC3339)
			tn.OutputTokens = 999
		}),
	)

	today, err := st.Today()
	if err != nil {
		t.Fatal(err)
	}
	if today.Turns != 1 || today.OutputTokens != 11 {
		t.Errorf("today = %+v, want only the current-day turn", today)
	}
}

func TestProjectsAndModels_OrderedByCost(t *testing.T) {
	st := openTestStore(t)

	// Opus output is 5x Sonnet, so the opus session costs more.
	mustUpsert(t, st,
		testTurn("cheap", func(tn *model.Turn) {
			tn.SessionID = "s-cheap"
			tn.ProjectPath = "/proj/cheap"
			tn.Model = "claude-sonnet-4-5"
			tn.OutputTokens = 1000
		}),
		testTurn("costly", func(tn *model.Turn) {
			tn.SessionID = "s-costly"
			tn.ProjectPath = "/proj/costly"
			tn.Model = "claude-opus-4-5"
			tn.OutputTokens = 1000
		}),
	)

	projects, err := st.Projects()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 || projects[0].ProjectPath != "/proj/costly" {
		t.Errorf("projects = %+v, want costly first", projects)
	}

	models, err := st.Models()
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 2 || models[0].Model != "claude-opus-4-5" {
		t.Errorf("models = %+v, want opus first", models)
	}
}

func TestDaily_OldestFirst(t *testing.T) {
	st := openTestStore(t)

	now := time.Now().UTC()
	// Anchor to midday so adding an hour never crosses a date boundary.
	midday := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC)
	day1 := midday.AddDate(0, 0, -2)
	day2 := midday.AddDate(0, 0, -1)

	mustUpsert(t, st,
		testTurn("d2", func(tn *model.Turn) { tn.Timestamp = day2.Format(time.RFC3339) }),
		testTurn("d1a", func(tn *model.Turn) { tn.Timestamp = day1.Format(time.RFC3339) }),
		testTurn("d1b", func(tn *model.Turn) { tn.Timestamp = day1.Add(time.Hour).Format(time.RFC3339) }),
	)

	daily, err := st.Daily(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(daily) != 2 {
		t.Fatalf("got %d days, want 2", len(daily))
	}
	if daily[0].Day != day1.Format("2006-01-02") {
		t.Errorf("first day = %q, want oldest", daily[0].Day)
	}
	if daily[0].Turns != 2 {
		t.Errorf("day1 turns = %d, want 2", daily[0].Turns)
	}
}

func TestQueries_EmptyStore(t *testing.T) {
	st := openTestStore(t)

	totals, err := st.Totals()
	if err != nil {
		t.Fatalf("Totals on empty store: %v", err)
	}
	if totals != (model.Aggregate{}) {
		t.Errorf("totals = %+v, want zero aggregate", totals)
	}

	window, err := st.RollingWindow(5)
	if err != nil {
		t.Fatalf("RollingWindow on empty store: %v", err)
	}
	if window.OldestTurn != "" || window.Turns != 0 {
		t.Errorf("window = %+v, want empty", window)
	}

	sessions, err := st.Sessions(10)
	if err != nil {
		t.Fatalf("Sessions on empty store: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %+v, want none", sessions)
	}
}

func TestCostComputedAtUpsert(t *testing.T) {
	st := openTestStore(t)

	mustUpsert(t, st, testTurn("m1", func(tn *model.Turn) {
		tn.Model = "claude-sonnet-4-5"
		tn.InputTokens = 1_000_000
		tn.OutputTokens = 0
		tn.CacheCreationTokens = 0
		tn.CacheReadTokens = 0
	}))

	totals, err := st.Totals()
	if err != nil {
		t.Fatal(err)
	}
	if totals.CostUSD != 3.00 {
		t.Errorf("cost = %v, want exactly 3.00", totals.CostUSD)
	}
}
