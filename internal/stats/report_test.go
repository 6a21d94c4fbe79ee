package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/cardtype/internal/model"
	"github.com/verte-zerg/cardtype/internal/store"
)

func seededStore(t *testing.T) (*store.Store, []int64) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "cardtype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		rec := model.SessionRecord{
			StartedAt:  start,
			EndedAt:    end,
			Deck:       "french",
			CardKey:    "card",
			Prompt:     "Hello",
			Target:     "Bonjour",
			DurationMs: end.Sub(start).Milliseconds(),
			Errors:     i,
			WPM:        2,
			Accuracy:   0.9,
			Score:      60 + i*10,
			Rating:     int(RatingFor(i, 0, 60+i*10)),
		}
		charStats := []model.CharStats{
			{Char: "a", Correct: 5, Incorrect: 0},
			{Char: "b", Correct: 4, Incorrect: 1},
		}
		id, err := st.InsertSession(ctx, rec, charStats)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}
	return st, ids
}

func TestBuildReport(t *testing.T) {
	st, ids := seededStore(t)
	report, err := BuildReport(context.Background(), st, model.StatsConfig{Deck: "french", Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.Chars) != 2 {
		t.Fatalf("expected char aggregates, got %+v", report.Chars)
	}
}

func TestReportRenderText(t *testing.T) {
	st, _ := seededStore(t)
	report, err := BuildReport(context.Background(), st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	var buf bytes.Buffer
	if err := report.RenderText(&buf, 2); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 3", "Avg Score: 70.0", "Best Score: 80", "History", "Hello", "Score trend: [", "Weakest Characters"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "\nb ") > strings.Index(out, "\na ") {
		t.Fatalf("expected weakest char b listed first:\n%s", out)
	}
}

func TestReportRenderYAML(t *testing.T) {
	st, _ := seededStore(t)
	report, err := BuildReport(context.Background(), st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	var buf bytes.Buffer
	if err := report.RenderYAML(&buf); err != nil {
		t.Fatalf("render yaml: %v", err)
	}
	var decoded struct {
		Sessions int            `yaml:"sessions"`
		Ratings  map[string]int `yaml:"ratings"`
		History  []struct {
			Score  int    `yaml:"score"`
			Rating string `yaml:"rating"`
		} `yaml:"history"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Sessions != 3 || len(decoded.History) != 3 {
		t.Fatalf("unexpected yaml: %+v", decoded)
	}
	if decoded.History[2].Score != 80 {
		t.Fatalf("unexpected last score: %+v", decoded.History)
	}
	total := 0
	for _, n := range decoded.Ratings {
		total += n
	}
	if total != 3 {
		t.Fatalf("unexpected rating counts: %v", decoded.Ratings)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (Report{}).RenderText(&buf, 3); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No sessions found.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestSparklineAndMovingAverage(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	avg := MovingAverage([]float64{2, 4, 6}, 2)
	if avg[0] != 2 || avg[1] != 3 || avg[2] != 5 {
		t.Fatalf("unexpected moving average: %v", avg)
	}
}
