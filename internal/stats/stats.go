// Package stats contains session scoring, rating and history reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/cardtype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RatingCounts tallies sessions per rating.
func RatingCounts(sessions []model.SessionAggregate) map[Rating]int {
	counts := map[Rating]int{}
	for _, s := range sessions {
		counts[Rating(s.Rating)]++
	}
	return counts
}

// RenderSummary prints aggregate numbers for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalScore, totalWPM, totalAcc float64
	best := 0
	for _, s := range sessions {
		totalScore += float64(s.Score)
		totalWPM += s.WPM
		totalAcc += s.Accuracy
		best = max(best, s.Score)
	}
	count := float64(len(sessions))
	counts := RatingCounts(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Avg Score: %.1f", totalScore/count),
		fmt.Sprintf("Best Score: %d", best),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count*100),
		fmt.Sprintf("Ratings: again %d · hard %d · good %d · easy %d", counts[Again], counts[Hard], counts[Good], counts[Easy]),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints one row per session followed by a score trend line.
func RenderHistory(w io.Writer, sessions []model.SessionAggregate, window int) error {
	if len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "History"); err != nil {
		return err
	}
	headers := []string{"Date", "Card", "Time", "Errors", "Hints", "Score", "Rating"}
	rows := make([][]string, 0, len(sessions))
	scores := make([]float64, len(sessions))
	for i, s := range sessions {
		scores[i] = float64(s.Score)
		rating := Rating(s.Rating).String()
		if s.GaveUp {
			rating += " (gave up)"
		}
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			truncate(s.Prompt, 24),
			FormatClock(time.Duration(s.DurationMs) * time.Millisecond),
			fmt.Sprintf("%d", s.Errors),
			fmt.Sprintf("%d", s.Hints),
			fmt.Sprintf("%d", s.Score),
			rating,
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	trend := Sparkline(MovingAverage(scores, window))
	if _, err := fmt.Fprintf(w, "Score trend: [%s]\n\n", trend); err != nil {
		return err
	}
	return nil
}

// RenderCharTable prints the weakest characters, lowest accuracy first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate, top int) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	rows := make([]model.CharAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := accuracy(rows[i]), accuracy(rows[j])
		if ai == aj {
			return rows[i].Char < rows[j].Char
		}
		return ai < aj
	})
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}

	if _, err := fmt.Fprintln(w, "Weakest Characters"); err != nil {
		return err
	}
	headers := []string{"Char", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}
	tableRows := make([][]string, 0, len(rows))
	for _, agg := range rows {
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		tableRows = append(tableRows, []string{
			agg.Char,
			fmt.Sprintf("%.2f%%", accuracy(agg)*100),
			fmt.Sprintf("%.1f", lat),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
