// Package eventlog parses mission event logs into typed events.
//
// Grammar, one event per line:
//
//	<unixSeconds> - INFO: TAKEOFF DETECTED
//	<unixSeconds> - INFO: LANDING DETECTED
//	<unixSeconds> - INFO: IN TARGET <id> (<n>) (DSA)
//	<unixSeconds> - INFO: OUT TARGET <id> (<n>) (DSA)
//
// Lines that match none of these are skipped. Parsing never fails on content.
package eventlog

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/sortie/internal/domain/model"
)

const maxLineBytes = 1 << 20

var (
	takeoffRe = regexp.MustCompile(`^(\d+) - INFO: TAKEOFF DETECTED$`)
	landingRe = regexp.MustCompile(`^(\d+) - INFO: LANDING DETECTED$`)
	targetRe  = regexp.MustCompile(`^(\d+) - INFO: (IN|OUT) TARGET (\d+) \((\d+)\) \(DSA\)$`)
)

// Stats counts how many lines produced an event.
type Stats struct {
	Lines   int `json:"lines"`
	Matched int `json:"matched"`
	Skipped int `json:"skipped"`
}

// Parse converts raw log lines into events, preserving line order.
func Parse(lines []string) []model.Event {
	events, _ := parse(lines)
	return events
}

// ParseWithStats is Parse plus line accounting.
func ParseWithStats(lines []string) ([]model.Event, Stats) {
	return parse(lines)
}

// ParseReader reads newline separated log lines from r. The error is only
// ever an I/O error from r.
func ParseReader(r io.Reader) ([]model.Event, Stats, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, Stats{}, err
	}
	events, stats := parse(lines)
	return events, stats, nil
}

// ReadLines splits r into lines without interpreting them.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}
	return lines, nil
}

func parse(lines []string) ([]model.Event, Stats) {
	stats := Stats{Lines: len(lines)}
	events := make([]model.Event, 0, len(lines))
	for _, line := range lines {
		ev, ok := ParseLine(line)
		if !ok {
			stats.Skipped++
			continue
		}
		events = append(events, ev)
		stats.Matched++
	}
	return events, stats
}

// ParseLine parses a single log line. ok is false for anything outside the
// grammar, including timestamps that do not fit in epoch milliseconds.
func ParseLine(line string) (model.Event, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.Event{}, false
	}

	if m := targetRe.FindStringSubmatch(line); m != nil {
		ts, ok := toMillis(m[1])
		if !ok {
			return model.Event{}, false
		}
		kind := model.EventTargetEnter
		if m[2] == "OUT" {
			kind = model.EventTargetExit
		}
		return model.Event{Kind: kind, TargetID: m[3], TimestampMs: ts}, true
	}
	if m := takeoffRe.FindStringSubmatch(line); m != nil {
		ts, ok := toMillis(m[1])
		return model.Event{Kind: model.EventTakeoff, TimestampMs: ts}, ok
	}
	if m := landingRe.FindStringSubmatch(line); m != nil {
		ts, ok := toMillis(m[1])
		return model.Event{Kind: model.EventLanding, TimestampMs: ts}, ok
	}
	return model.Event{}, false
}

func toMillis(secs string) (int64, bool) {
	s, err := strconv.ParseInt(secs, 10, 64)
	if err != nil || s > math.MaxInt64/1000 {
		return 0, false
	}
	return s * 1000, true
}
