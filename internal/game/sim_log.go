package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded sim event.
type SimLogEntry struct {
	Tick     int
	Unit     string  // label e.g. "U0", or "--" for global events
	Category string  // order, path, move, rest
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] U1   path      computed         (5,5)->(5,17)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Unit, e.Category, e.Key, e.Value)
}

// SimLog collects structured sim events. It is unbounded and meant for tests,
// the headless report and the debug report.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position and
// rest-slot entries are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, unit, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Unit:     unit,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, unit, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, unit, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterUnit returns entries for a specific unit label.
func (sl *SimLog) FilterUnit(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Unit == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	return formatEntries(sl.entries)
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(sl.FilterTickRange(fromTick, toTick))
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the simulation state.
func (sl *SimLog) Summary(tick int, units []UnitView, stats SimStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", tick)

	active := 0
	for _, u := range units {
		if u.Active {
			active++
		}
	}
	fmt.Fprintf(&sb, "Units: %d  active=%d  idle=%d\n", len(units), active, len(units)-active)
	fmt.Fprintf(&sb, "Orders: %d  arrived=%d  abandoned=%d\n", stats.Commands, stats.Arrivals, stats.Abandoned)
	fmt.Fprintf(&sb, "Paths: searches=%d  failed=%d\n", stats.PathSearches, stats.PathFailures)
	fmt.Fprintf(&sb, "Rest: probes=%d  overlaps=%d  shared=%d\n", stats.Probes, stats.ProbeCapHits, SharedRestSlots(units))

	stalled := 0
	for _, u := range units {
		if u.Active && len(u.Path) == 0 {
			fmt.Fprintf(&sb, "Stalled: U%d → %s\n", u.ID, formatPoint(u.Dest.X, u.Dest.Y))
			stalled++
		}
	}
	if stalled == 0 {
		sb.WriteString("Stalled: none\n")
	}
	return sb.String()
}

// SharedRestSlots counts idle units whose position exactly matches an
// earlier idle unit's.
func SharedRestSlots(units []UnitView) int {
	seen := make(map[[2]float64]bool, len(units))
	shared := 0
	for _, u := range units {
		if u.Active {
			continue
		}
		k := [2]float64{u.Pos.X, u.Pos.Y}
		if seen[k] {
			shared++
		}
		seen[k] = true
	}
	return shared
}

func formatPoint(x, y float64) string {
	return fmt.Sprintf("(%.0f,%.0f)", x, y)
}
