// Package classify maps drift scores to QC tags and summarizes them by
// compound class and ion mode.
package classify

import (
	"sort"

	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/score"
)

// Unassigned is the group for compounds missing from the lookup.
const Unassigned = "N/A"

// Tag is the qualitative QC outcome of a score.
type Tag int

const (
	Undetermined Tag = iota
	High
	Neutral
	Low
)

func (t Tag) String() string {
	switch t {
	case High:
		return "high"
	case Neutral:
		return "neutral"
	case Low:
		return "low"
	default:
		return "undetermined"
	}
}

// Color returns the table highlight for the tag; undetermined has none.
func (t Tag) Color() string {
	switch t {
	case High:
		return "lightgreen"
	case Neutral:
		return "yellow"
	case Low:
		return "lightcoral"
	default:
		return ""
	}
}

// MarshalText lets tags serialize by name in yaml and json exports.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Thresholds bound the neutral band. Scores above High are high, scores
// below Low are low; both bounds themselves are neutral.
type Thresholds struct {
	High float64 `json:"high" yaml:"high" mapstructure:"high"`
	Low  float64 `json:"low" yaml:"low" mapstructure:"low"`
}

// DefaultThresholds are the lab's QC cut-offs.
var DefaultThresholds = Thresholds{High: 0.5, Low: 0}

// Classify tags one score.
func (th Thresholds) Classify(s score.Score) Tag {
	if !s.Determined {
		return Undetermined
	}
	switch {
	case s.Value > th.High:
		return High
	case s.Value < th.Low:
		return Low
	default:
		return Neutral
	}
}

// Classify tags a score with DefaultThresholds.
func Classify(s score.Score) Tag {
	return DefaultThresholds.Classify(s)
}

// Classification holds the tags of both variants for a compound.
type Classification struct {
	Compound   string
	Raw        Tag
	Normalized Tag
}

// Counts tallies tags for one variant.
type Counts struct {
	High         int `json:"high" yaml:"high"`
	Neutral      int `json:"neutral" yaml:"neutral"`
	Low          int `json:"low" yaml:"low"`
	Undetermined int `json:"undetermined" yaml:"undetermined"`
}

func (c *Counts) add(t Tag) {
	switch t {
	case High:
		c.High++
	case Neutral:
		c.Neutral++
	case Low:
		c.Low++
	default:
		c.Undetermined++
	}
}

// GroupCounts is one line of a class or ion summary.
type GroupCounts struct {
	Group      string `json:"group" yaml:"group"`
	Raw        Counts `json:"raw" yaml:"raw"`
	Normalized Counts `json:"normalized" yaml:"normalized"`
}

// Summarize counts tags per group. key maps a compound to its group; an empty
// key is counted under Unassigned. Groups are returned sorted by name.
func Summarize(items []Classification, key func(compound string) string) []GroupCounts {
	groups := make(map[string]*GroupCounts)
	for _, item := range items {
		name := key(item.Compound)
		if name == "" {
			name = Unassigned
		}
		g, ok := groups[name]
		if !ok {
			g = &GroupCounts{Group: name}
			groups[name] = g
		}
		g.Raw.add(item.Raw)
		g.Normalized.add(item.Normalized)
	}

	out := make([]GroupCounts, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Group < out[j].Group
	})
	return out
}

// Entry is one row of the compound class/ion lookup.
type Entry struct {
	Compound string
	Class    string
	Ion      string
}

// Lookup maps compound names to their class and ion mode.
type Lookup struct {
	entries map[string]Entry
}

// NewLookup builds a lookup; compound keys are cleaned with core.CleanName.
// Later entries replace earlier ones with the same key.
func NewLookup(entries []Entry) *Lookup {
	l := &Lookup{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		e.Compound = core.CleanName(e.Compound)
		l.entries[e.Compound] = e
	}
	return l
}

// Len returns the number of compounds in the lookup.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Get returns the entry for a compound after cleaning the name.
func (l *Lookup) Get(compound string) (Entry, bool) {
	if l == nil {
		return Entry{}, false
	}
	e, ok := l.entries[core.CleanName(compound)]
	return e, ok
}

// Class returns the compound class, or Unassigned.
func (l *Lookup) Class(compound string) string {
	if e, ok := l.Get(compound); ok && e.Class != "" {
		return e.Class
	}
	return Unassigned
}

// Ion returns the ion mode, or Unassigned.
func (l *Lookup) Ion(compound string) string {
	if e, ok := l.Get(compound); ok && e.Ion != "" {
		return e.Ion
	}
	return Unassigned
}
