// Package vocab merges the backend dictionary with learning progress
// and filters the result by HSK band, learned state and search query.
package vocab

import (
	"sort"
	"strconv"
	"strings"

	"zhread/internal/api"
)

// Band is an HSK vocabulary level. Levels 1 through 6 map directly;
// the 2021 standard groups 7-9 into one band, represented as Band79.
type Band int

const (
	BandNone Band = 0 // entry carries no HSK tag
	Band79   Band = 7 // combined advanced band
)

func (b Band) String() string {
	switch {
	case b == BandNone:
		return "-"
	case b == Band79:
		return "7-9"
	default:
		return strconv.Itoa(int(b))
	}
}

// ParseBand accepts "3", "hsk3", "7-9" or "hsk7-9" style markers.
func ParseBand(s string) Band {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "hsk")
	switch s {
	case "7-9", "7–9", "7", "8", "9":
		return Band79
	case "1", "2", "3", "4", "5", "6":
		n, _ := strconv.Atoi(s)
		return Band(n)
	}
	return BandNone
}

// Bands lists the selectable bands in display order.
func Bands() []Band {
	return []Band{1, 2, 3, 4, 5, 6, Band79}
}

// Entry is one vocabulary row: a dictionary entry joined with its
// learned state.
type Entry struct {
	Headword    string
	Pinyin      []string
	Definitions []string
	Band        Band
	Learned     bool
	Status      string
}

// Merge joins dictionary and progress into a deterministic list,
// ordered by band (untagged entries last) then headword.
func Merge(dict api.Dict, progress api.Progress) []Entry {
	entries := make([]Entry, 0, len(dict))
	for headword, d := range dict {
		e := Entry{
			Headword:    headword,
			Pinyin:      d.Pinyin,
			Definitions: d.Definitions,
			Band:        bandOf(d),
		}
		if p, ok := progress[headword]; ok {
			e.Learned = p.Learned
			e.Status = p.Status
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		bi, bj := sortKey(entries[i].Band), sortKey(entries[j].Band)
		if bi != bj {
			return bi < bj
		}
		return entries[i].Headword < entries[j].Headword
	})
	return entries
}

func sortKey(b Band) int {
	if b == BandNone {
		return int(Band79) + 1
	}
	return int(b)
}

func bandOf(d api.DictEntry) Band {
	if b := ParseBand(d.HSKBand); b != BandNone {
		return b
	}
	for _, tag := range d.Tags {
		if strings.HasPrefix(strings.ToLower(tag), "hsk") {
			if b := ParseBand(tag); b != BandNone {
				return b
			}
		}
	}
	return BandNone
}

// LearnedFilter narrows entries by learned state.
type LearnedFilter int

const (
	LearnedAny LearnedFilter = iota
	LearnedOnly
	UnlearnedOnly
)

func (f LearnedFilter) String() string {
	switch f {
	case LearnedOnly:
		return "learned"
	case UnlearnedOnly:
		return "unlearned"
	}
	return "all"
}

// Next cycles to the following filter state.
func (f LearnedFilter) Next() LearnedFilter {
	return (f + 1) % 3
}

// Filter selects a subset of merged entries. BandAll keeps every band.
type Filter struct {
	Band    Band
	BandAll bool
	Learned LearnedFilter
	Query   string
}

// Apply returns the entries matching the filter, preserving order.
func (f Filter) Apply(entries []Entry) []Entry {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !f.BandAll && e.Band != f.Band {
			continue
		}
		if f.Learned == LearnedOnly && !e.Learned {
			continue
		}
		if f.Learned == UnlearnedOnly && e.Learned {
			continue
		}
		if query != "" && !matches(e, query) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matches(e Entry, query string) bool {
	if strings.Contains(strings.ToLower(e.Headword), query) {
		return true
	}
	for _, p := range e.Pinyin {
		if strings.Contains(strings.ToLower(p), query) {
			return true
		}
	}
	for _, d := range e.Definitions {
		if strings.Contains(strings.ToLower(d), query) {
			return true
		}
	}
	return false
}

// Counts tallies entries per band, plus learned counts.
func Counts(entries []Entry) (perBand map[Band]int, learned int) {
	perBand = make(map[Band]int)
	for _, e := range entries {
		perBand[e.Band]++
		if e.Learned {
			learned++
		}
	}
	return perBand, learned
}
