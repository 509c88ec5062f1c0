package attendance

import (
	"sort"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

// Entry records whether a student was present on a date.
type Entry struct {
	Date    core.Date `json:"date"`
	Present bool      `json:"present"`
}

// History maps a student ID to its entries, at most one per date.
type History map[int64][]Entry

// Daily is today's checklist: student ID -> present.
type Daily map[int64]bool

func (h History) clone() History {
	res := make(History, len(h))
	for id, entries := range h {
		cp := make([]Entry, len(entries))
		copy(cp, entries)
		res[id] = cp
	}
	return res
}

func (h History) index(studentID int64, date core.Date) int {
	for i, e := range h[studentID] {
		if e.Date.Equal(date) {
			return i
		}
	}
	return -1
}

// Entry returns the entry of a student on date, if any.
func (h History) Entry(studentID int64, date core.Date) (Entry, bool) {
	if i := h.index(studentID, date); i >= 0 {
		return h[studentID][i], true
	}
	return Entry{}, false
}

// set upserts the entry of a student on date.
func (h History) set(studentID int64, date core.Date, present bool) {
	if i := h.index(studentID, date); i >= 0 {
		h[studentID][i].Present = present
		return
	}
	h[studentID] = append(h[studentID], Entry{Date: date, Present: present})
}

func (h History) remove(studentID int64, date core.Date) {
	i := h.index(studentID, date)
	if i < 0 {
		return
	}
	entries := h[studentID]
	h[studentID] = append(entries[:i:i], entries[i+1:]...)
}

// Normalize drops entries without a date and duplicated dates (keeping the first) and orders entries by date.
// It returns the number of dropped entries.
func (h History) Normalize() int {
	var dropped int
	for id, entries := range h {
		kept := make([]Entry, 0, len(entries))
		seen := make(map[core.Date]bool, len(entries))
		for _, e := range entries {
			if e.Date.IsZero() || seen[e.Date] {
				dropped++
				continue
			}
			seen[e.Date] = true
			kept = append(kept, e)
		}
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })
		h[id] = kept
	}
	return dropped
}

func (d Daily) clone() Daily {
	res := make(Daily, len(d))
	for id, present := range d {
		res[id] = present
	}
	return res
}

// Stats is the attendance of a student over a month.
// HasData is false when no day of the month was recorded, in which case Percentage is meaningless.
type Stats struct {
	StudentID   int64      `json:"studentId"`
	Month       core.Month `json:"month"`
	TotalDays   int        `json:"totalDays"`
	PresentDays int        `json:"presentDays"`
	Percentage  float64    `json:"percentage"`
	HasData     bool       `json:"hasData"`
}

// PercentageLabel renders Percentage with one decimal, or "—" without data.
func (s Stats) PercentageLabel() string {
	if !s.HasData {
		return "—"
	}
	return formatPercentage(s.Percentage) + "%"
}

// DayStatus is the state of one calendar day of a student.
type DayStatus string

const (
	DayPresent DayStatus = "present"
	DayAbsent  DayStatus = "absent"
	DayNone    DayStatus = "none"
)

type Day struct {
	Date   core.Date `json:"date"`
	Status DayStatus `json:"status"`
}

// SummaryRow is a student's line of the monthly attendance summary and report.
type SummaryRow struct {
	StudentID int64  `json:"studentId"`
	Name      string `json:"name"`
	Grade     string `json:"grade"`
	Batch     string `json:"batch,omitempty"`
	Stats     Stats  `json:"stats"`
}
