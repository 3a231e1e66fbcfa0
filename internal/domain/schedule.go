package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// DayLayout formats a calendar date as a day key, e.g. "Aug.9".
const DayLayout = "Jan.2"

// Schedule maps day -> room -> sessions ordered by start time.
type Schedule map[string]map[string][]Session

// Days returns the day keys in calendar order. Keys that do not parse as
// DayLayout sort after the parseable ones, lexically.
func (s Schedule) Days() []string {
	days := make([]string, 0, len(s))
	for day := range s {
		days = append(days, day)
	}
	slices.SortFunc(days, CompareDays)
	return days
}

// CompareDays orders day keys chronologically within a year.
func CompareDays(a, b string) int {
	ta, errA := time.Parse(DayLayout, a)
	tb, errB := time.Parse(DayLayout, b)
	switch {
	case errA == nil && errB == nil:
		if c := ta.Compare(tb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// Rooms returns the room keys of a day in lexical order.
func (s Schedule) Rooms(day string) []string {
	rooms := make([]string, 0, len(s[day]))
	for room := range s[day] {
		rooms = append(rooms, room)
	}
	slices.Sort(rooms)
	return rooms
}

// Sessions flattens the schedule in day, room, start order.
func (s Schedule) Sessions() []Session {
	out := make([]Session, 0, s.Count())
	for _, day := range s.Days() {
		for _, room := range s.Rooms(day) {
			out = append(out, s[day][room]...)
		}
	}
	return out
}

// Count returns the number of sessions across all days and rooms.
func (s Schedule) Count() int {
	n := 0
	for _, rooms := range s {
		for _, sessions := range rooms {
			n += len(sessions)
		}
	}
	return n
}

// Find returns the sessions of a day whose room name contains roomFilter,
// ordered by start time. An empty filter matches every room.
func (s Schedule) Find(day, roomFilter string) []Session {
	var out []Session
	for _, room := range s.Rooms(day) {
		if roomFilter != "" && !strings.Contains(room, roomFilter) {
			continue
		}
		out = append(out, s[day][room]...)
	}
	slices.SortStableFunc(out, CompareStart)
	return out
}

// Lookup returns the session with the given code.
func (s Schedule) Lookup(code string) (Session, error) {
	for _, session := range s.Sessions() {
		if session.Code == code {
			return session.clone(), nil
		}
	}
	return Session{}, ErrSessionNotFound
}

// CompareStart orders sessions by start time. Clock values compare by
// minutes; anything else falls back to string order.
func CompareStart(a, b Session) int {
	ma, okA := ClockMinutes(a.Start)
	mb, okB := ClockMinutes(b.Start)
	if okA && okB {
		return cmp.Compare(ma, mb)
	}
	return strings.Compare(a.Start, b.Start)
}
