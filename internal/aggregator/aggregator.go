// Package aggregator groups normalized sessions into a day/room schedule and
// keeps the per-run statistics.
package aggregator

import (
	"slices"

	"github.com/coscup/sessiongen/internal/domain"
)

// Build groups sessions by day then room and orders every room by start
// time. The sort is stable, so sessions starting together keep their input
// order. The result is always a fresh value; sessions are copied.
func Build(sessions []domain.Session) domain.Schedule {
	schedule := make(domain.Schedule)
	for _, s := range sessions {
		rooms, ok := schedule[s.Day]
		if !ok {
			rooms = make(map[string][]domain.Session)
			schedule[s.Day] = rooms
		}
		rooms[s.Room] = append(rooms[s.Room], s.WithTags(s.Tags))
	}
	for _, rooms := range schedule {
		for room, list := range rooms {
			slices.SortStableFunc(list, domain.CompareStart)
			rooms[room] = list
		}
	}
	return schedule
}
