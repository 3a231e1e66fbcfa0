package usecase

import (
	"context"
	"fmt"

	"github.com/coscup/sessiongen/internal/domain"
)

// VerifyOptions selects what to check. An empty Day means the first day of
// the schedule.
type VerifyOptions struct {
	Day  string
	Room string
	Code string
}

// RoomListing is one room's sessions in start order.
type RoomListing struct {
	Room     string
	Sessions []domain.Session
}

// Report is the outcome of VerifyUseCase.
type Report struct {
	Day      string
	Rooms    []RoomListing
	Sessions int
	Key      *domain.Session
	// Problems lists ordering or time-range violations found in the day.
	Problems []string
}

// OK reports whether verification found no problems.
func (r Report) OK() bool {
	return len(r.Problems) == 0
}

// VerifyUseCase lists a day per room and checks the schedule invariants.
type VerifyUseCase struct{}

func (uc *VerifyUseCase) Execute(_ context.Context, schedule domain.Schedule, opts VerifyOptions) (Report, error) {
	day := opts.Day
	if day == "" {
		days := schedule.Days()
		if len(days) == 0 {
			return Report{}, fmt.Errorf("schedule is empty")
		}
		day = days[0]
	}
	if _, ok := schedule[day]; !ok {
		return Report{}, fmt.Errorf("day %q not in schedule (have %v)", day, schedule.Days())
	}
	report := Report{Day: day}
	for _, room := range schedule.Rooms(day) {
		if opts.Room != "" && room != opts.Room {
			continue
		}
		sessions := schedule[day][room]
		report.Rooms = append(report.Rooms, RoomListing{Room: room, Sessions: sessions})
		report.Sessions += len(sessions)
		for i, s := range sessions {
			if !s.TimeOrderValid() {
				report.Problems = append(report.Problems,
					fmt.Sprintf("%s %s: end %s before start %s", room, s.Code, s.End, s.Start))
			}
			if i > 0 && domain.CompareStart(sessions[i-1], s) > 0 {
				report.Problems = append(report.Problems,
					fmt.Sprintf("%s %s: starts before preceding %s", room, s.Code, sessions[i-1].Code))
			}
		}
	}
	if opts.Code != "" {
		key, err := schedule.Lookup(opts.Code)
		if err != nil {
			return report, fmt.Errorf("key session %s: %w", opts.Code, err)
		}
		report.Key = &key
	}
	return report, nil
}
