package domain

import (
	"slices"
	"strconv"
	"strings"
)

// Session is the canonical, normalized form of a scheduled talk.
type Session struct {
	Code       string   `json:"code"`
	Title      string   `json:"title"`
	Speakers   []string `json:"speakers"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Track      string   `json:"track"`
	Abstract   string   `json:"abstract"`
	Language   string   `json:"language"`
	Difficulty string   `json:"difficulty"`
	Room       string   `json:"room"`
	Day        string   `json:"day"`
	URL        string   `json:"url"`
	Tags       []Tag    `json:"tags"`
}

// WithTags returns a copy of s carrying tags.
func (s Session) WithTags(tags []Tag) Session {
	out := s.clone()
	out.Tags = slices.Clone(tags)
	return out
}

func (s Session) clone() Session {
	out := s
	out.Speakers = slices.Clone(s.Speakers)
	out.Tags = slices.Clone(s.Tags)
	return out
}

// HasTag reports whether the session carries tag.
func (s Session) HasTag(tag Tag) bool {
	return slices.Contains(s.Tags, tag)
}

// TimeOrderValid reports whether Start <= End. Unparseable pairs are invalid.
func (s Session) TimeOrderValid() bool {
	start, ok1 := ClockMinutes(s.Start)
	end, ok2 := ClockMinutes(s.End)
	return ok1 && ok2 && start <= end
}

// ClockMinutes converts "HH:MM" to minutes since midnight.
func ClockMinutes(clock string) (int, bool) {
	hh, mm, found := strings.Cut(clock, ":")
	if !found {
		return 0, false
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// SessionURL derives the public session page from its code.
func SessionURL(base, code string) string {
	if base == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/" + code
}
