package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coscup/sessiongen/internal/aggregator"
	"github.com/coscup/sessiongen/internal/domain"
	"github.com/coscup/sessiongen/internal/usecase"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	problemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// renderSummary prints the outcome of a pipeline run.
func renderSummary(w io.Writer, schedule domain.Schedule, stats *aggregator.RunStats) {
	fmt.Fprintln(w, headingStyle.Render("Schedule"))
	fmt.Fprintf(w, "  submissions: %d\n", stats.Submissions)
	fmt.Fprintf(w, "  sessions:    %d across %d days\n", stats.Emitted, len(schedule))
	for _, day := range schedule.Days() {
		fmt.Fprintf(w, "    %-8s %d rooms\n", day, len(schedule[day]))
	}
	fmt.Fprintf(w, "  tags:        %d override, %d keyword, %d default\n",
		stats.OverrideTagged, stats.KeywordTagged, stats.DefaultTagged)
	if skipped := stats.Skipped(); skipped > 0 {
		parts := make([]string, 0, len(stats.Skips))
		for _, reason := range stats.SkipReasons() {
			parts = append(parts, fmt.Sprintf("%s=%d", reason, stats.Skips[reason]))
		}
		fmt.Fprintf(w, "  skipped:     %d (%s)\n", skipped, strings.Join(parts, ", "))
	}
	if n := len(stats.Warnings); n > 0 {
		fmt.Fprintln(w, problemStyle.Render(fmt.Sprintf("  warnings:    %d", n)))
	}
}

// renderListing prints sessions one per line in start order.
func renderListing(w io.Writer, day, room string, sessions []domain.Session) {
	title := day
	if room != "" {
		title += " / " + room
	}
	fmt.Fprintln(w, headingStyle.Render(title))
	if len(sessions) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  no sessions"))
		return
	}
	for _, s := range sessions {
		renderSession(w, s)
	}
}

func renderSession(w io.Writer, s domain.Session) {
	fmt.Fprintf(w, "  %s-%s  %s  %s\n", s.Start, s.End, s.Code, s.Title)
	meta := []string{s.Room, s.Track}
	if len(s.Speakers) > 0 {
		meta = append(meta, strings.Join(s.Speakers, ", "))
	}
	if len(s.Tags) > 0 {
		tags := make([]string, len(s.Tags))
		for i, tag := range s.Tags {
			tags[i] = tag.String()
		}
		meta = append(meta, "["+strings.Join(tags, " ")+"]")
	}
	fmt.Fprintln(w, mutedStyle.Render("      "+strings.Join(meta, " | ")))
}

// renderReport prints a verification report grouped by room.
func renderReport(w io.Writer, report usecase.Report) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s: %d sessions in %d rooms",
		report.Day, report.Sessions, len(report.Rooms))))
	for _, room := range report.Rooms {
		fmt.Fprintf(w, "%s (%d)\n", room.Room, len(room.Sessions))
		for _, s := range room.Sessions {
			renderSession(w, s)
		}
	}
	if report.Key != nil {
		fmt.Fprintln(w, headingStyle.Render("Session "+report.Key.Code))
		renderSession(w, *report.Key)
		fmt.Fprintf(w, "      %s\n", report.Key.URL)
	}
	for _, p := range report.Problems {
		fmt.Fprintln(w, problemStyle.Render("problem: "+p))
	}
}
