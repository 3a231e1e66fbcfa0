package logger

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

func getDefaultStyles(out io.Writer) *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	if !isTerminal(out) {
		plain := charmlog.DefaultStyles()
		for level, style := range plain.Levels {
			plain.Levels[level] = style.UnsetForeground().UnsetBold()
		}
		return plain
	}
	levels := map[charmlog.Level]string{
		charmlog.DebugLevel: "63",
		charmlog.InfoLevel:  "86",
		charmlog.WarnLevel:  "192",
		charmlog.ErrorLevel: "204",
	}
	for level, color := range levels {
		styles.Levels[level] = lipgloss.NewStyle().
			SetString(strings.ToUpper(level.String())).
			Bold(true).
			MaxWidth(5).
			Foreground(lipgloss.Color(color))
	}
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	styles.Values["err"] = lipgloss.NewStyle().Bold(true)
	return styles
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
