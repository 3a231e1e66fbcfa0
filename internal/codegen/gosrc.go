package codegen

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/format"
	"io"
	"strconv"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/coscup/sessiongen/internal/domain"
)

//go:embed templates/data.go.tmpl
var dataTemplate string

var goTemplate = template.Must(
	template.New("data.go").
		Funcs(sprig.TxtFuncMap()).
		Funcs(template.FuncMap{"goString": strconv.Quote}).
		Parse(dataTemplate),
)

// GoOptions controls Go source generation.
type GoOptions struct {
	Package    string
	Var        string
	Conference string
	Vocabulary *domain.Vocabulary
	// Now stamps a generated-at line when set.
	Now func() time.Time
}

type goFile struct {
	Package     string
	Var         string
	Conference  string
	GeneratedAt string
	Tags        []domain.TagEntry
	Days        []goDay
}

type goDay struct {
	Name  string
	Rooms []goRoom
}

type goRoom struct {
	Name     string
	Sessions []goSession
}

// goSession carries pre-rendered list literals: quoted speakers and tag
// constant names.
type goSession struct {
	domain.Session
	Speakers []string
	Tags     []string
}

// EncodeGo renders the schedule as a gofmt-formatted Go source file.
func EncodeGo(schedule domain.Schedule, opts GoOptions) ([]byte, error) {
	vocab := opts.Vocabulary
	if vocab == nil {
		vocab = domain.DefaultVocabulary
	}
	file := goFile{
		Package:    opts.Package,
		Var:        opts.Var,
		Conference: opts.Conference,
		Tags:       vocab.Entries(),
	}
	if opts.Now != nil {
		file.GeneratedAt = opts.Now().UTC().Format(time.RFC3339)
	}
	for _, day := range schedule.Days() {
		d := goDay{Name: day}
		for _, room := range schedule.Rooms(day) {
			r := goRoom{Name: room}
			for _, s := range schedule[day][room] {
				r.Sessions = append(r.Sessions, goSessionOf(s, vocab))
			}
			d.Rooms = append(d.Rooms, r)
		}
		file.Days = append(file.Days, d)
	}

	var buf bytes.Buffer
	if err := goTemplate.Execute(&buf, file); err != nil {
		return nil, fmt.Errorf("failed to render Go source: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated Go source does not parse: %w", err)
	}
	return out, nil
}

// WriteGo renders the schedule to w.
func WriteGo(w io.Writer, schedule domain.Schedule, opts GoOptions) error {
	out, err := EncodeGo(schedule, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func goSessionOf(s domain.Session, vocab *domain.Vocabulary) goSession {
	out := goSession{Session: s}
	for _, name := range s.Speakers {
		out.Speakers = append(out.Speakers, strconv.Quote(name))
	}
	for _, tag := range s.Tags {
		if name, ok := vocab.ConstName(tag); ok {
			out.Tags = append(out.Tags, name)
			continue
		}
		out.Tags = append(out.Tags, strconv.Quote(vocab.Label(tag)))
	}
	return out
}
