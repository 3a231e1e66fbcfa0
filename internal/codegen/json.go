// Package codegen serializes a schedule as a JSON document or as Go source
// literals for embedding into a host application.
package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/coscup/sessiongen/internal/domain"
)

var prettyOptions = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: true,
}

// Document is the JSON snapshot layout.
type Document struct {
	Conference    string          `json:"conference"`
	TotalSessions int             `json:"total_sessions"`
	Structure     domain.Schedule `json:"structure"`
}

// NewDocument wraps a schedule for serialization.
func NewDocument(conference string, schedule domain.Schedule) Document {
	return Document{
		Conference:    conference,
		TotalSessions: schedule.Count(),
		Structure:     schedule,
	}
}

// wireDocument is Document with tags spelled as vocabulary labels.
type wireDocument struct {
	Conference    string     `json:"conference"`
	TotalSessions int        `json:"total_sessions"`
	Structure     wireLayout `json:"structure"`
}

type wireLayout map[string]map[string][]wireSession

// wireSession shadows Session.Tags with the label form.
type wireSession struct {
	domain.Session
	Tags []string `json:"tags"`
}

func vocabularyOrDefault(vocab *domain.Vocabulary) *domain.Vocabulary {
	if vocab == nil {
		return domain.DefaultVocabulary
	}
	return vocab
}

func toWire(schedule domain.Schedule, vocab *domain.Vocabulary) wireLayout {
	out := make(wireLayout, len(schedule))
	for day, rooms := range schedule {
		out[day] = make(map[string][]wireSession, len(rooms))
		for room, sessions := range rooms {
			ws := make([]wireSession, len(sessions))
			for i, s := range sessions {
				ws[i] = wireSession{Session: s}
				if s.Tags != nil {
					ws[i].Tags = make([]string, len(s.Tags))
					for j, tag := range s.Tags {
						ws[i].Tags[j] = vocab.Label(tag)
					}
				}
			}
			out[day][room] = ws
		}
	}
	return out
}

func fromWire(layout wireLayout, vocab *domain.Vocabulary) (domain.Schedule, error) {
	out := make(domain.Schedule, len(layout))
	for day, rooms := range layout {
		out[day] = make(map[string][]domain.Session, len(rooms))
		for room, sessions := range rooms {
			list := make([]domain.Session, len(sessions))
			for i, ws := range sessions {
				s := ws.Session
				s.Tags = nil
				if ws.Tags != nil {
					tags, err := vocab.Resolve(ws.Tags)
					if err != nil {
						return nil, fmt.Errorf("session %s: %w", s.Code, err)
					}
					s.Tags = tags
				}
				list[i] = s
			}
			out[day][room] = list
		}
	}
	return out, nil
}

// EncodeJSON renders doc with sorted keys and two-space indentation, tags
// written as vocab labels. A nil vocab means domain.DefaultVocabulary. The
// output is a pure function of the document, so decoding and re-encoding it
// yields the same bytes.
func EncodeJSON(doc Document, vocab *domain.Vocabulary) ([]byte, error) {
	vocab = vocabularyOrDefault(vocab)
	wire := wireDocument{
		Conference:    doc.Conference,
		TotalSessions: doc.TotalSessions,
		Structure:     toWire(doc.Structure, vocab),
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wire); err != nil {
		return nil, fmt.Errorf("failed to encode schedule: %w", err)
	}
	out := pretty.PrettyOptions(buf.Bytes(), prettyOptions)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// WriteJSON encodes doc to w.
func WriteJSON(w io.Writer, doc Document, vocab *domain.Vocabulary) error {
	out, err := EncodeJSON(doc, vocab)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// DecodeJSON reads a snapshot, resolving tags through vocab (labels,
// identifiers or constant names). A bare day -> room -> sessions object is
// accepted as well.
func DecodeJSON(data []byte, vocab *domain.Vocabulary) (Document, error) {
	vocab = vocabularyOrDefault(vocab)
	if !gjson.ValidBytes(data) {
		return Document{}, fmt.Errorf("snapshot is not valid JSON")
	}
	var wire wireDocument
	if gjson.GetBytes(data, "structure").Exists() {
		if err := json.Unmarshal(data, &wire); err != nil {
			return Document{}, fmt.Errorf("failed to decode snapshot: %w", err)
		}
	} else if err := json.Unmarshal(data, &wire.Structure); err != nil {
		return Document{}, fmt.Errorf("failed to decode schedule: %w", err)
	}
	structure, err := fromWire(wire.Structure, vocab)
	if err != nil {
		return Document{}, fmt.Errorf("failed to decode schedule: %w", err)
	}
	return Document{
		Conference:    wire.Conference,
		TotalSessions: structure.Count(),
		Structure:     structure,
	}, nil
}

// ReadJSON decodes a snapshot from r.
func ReadJSON(r io.Reader, vocab *domain.Vocabulary) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return DecodeJSON(data, vocab)
}
