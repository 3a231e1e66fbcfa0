package domain

import (
	"fmt"
	"strings"
)

// Tag is the stable identifier of a topical category, e.g. "AI".
type Tag string

const (
	TagAI          Tag = "AI"
	TagLanguages   Tag = "Languages"
	TagWeb3        Tag = "Web3"
	TagDatabase    Tag = "Database"
	TagSecurity    Tag = "Security"
	TagHardware    Tag = "Hardware"
	TagVehicle     Tag = "Vehicle"
	TagNetwork     Tag = "Network"
	TagDevOps      Tag = "DevOps"
	TagSystem      Tag = "System"
	TagEnterprise  Tag = "Enterprise"
	TagData        Tag = "Data"
	TagGaming      Tag = "Gaming"
	TagAgriculture Tag = "Agriculture"
	TagHealthcare  Tag = "Healthcare"
	TagKeynote     Tag = "Keynote"
	TagPolicy      Tag = "Policy"
	TagGlobal      Tag = "Global"
	TagOpenData    Tag = "OpenData"
	TagEducation   Tag = "Education"
	TagSocial      Tag = "Social"
	TagSideProject Tag = "SideProject"
)

// TagEntry ties a tag identifier to its display label and the constant name
// used in generated Go sources.
type TagEntry struct {
	Tag       Tag
	Label     string
	ConstName string
}

// Vocabulary is the single bidirectional table between tag identifiers,
// display labels and generated constant names.
type Vocabulary struct {
	entries []TagEntry
	byKey   map[string]int
}

// NewVocabulary builds a vocabulary. Identifiers, labels and constant names
// must all be unique.
func NewVocabulary(entries ...TagEntry) (*Vocabulary, error) {
	v := &Vocabulary{
		entries: make([]TagEntry, 0, len(entries)),
		byKey:   make(map[string]int, len(entries)*3),
	}
	for _, e := range entries {
		if e.Tag == "" || e.Label == "" {
			return nil, fmt.Errorf("tag entry %q: identifier and label are required", e.Tag)
		}
		if e.ConstName == "" {
			e.ConstName = "Tag" + string(e.Tag)
		}
		idx := len(v.entries)
		for _, key := range []string{string(e.Tag), e.Label, e.ConstName} {
			if prev, ok := v.byKey[key]; ok && prev != idx {
				return nil, fmt.Errorf("tag entry %q: key %q already used by %q", e.Tag, key, v.entries[prev].Tag)
			}
			v.byKey[key] = idx
		}
		v.entries = append(v.entries, e)
	}
	return v, nil
}

// DefaultVocabulary is the COSCUP tag table. Label strings keep the exact
// code points the host application compares against.
var DefaultVocabulary = mustVocabulary(
	TagEntry{Tag: TagAI, Label: "🧠 AI"},
	TagEntry{Tag: TagLanguages, Label: "🗣️ Languages"},
	TagEntry{Tag: TagWeb3, Label: "⛓️ Web3"},
	TagEntry{Tag: TagDatabase, Label: "🗃️ Database"},
	TagEntry{Tag: TagSecurity, Label: "🔒 Security"},
	TagEntry{Tag: TagHardware, Label: "🛠️ Hardware"},
	TagEntry{Tag: TagVehicle, Label: "🚗 Vehicle"},
	TagEntry{Tag: TagNetwork, Label: "🌐 Network"},
	TagEntry{Tag: TagDevOps, Label: "🚀️ DevOps"},
	TagEntry{Tag: TagSystem, Label: "💻 System"},
	TagEntry{Tag: TagEnterprise, Label: "🏢 Enterprise"},
	TagEntry{Tag: TagData, Label: "📊 Data"},
	TagEntry{Tag: TagGaming, Label: "🎮 Gaming"},
	TagEntry{Tag: TagAgriculture, Label: "🌾 Agriculture"},
	TagEntry{Tag: TagHealthcare, Label: "⚕️ Healthcare"},
	TagEntry{Tag: TagKeynote, Label: "🔑 Keynote"},
	TagEntry{Tag: TagPolicy, Label: "📜️ Policy"},
	TagEntry{Tag: TagGlobal, Label: "🌍 Global"},
	TagEntry{Tag: TagOpenData, Label: "👐️ OpenData"},
	TagEntry{Tag: TagEducation, Label: "🎓 Education"},
	TagEntry{Tag: TagSocial, Label: "🍻 Social"},
	TagEntry{Tag: TagSideProject, Label: "💡 SideProject"},
)

func mustVocabulary(entries ...TagEntry) *Vocabulary {
	v, err := NewVocabulary(entries...)
	if err != nil {
		panic(err)
	}
	return v
}

// Lookup resolves an identifier, display label or constant name.
func (v *Vocabulary) Lookup(s string) (Tag, bool) {
	idx, ok := v.byKey[strings.TrimSpace(s)]
	if !ok {
		return "", false
	}
	return v.entries[idx].Tag, true
}

// Entry returns the full entry for a tag.
func (v *Vocabulary) Entry(tag Tag) (TagEntry, bool) {
	idx, ok := v.byKey[string(tag)]
	if !ok || v.entries[idx].Tag != tag {
		return TagEntry{}, false
	}
	return v.entries[idx], true
}

// Label returns the display label, or the identifier itself when the tag is
// not part of the vocabulary.
func (v *Vocabulary) Label(tag Tag) string {
	if e, ok := v.Entry(tag); ok {
		return e.Label
	}
	return string(tag)
}

// ConstName returns the Go constant name of a tag.
func (v *Vocabulary) ConstName(tag Tag) (string, bool) {
	e, ok := v.Entry(tag)
	return e.ConstName, ok
}

// Contains reports whether tag is a known identifier.
func (v *Vocabulary) Contains(tag Tag) bool {
	_, ok := v.Entry(tag)
	return ok
}

// Entries returns the entries in declaration order.
func (v *Vocabulary) Entries() []TagEntry {
	out := make([]TagEntry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Resolve maps each string through Lookup and fails on the first unknown one.
func (v *Vocabulary) Resolve(values []string) ([]Tag, error) {
	tags := make([]Tag, 0, len(values))
	for _, s := range values {
		tag, ok := v.Lookup(s)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTag, s)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// MarshalText encodes the tag as its display label.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(DefaultVocabulary.Label(t)), nil
}

// UnmarshalText accepts a label, identifier or constant name.
func (t *Tag) UnmarshalText(text []byte) error {
	tag, ok := DefaultVocabulary.Lookup(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTag, string(text))
	}
	*t = tag
	return nil
}

func (t Tag) String() string {
	return string(t)
}
