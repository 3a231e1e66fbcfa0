package classifier

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/coscup/sessiongen/internal/domain"
)

// Origin records where a session's tags came from.
type Origin string

const (
	OriginOverride Origin = "override"
	OriginKeywords Origin = "keywords"
	OriginDefault  Origin = "default"
)

// Overrides provides authoritative tags for already-known session codes.
type Overrides interface {
	Tags(code string) ([]domain.Tag, bool)
}

// Options tunes keyword classification.
type Options struct {
	// MaxTags caps keyword-derived tags; 0 means unbounded.
	MaxTags int
	// IncludeAbstract adds the abstract to the matched text.
	IncludeAbstract bool
}

type compiledRule struct {
	tag      domain.Tag
	keywords []keyword
}

// keyword is a folded rule keyword. A bounded keyword only matches where it
// is not joined to other Latin letters, so "go" matches "用go語言" and
// "go: generics" but not "google".
type keyword struct {
	text    string
	bounded bool
}

// compileKeywords folds keywords. A keyword padded with spaces in the rule
// table, like " go ", is trimmed and marked bounded.
func compileKeywords(raw []string) []keyword {
	out := make([]keyword, 0, len(raw))
	for _, kw := range raw {
		bounded := len(kw) > 1 && strings.HasPrefix(kw, " ") && strings.HasSuffix(kw, " ")
		if kw = fold(strings.TrimSpace(kw)); kw != "" {
			out = append(out, keyword{text: kw, bounded: bounded})
		}
	}
	return out
}

// Classifier assigns tags to sessions.
type Classifier struct {
	rules     []compiledRule
	fallback  []keyword
	overrides Overrides
	opts      Options
}

// New compiles rules against vocab. Every rule tag must be in the vocabulary.
// overrides may be nil.
func New(vocab *domain.Vocabulary, rules []Rule, overrides Overrides, opts Options) (*Classifier, error) {
	if vocab == nil {
		return nil, fmt.Errorf("classifier: vocabulary is required")
	}
	if opts.MaxTags < 0 {
		return nil, fmt.Errorf("classifier: max tags must not be negative, got %d", opts.MaxTags)
	}
	for _, tag := range []domain.Tag{domain.TagKeynote, domain.TagSystem} {
		if !vocab.Contains(tag) {
			return nil, fmt.Errorf("classifier: fallback tag %q missing from vocabulary", tag)
		}
	}
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		if !vocab.Contains(rule.Tag) {
			return nil, fmt.Errorf("classifier: rule tag %q: %w", rule.Tag, domain.ErrUnknownTag)
		}
		compiled = append(compiled, compiledRule{tag: rule.Tag, keywords: compileKeywords(rule.Keywords)})
	}
	return &Classifier{
		rules:     compiled,
		fallback:  compileKeywords(keynoteMarkers),
		overrides: overrides,
		opts:      opts,
	}, nil
}

// Classify returns the tags for a session, never empty.
func (c *Classifier) Classify(session domain.Session) ([]domain.Tag, Origin) {
	if c.overrides != nil {
		if known, ok := c.overrides.Tags(session.Code); ok && len(known) > 0 {
			return slices.Clone(known), OriginOverride
		}
	}
	return c.ClassifyText(c.text(session))
}

// ClassifyText runs the keyword rules over arbitrary text.
func (c *Classifier) ClassifyText(text string) ([]domain.Tag, Origin) {
	text = fold(text)
	var tags []domain.Tag
	for _, rule := range c.rules {
		if slices.Contains(tags, rule.tag) {
			continue
		}
		if matchesAny(text, rule.keywords) {
			tags = append(tags, rule.tag)
		}
	}
	if len(tags) == 0 {
		if matchesAny(text, c.fallback) {
			return []domain.Tag{domain.TagKeynote}, OriginDefault
		}
		return []domain.Tag{domain.TagSystem}, OriginDefault
	}
	if c.opts.MaxTags > 0 && len(tags) > c.opts.MaxTags {
		tags = tags[:c.opts.MaxTags]
	}
	return tags, OriginKeywords
}

// Assign returns a copy of session carrying its tags.
func (c *Classifier) Assign(session domain.Session) (domain.Session, Origin) {
	tags, origin := c.Classify(session)
	return session.WithTags(tags), origin
}

func (c *Classifier) text(session domain.Session) string {
	parts := []string{session.Track, session.Title}
	if c.opts.IncludeAbstract {
		parts = append(parts, session.Abstract)
	}
	return " " + strings.Join(parts, " ") + " "
}

func matchesAny(text string, keywords []keyword) bool {
	for _, kw := range keywords {
		if kw.bounded {
			if containsBounded(text, kw.text) {
				return true
			}
			continue
		}
		if strings.Contains(text, kw.text) {
			return true
		}
	}
	return false
}

// containsBounded reports whether kw occurs in text with no ASCII letter
// directly before or after it.
func containsBounded(text, kw string) bool {
	for offset := 0; offset <= len(text)-len(kw); {
		i := strings.Index(text[offset:], kw)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(kw)
		if (start == 0 || !isASCIILetter(text[start-1])) && (end == len(text) || !isASCIILetter(text[end])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isASCIILetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// fold lower-cases s for caseless matching.
func fold(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return cases.Fold().String(s)
}
