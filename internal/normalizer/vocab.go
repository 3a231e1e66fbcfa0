package normalizer

// ValueMap translates source enumerations into display strings. Values that
// are not in the map pass through unchanged.
type ValueMap map[string]string

// Apply maps value, returning it verbatim when it is not in the table.
func (m ValueMap) Apply(value string) string {
	if mapped, ok := m[value]; ok {
		return mapped
	}
	return value
}

// DefaultDifficulties maps the pretalx form choices to the host app's labels.
var DefaultDifficulties = ValueMap{
	"Beginner":     "入門",
	"Intermediate": "中階",
	"Advanced":     "進階",
}

// DefaultLanguages maps the pretalx form choices to the host app's labels.
var DefaultLanguages = ValueMap{
	"Chinese":  "漢語",
	"English":  "英語",
	"Japanese": "日本語",
}
