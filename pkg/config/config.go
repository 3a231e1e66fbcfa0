package config

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/gosimple/slug"
)

// Config is the complete sessiongen configuration.
type Config struct {
	Conference ConferenceConfig `koanf:"conference" validate:"required"`
	Pretalx    PretalxConfig    `koanf:"pretalx"    validate:"required"`
	Bundle     BundleConfig     `koanf:"bundle"     validate:"required"`
	Normalizer NormalizerConfig `koanf:"normalizer" validate:"required"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Overrides  OverridesConfig  `koanf:"overrides"`
	Output     OutputConfig     `koanf:"output"`
	Log        LogConfig        `koanf:"log"`
}

// ConferenceConfig identifies the event being processed.
type ConferenceConfig struct {
	Name           string `koanf:"name"             validate:"required"`
	Year           int    `koanf:"year"             validate:"min=2006,max=2100"`
	SessionURLBase string `koanf:"session_url_base" validate:"omitempty,url"`
}

// PretalxConfig configures the pretalx REST client.
type PretalxConfig struct {
	BaseURL    string        `koanf:"base_url"    validate:"required,url"`
	Event      string        `koanf:"event"       validate:"required"`
	State      string        `koanf:"state"`
	PageSize   int           `koanf:"page_size"   validate:"min=1,max=1000"`
	Timeout    time.Duration `koanf:"timeout"     validate:"min=0"`
	RetryCount uint64        `koanf:"retry_count" validate:"max=10"`
	RetryDelay time.Duration `koanf:"retry_delay" validate:"min=0"`
	UserAgent  string        `koanf:"user_agent"`
}

// BundleConfig configures the website JavaScript bundle source.
type BundleConfig struct {
	URL    string `koanf:"url"    validate:"required,url"`
	Locale string `koanf:"locale" validate:"required"`
}

// NormalizerConfig controls record normalization.
type NormalizerConfig struct {
	Timezone           string   `koanf:"timezone"            validate:"required"`
	AbstractLimit      int      `koanf:"abstract_limit"      validate:"min=1"`
	RoomLocales        []string `koanf:"room_locales"        validate:"min=1"`
	TrackLocales       []string `koanf:"track_locales"       validate:"min=1"`
	DefaultTrack       string   `koanf:"default_track"       validate:"required"`
	DifficultyQuestion string   `koanf:"difficulty_question"`
	LanguageQuestion   string   `koanf:"language_question"`
	DefaultDifficulty  string   `koanf:"default_difficulty"`
	DefaultLanguage    string   `koanf:"default_language"`
}

// ClassifierConfig controls keyword tagging.
type ClassifierConfig struct {
	// MaxTags caps keyword-derived tags; 0 keeps every matching tag.
	MaxTags         int  `koanf:"max_tags"         validate:"min=0"`
	IncludeAbstract bool `koanf:"include_abstract"`
}

// OverridesConfig lists the known-tag tables, as paths or doublestar globs.
type OverridesConfig struct {
	Paths []string `koanf:"paths"`
}

// OutputConfig controls the writers.
type OutputConfig struct {
	JSONPath  string `koanf:"json_path"`
	GoPath    string `koanf:"go_path"`
	GoPackage string `koanf:"go_package" validate:"required"`
	GoVar     string `koanf:"go_var"     validate:"required"`
}

// LogConfig mirrors the persistent logging flags.
type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=debug info warn error disabled"`
	JSON   bool   `koanf:"json"`
	Source bool   `koanf:"source"`
}

// Default returns the COSCUP 2025 configuration.
func Default() *Config {
	return &Config{
		Conference: ConferenceConfig{
			Name:           "COSCUP 2025",
			Year:           2025,
			SessionURLBase: "https://coscup.org/2025/sessions/",
		},
		Pretalx: PretalxConfig{
			BaseURL:    "https://pretalx.coscup.org",
			Event:      "coscup-2025",
			State:      "confirmed",
			PageSize:   50,
			Timeout:    30 * time.Second,
			RetryCount: 3,
			RetryDelay: 500 * time.Millisecond,
		},
		Bundle: BundleConfig{
			URL:    "https://coscup.org/2025/assets/chunks/allSubmissions.zh-tw.data.BUNdBk1a.js",
			Locale: "zh-tw",
		},
		Normalizer: NormalizerConfig{
			Timezone:           "Asia/Taipei",
			AbstractLimit:      200,
			RoomLocales:        []string{"en", "zh-tw"},
			TrackLocales:       []string{"zh-tw", "en"},
			DefaultTrack:       "General",
			DifficultyQuestion: "59",
			LanguageQuestion:   "57",
			DefaultDifficulty:  "入門",
			DefaultLanguage:    "漢語",
		},
		Classifier: ClassifierConfig{
			MaxTags:         0,
			IncludeAbstract: true,
		},
		Output: OutputConfig{
			GoPackage: "mcp",
			GoVar:     "COSCUPData",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultJSONPath derives the snapshot file name from the conference name,
// e.g. "coscup-2025_by_day_room.json".
func (c *Config) DefaultJSONPath() string {
	return slug.Make(c.Conference.Name) + "_by_day_room.json"
}

// Location resolves the normalizer timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Normalizer.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid normalizer timezone %q: %w", c.Normalizer.Timezone, err)
	}
	return loc, nil
}

// Service loads and validates configuration.
type Service interface {
	Load(ctx context.Context, sources ...Source) (*Config, error)
	Validate(config *Config) error
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	// Load reads configuration from the source.
	Load() (map[string]any, error)
	// Type returns the source type identifier.
	Type() SourceType
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}
