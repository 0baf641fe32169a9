package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"arbmerge/internal/domain"
)

// DefaultFile is read from the working directory when present.
const DefaultFile = "arbmerge.toml"

type Config struct {
	Root              string `toml:"root"`
	SourcePattern     string `toml:"source_pattern"`
	Output            string `toml:"output"`
	Locale            string `toml:"locale"`
	UILang            string `toml:"ui_lang"`
	CollectDuplicates bool   `toml:"collect_duplicates"`
	Quiet             bool   `toml:"quiet"`

	// languages the console messages exist in; any valid tag when empty
	uiLanguages []language.Tag
}

// Option adjusts a loaded configuration before validation, e.g. to apply
// command-line flags.
type Option func(*Config)

// UILanguages restricts ui_lang to the given tags, typically the languages
// of the embedded message catalog.
func UILanguages(tags ...language.Tag) Option {
	return func(c *Config) {
		c.uiLanguages = tags
	}
}

// Default returns the layout of a Flutter project with one intl_en.arb per
// feature module.
func Default() *Config {
	return &Config{
		Root:          ".",
		SourcePattern: "lib/modules/**/intl_en.arb",
		Output:        "lib/l10n/intl_en.arb",
		Locale:        "en",
		UILang:        "en",
	}
}

// Load builds the configuration from, in increasing precedence: defaults,
// the TOML file at path (or $ARBMERGE_CONFIG, or ./arbmerge.toml), the
// environment (optionally seeded from .env), then opts. The result is
// validated.
func Load(path string, opts ...Option) (*Config, error) {
	// .env is optional, CI usually provides the variables directly
	_ = godotenv.Load()

	cfg := Default()

	explicit := true
	if path == "" {
		path = os.Getenv("ARBMERGE_CONFIG")
	}
	if path == "" {
		path, explicit = DefaultFile, false
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	strs := map[string]*string{
		"ARBMERGE_ROOT":    &c.Root,
		"ARBMERGE_SOURCE":  &c.SourcePattern,
		"ARBMERGE_OUTPUT":  &c.Output,
		"ARBMERGE_LOCALE":  &c.Locale,
		"ARBMERGE_UI_LANG": &c.UILang,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"ARBMERGE_COLLECT_DUPLICATES": &c.CollectDuplicates,
		"ARBMERGE_QUIET":              &c.Quiet,
	}
	for name, dst := range bools {
		v, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s is invalid (%q): %w", name, v, err)
		}
		*dst = b
	}
	return nil
}

// validate checks the merged configuration before anything touches disk.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Root) == "" {
		c.Root = "."
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("config: root %q: %w", c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("config: root %q is not a directory", c.Root)
	}

	if strings.TrimSpace(c.SourcePattern) == "" {
		return fmt.Errorf("config: source_pattern is required")
	}
	if strings.HasPrefix(c.SourcePattern, "/") || filepath.IsAbs(c.SourcePattern) {
		return fmt.Errorf("config: source_pattern %q must be relative to root", c.SourcePattern)
	}
	if !doublestar.ValidatePattern(c.SourcePattern) {
		return fmt.Errorf("config: source_pattern %q is not a valid glob", c.SourcePattern)
	}

	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("config: output is required")
	}

	if _, err := ParseLocale(c.Locale); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return c.validateUILang()
}

func (c *Config) validateUILang() error {
	tag, err := language.Parse(c.UILang)
	if err != nil {
		return fmt.Errorf("config: ui_lang %q: %w", c.UILang, err)
	}
	if len(c.uiLanguages) == 0 {
		return nil
	}
	available := make([]string, 0, len(c.uiLanguages))
	for _, t := range c.uiLanguages {
		if t.String() == tag.String() {
			return nil
		}
		available = append(available, t.String())
	}
	slices.Sort(available)
	return fmt.Errorf("config: ui_lang %q is not supported (available: %s)", c.UILang, strings.Join(available, ", "))
}

// ParseLocale validates an ARB locale such as "en" or "pt_BR" as a BCP 47
// tag. The raw string is what ends up in the catalog.
func ParseLocale(locale string) (language.Tag, error) {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return language.Und, fmt.Errorf("%w: locale is required", domain.ErrInvalidLocale)
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%w %q: %v", domain.ErrInvalidLocale, locale, err)
	}
	return tag, nil
}

// OutputPath resolves Output against Root unless it is absolute.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(c.Root, c.Output)
}
