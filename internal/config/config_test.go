package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"arbmerge/internal/domain"
)

// chdir moves into a fresh directory so ./arbmerge.toml and .env lookups
// cannot see the developer's files.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"ARBMERGE_CONFIG", "ARBMERGE_ROOT", "ARBMERGE_SOURCE", "ARBMERGE_OUTPUT",
		"ARBMERGE_LOCALE", "ARBMERGE_UI_LANG", "ARBMERGE_COLLECT_DUPLICATES", "ARBMERGE_QUIET",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, filepath.Join("lib", "l10n", "intl_en.arb"), cfg.OutputPath())
}

func TestLoadTOMLFile(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	toml := strings.TrimSpace(`
root = "app"
source_pattern = "features/**/intl_en.arb"
output = "l10n/app_en.arb"
locale = "pt_BR"
ui_lang = "fr"
collect_duplicates = true
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(toml), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "app"), 0o755))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.Root)
	assert.Equal(t, "features/**/intl_en.arb", cfg.SourcePattern)
	assert.Equal(t, "pt_BR", cfg.Locale)
	assert.Equal(t, "fr", cfg.UILang)
	assert.True(t, cfg.CollectDuplicates)
	assert.False(t, cfg.Quiet)
	assert.Equal(t, filepath.Join("app", "l10n", "app_en.arb"), cfg.OutputPath())
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	chdir(t)
	clearEnv(t)

	_, err := Load("missing.toml")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`sources = "x"`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("locale = \"de\"\noutput = \"file.arb\"\nquiet = false\n"), 0o644))
	t.Setenv("ARBMERGE_CONFIG", path)
	t.Setenv("ARBMERGE_LOCALE", "fr")
	t.Setenv("ARBMERGE_QUIET", "true")

	cfg, err := Load("", func(c *Config) { c.Output = "flag.arb" })
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Locale, "env beats file")
	assert.Equal(t, "flag.arb", cfg.Output, "option beats file")
	assert.True(t, cfg.Quiet)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ARBMERGE_LOCALE=es\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ARBMERGE_LOCALE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.Locale)
}

func TestLoadInvalidBoolEnv(t *testing.T) {
	chdir(t)
	clearEnv(t)
	t.Setenv("ARBMERGE_COLLECT_DUPLICATES", "maybe")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty pattern", mutate: func(c *Config) { c.SourcePattern = " " }},
		{name: "absolute pattern", mutate: func(c *Config) { c.SourcePattern = "/lib/**/intl_en.arb" }},
		{name: "bad glob", mutate: func(c *Config) { c.SourcePattern = "lib/[modules/intl_en.arb" }},
		{name: "empty output", mutate: func(c *Config) { c.Output = "" }},
		{name: "empty locale", mutate: func(c *Config) { c.Locale = "" }},
		{name: "bad locale", mutate: func(c *Config) { c.Locale = "not a locale" }},
		{name: "bad ui lang", mutate: func(c *Config) { c.UILang = "not a tag" }},
		{name: "unsupported ui lang", mutate: func(c *Config) {
			c.uiLanguages = []language.Tag{language.English, language.French}
			c.UILang = "de"
		}},
		{name: "missing root", mutate: func(c *Config) { c.Root = filepath.Join(os.TempDir(), "arbmerge-missing", "typo") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestValidationRootMustBeDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pubspec.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: app\n"), 0o644))

	cfg := Default()
	cfg.Root = file
	assert.ErrorContains(t, cfg.validate(), "not a directory")
}

func TestLoadMissingRootLeavesNoTrace(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	root := filepath.Join(dir, "typo")

	_, err := Load("", func(c *Config) { c.Root = root })
	require.Error(t, err)
	assert.NoDirExists(t, root)
}

func TestLoadUILanguages(t *testing.T) {
	chdir(t)
	clearEnv(t)
	supported := UILanguages(language.English, language.French)

	cfg, err := Load("", supported, func(c *Config) { c.UILang = "fr" })
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.UILang)

	_, err = Load("", supported, func(c *Config) { c.UILang = "de" })
	assert.ErrorContains(t, err, "available: en, fr")
}

func TestValidationDefaultsRoot(t *testing.T) {
	cfg := Default()
	cfg.Root = ""
	require.NoError(t, cfg.validate())
	assert.Equal(t, ".", cfg.Root)
}

func TestParseLocale(t *testing.T) {
	for _, locale := range []string{"en", "fr", "pt_BR", "zh-Hant", "en_US"} {
		_, err := ParseLocale(locale)
		assert.NoError(t, err, locale)
	}

	_, err := ParseLocale("en US")
	assert.ErrorIs(t, err, domain.ErrInvalidLocale)
}
