package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Editor kinds.
const (
	EditorMarkdown  = "markdown"
	EditorPlaintext = "plaintext"
)

// Rich-text write modes.
const (
	WriteOnChange = "change" // serialize and write after every mutation
	WriteOnSave   = "save"   // write only on an explicit save
)

// Rich-text load modes.
const (
	LoadAuto       = "auto"
	LoadPlain      = "plain"
	LoadStructured = "structured"
)

// EditorRule maps a file name pattern to an editor kind.
type EditorRule struct {
	Pattern string `yaml:"pattern"` // gobwas/glob pattern matched against the base name
	Editor  string `yaml:"editor"`  // markdown or plaintext
}

// Config is the application configuration.
type Config struct {
	Editor struct {
		MaxListDepth      int           `yaml:"max_list_depth"`       // Tab nesting limit for list items
		RichTextWriteMode string        `yaml:"rich_text_write_mode"` // change or save
		RichTextLoadMode  string        `yaml:"rich_text_load_mode"`  // auto, plain or structured
		ReadTimeout       time.Duration `yaml:"read_timeout"`         // 0 disables the timeout
	} `yaml:"editor"`
	Preview struct {
		Style    string `yaml:"style"`     // glamour standard style
		WordWrap int    `yaml:"word_wrap"` // preview wrap width when the pane is unknown
	} `yaml:"preview"`
	Editors []EditorRule `yaml:"editors"` // first match wins
	Log     struct {
		Debug bool   `yaml:"debug"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	matchers []glob.Glob
}

// New returns the default configuration.
func New() *Config {
	return defaultConfig()
}

// DefaultPath is ~/.config/scribble/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "scribble", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from path. A missing file yields the
// defaults.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.compile()
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to keep defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Editor.MaxListDepth != 0 {
		cfg.Editor.MaxListDepth = tempCfg.Editor.MaxListDepth
	}
	if tempCfg.Editor.RichTextWriteMode != "" {
		cfg.Editor.RichTextWriteMode = tempCfg.Editor.RichTextWriteMode
	}
	if tempCfg.Editor.RichTextLoadMode != "" {
		cfg.Editor.RichTextLoadMode = tempCfg.Editor.RichTextLoadMode
	}
	cfg.Editor.ReadTimeout = tempCfg.Editor.ReadTimeout

	if tempCfg.Preview.Style != "" {
		cfg.Preview.Style = tempCfg.Preview.Style
	}
	if tempCfg.Preview.WordWrap != 0 {
		cfg.Preview.WordWrap = tempCfg.Preview.WordWrap
	}
	if len(tempCfg.Editors) > 0 {
		cfg.Editors = tempCfg.Editors
	}
	cfg.Log.Debug = tempCfg.Log.Debug
	if tempCfg.Log.File != "" {
		cfg.Log.File = tempCfg.Log.File
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Editor.MaxListDepth = 4
	cfg.Editor.RichTextWriteMode = WriteOnChange
	cfg.Editor.RichTextLoadMode = LoadAuto
	cfg.Preview.Style = "dark" // fixed style avoids slow background detection
	cfg.Preview.WordWrap = 80
	cfg.Editors = []EditorRule{
		{Pattern: "*.{md,markdown}", Editor: EditorMarkdown},
		{Pattern: "*", Editor: EditorPlaintext},
	}
	return cfg
}

// Validate checks value ranges and compiles the editor patterns.
func (c *Config) Validate() error {
	if c.Editor.MaxListDepth < 1 || c.Editor.MaxListDepth > 8 {
		return fmt.Errorf("%w: max_list_depth must be between 1 and 8, got %d", ErrInvalidConfig, c.Editor.MaxListDepth)
	}
	switch c.Editor.RichTextWriteMode {
	case WriteOnChange, WriteOnSave:
	default:
		return fmt.Errorf("%w: unknown rich_text_write_mode %q", ErrInvalidConfig, c.Editor.RichTextWriteMode)
	}
	switch c.Editor.RichTextLoadMode {
	case LoadAuto, LoadPlain, LoadStructured:
	default:
		return fmt.Errorf("%w: unknown rich_text_load_mode %q", ErrInvalidConfig, c.Editor.RichTextLoadMode)
	}
	if c.Editor.ReadTimeout < 0 {
		return fmt.Errorf("%w: read_timeout must not be negative", ErrInvalidConfig)
	}
	if c.Preview.WordWrap < 20 {
		return fmt.Errorf("%w: word_wrap must be at least 20, got %d", ErrInvalidConfig, c.Preview.WordWrap)
	}
	for _, r := range c.Editors {
		if r.Editor != EditorMarkdown && r.Editor != EditorPlaintext {
			return fmt.Errorf("%w: unknown editor %q for pattern %q", ErrInvalidConfig, r.Editor, r.Pattern)
		}
	}
	return c.compile()
}

func (c *Config) compile() error {
	matchers := make([]glob.Glob, 0, len(c.Editors))
	for _, r := range c.Editors {
		g, err := glob.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("%w: bad pattern %q: %v", ErrInvalidConfig, r.Pattern, err)
		}
		matchers = append(matchers, g)
	}
	c.matchers = matchers
	return nil
}

// EditorFor returns the editor kind configured for a file name, and whether
// any rule matched.
func (c *Config) EditorFor(name string) (string, bool) {
	if len(c.matchers) != len(c.Editors) {
		if err := c.compile(); err != nil {
			return "", false
		}
	}
	base := filepath.Base(name)
	for i, g := range c.matchers {
		if g.Match(base) {
			return c.Editors[i].Editor, true
		}
	}
	return "", false
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}
