package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"cloudeng.io/logging/ctxlog"

	"datepick/internal/dateformat"
	"datepick/internal/model"
	"datepick/internal/picker"
)

// Config is config.json in the store directory. Zero fields fall back to the
// built-in defaults.
type Config struct {
	Pattern     string     `json:"pattern,omitempty"`
	Locale      string     `json:"locale,omitempty"`
	WeeksToShow int        `json:"weeksToShow,omitempty"`
	TUI         *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Profile is the appearance profile id ("default", "mono").
	Profile string `json:"profile,omitempty"`
}

// ConfigKeys are the keys accepted by Config.Set.
var ConfigKeys = []string{"pattern", "locale", "weeksToShow", "tui.profile"}

func (c Config) PatternOrDefault() string {
	if strings.TrimSpace(c.Pattern) == "" {
		return dateformat.DefaultPattern
	}
	return c.Pattern
}

func (c Config) Names() model.Names { return model.NamesFor(c.Locale) }

func (c Config) Profile() string {
	if c.TUI == nil {
		return ""
	}
	return c.TUI.Profile
}

// Set assigns one key from its string form. An empty value clears the key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "pattern":
		c.Pattern = value
	case "locale":
		c.Locale = value
	case "weeksToShow":
		if value == "" {
			c.WeeksToShow = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > picker.MaxWeeksToShow {
			return fmt.Errorf("weeksToShow: want an integer in 0-%d, got %q", picker.MaxWeeksToShow, value)
		}
		c.WeeksToShow = n
	case "tui.profile":
		if value == "" {
			c.TUI = nil
			return nil
		}
		if c.TUI == nil {
			c.TUI = &TUIConfig{}
		}
		c.TUI.Profile = value
	default:
		return fmt.Errorf("unknown config key %q (want one of %s)", key, strings.Join(ConfigKeys, ", "))
	}
	return nil
}

// LoadConfig reads config.json. A missing or unreadable file yields the zero
// Config; a corrupt one is logged and ignored.
func (s Store) LoadConfig(ctx context.Context) (Config, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return Config{}, nil
	}
	b, err := os.ReadFile(s.configPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		ctxlog.Logger(ctx).Warn("ignoring corrupt config", "path", s.configPath(), "error", err)
		return Config{}, nil
	}
	return cfg, nil
}

func (s Store) SaveConfig(ctx context.Context, cfg Config) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := atomicWriteFile(s.configPath(), append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	ctxlog.Logger(ctx).Debug("saved config", "path", s.configPath())
	return nil
}
