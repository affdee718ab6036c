package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/1broseidon/quadtile/internal/geometry"
	"github.com/1broseidon/quadtile/internal/placement"
)

// ValidationError reports an invalid config value with its YAML path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ProfileOverride overrides fields of a launch kind's polling profile.
// Zero values leave the built-in default untouched.
type ProfileOverride struct {
	InitialDelayMs     int    `yaml:"initial_delay_ms,omitempty"`
	PollIntervalMs     int    `yaml:"poll_interval_ms,omitempty"`
	SlowPollAfter      int    `yaml:"slow_poll_after,omitempty"`
	SlowPollIntervalMs int    `yaml:"slow_poll_interval_ms,omitempty"`
	MaxAttempts        int    `yaml:"max_attempts,omitempty"`
	ConfirmDelayMs     int    `yaml:"confirm_delay_ms,omitempty"`
	Strategy           string `yaml:"strategy,omitempty"` // "direct" or "snapshot"
}

// ToolConfig describes a launchable tool.
type ToolConfig struct {
	Command     string            `yaml:"command"`
	Args        []string          `yaml:"args,omitempty"`
	Kind        string            `yaml:"kind,omitempty"` // plain, console, browser, mmc-host, rds-app
	Quadrant    string            `yaml:"quadrant,omitempty"`
	ClassNames  []string          `yaml:"class_names,omitempty"`
	TitleHints  []string          `yaml:"title_hints,omitempty"`
	ImageHints  []string          `yaml:"image_hints,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
	Monitor     bool              `yaml:"monitor,omitempty"` // capture stdout/stderr
	Description string            `yaml:"description,omitempty"`
}

// Hotkeys binds global keys to re-placing the last placed window.
type Hotkeys struct {
	TopLeft     string `yaml:"top_left"`
	TopRight    string `yaml:"top_right"`
	BottomLeft  string `yaml:"bottom_left"`
	BottomRight string `yaml:"bottom_right"`
	Full        string `yaml:"full"`
}

// Config holds the application configuration.
type Config struct {
	Display         string                     `yaml:"display,omitempty"`
	XAuthority      string                     `yaml:"xauthority,omitempty"`
	FillRatio       float64                    `yaml:"fill_ratio"`
	EdgeMarginRatio float64                    `yaml:"edge_margin_ratio"`
	MinWindowWidth  int                        `yaml:"min_window_width"`
	MinWindowHeight int                        `yaml:"min_window_height"`
	WrapperClass    string                     `yaml:"wrapper_class"`
	LogLevel        string                     `yaml:"log_level"`
	Hotkeys         Hotkeys                    `yaml:"hotkeys"`
	ConsoleClasses  []string                   `yaml:"console_classes"`
	BrowserClasses  []string                   `yaml:"browser_classes"`
	Profiles        map[string]ProfileOverride `yaml:"profiles,omitempty"`
	Tools           map[string]ToolConfig      `yaml:"tools,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		FillRatio:       0.995,
		EdgeMarginRatio: 0.01,
		MinWindowWidth:  200,
		MinWindowHeight: 120,
		WrapperClass:    "ApplicationFrameWindow",
		LogLevel:        "info",
		Hotkeys: Hotkeys{
			TopLeft:     "Mod4-Mod1-u",
			TopRight:    "Mod4-Mod1-i",
			BottomLeft:  "Mod4-Mod1-j",
			BottomRight: "Mod4-Mod1-k",
			Full:        "Mod4-Mod1-f",
		},
		ConsoleClasses: []string{
			"ConsoleWindowClass",
			"XTerm",
			"UXTerm",
			"kitty",
			"Alacritty",
			"Gnome-terminal",
			"gnome-terminal-server",
			"konsole",
		},
		BrowserClasses: []string{
			"Navigator",
			"Chromium",
			"Chromium-browser",
			"Google-chrome",
			"firefox",
		},
		Profiles: map[string]ProfileOverride{},
		Tools: map[string]ToolConfig{
			"shell": {
				Command:     "x-terminal-emulator",
				Kind:        "console",
				Description: "Default terminal emulator",
			},
			"browser": {
				Command:     "x-www-browser",
				Kind:        "browser",
				Description: "Default web browser",
			},
		},
	}
}

var validKinds = map[string]bool{
	"":                    true,
	placement.KindPlain:   true,
	placement.KindConsole: true,
	placement.KindBrowser: true,
	placement.KindMmcHost: true,
	placement.KindRdsApp:  true,
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		return &ValidationError{Path: "fill_ratio", Err: fmt.Errorf("fill_ratio must be in (0, 1]")}
	}
	if c.EdgeMarginRatio < 0 || c.EdgeMarginRatio > 0.2 {
		return &ValidationError{Path: "edge_margin_ratio", Err: fmt.Errorf("edge_margin_ratio must be in [0, 0.2]")}
	}
	if c.MinWindowWidth <= 0 {
		return &ValidationError{Path: "min_window_width", Err: fmt.Errorf("min_window_width must be > 0")}
	}
	if c.MinWindowHeight <= 0 {
		return &ValidationError{Path: "min_window_height", Err: fmt.Errorf("min_window_height must be > 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	for kind, p := range c.Profiles {
		if !validKinds[kind] || kind == "" {
			return &ValidationError{Path: "profiles." + kind, Err: fmt.Errorf("unknown launch kind %q", kind)}
		}
		switch p.Strategy {
		case "", "direct", "snapshot":
		default:
			return &ValidationError{Path: "profiles." + kind + ".strategy", Err: fmt.Errorf("strategy must be direct or snapshot")}
		}
		if p.InitialDelayMs < 0 || p.PollIntervalMs < 0 || p.SlowPollIntervalMs < 0 ||
			p.SlowPollAfter < 0 || p.MaxAttempts < 0 || p.ConfirmDelayMs < 0 {
			return &ValidationError{Path: "profiles." + kind, Err: fmt.Errorf("profile values must be >= 0")}
		}
	}
	for name, tool := range c.Tools {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "tools", Err: fmt.Errorf("tools contains an empty name")}
		}
		if strings.TrimSpace(tool.Command) == "" {
			return &ValidationError{Path: "tools." + name + ".command", Err: fmt.Errorf("command must not be empty")}
		}
		if !validKinds[tool.Kind] {
			return &ValidationError{Path: "tools." + name + ".kind", Err: fmt.Errorf("unknown launch kind %q", tool.Kind)}
		}
		if tool.Quadrant != "" {
			if _, err := geometry.ParseQuadrant(tool.Quadrant); err != nil {
				return &ValidationError{Path: "tools." + name + ".quadrant", Err: err}
			}
		}
	}
	return nil
}

// ProfileFor returns the polling profile for a launch kind with this
// config's overrides layered over the built-in defaults.
func (c *Config) ProfileFor(kind string) placement.KindProfile {
	prof := placement.DefaultProfile(kind)
	if c == nil {
		return prof
	}
	o, ok := c.Profiles[kind]
	if !ok {
		return prof
	}
	if o.InitialDelayMs > 0 {
		prof.InitialDelay = time.Duration(o.InitialDelayMs) * time.Millisecond
	}
	if o.PollIntervalMs > 0 {
		prof.PollInterval = time.Duration(o.PollIntervalMs) * time.Millisecond
	}
	if o.SlowPollAfter > 0 {
		prof.SlowPollAfter = o.SlowPollAfter
	}
	if o.SlowPollIntervalMs > 0 {
		prof.SlowPollInterval = time.Duration(o.SlowPollIntervalMs) * time.Millisecond
	}
	if o.MaxAttempts > 0 {
		prof.MaxAttempts = o.MaxAttempts
	}
	if o.ConfirmDelayMs > 0 {
		prof.ConfirmDelay = time.Duration(o.ConfirmDelayMs) * time.Millisecond
	}
	switch o.Strategy {
	case "direct":
		prof.Strategy = placement.DirectMatch
	case "snapshot":
		prof.Strategy = placement.SnapshotDiff
	}
	return prof
}

// PlacementOptions bundles the geometry knobs for the scheduler.
func (c *Config) PlacementOptions() placement.Options {
	return placement.Options{
		FillRatio:       c.FillRatio,
		EdgeMarginRatio: c.EdgeMarginRatio,
		MinWidth:        c.MinWindowWidth,
		MinHeight:       c.MinWindowHeight,
	}
}
