package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/lint"
)

// loggerKey is used to store the logger in a command context.
type loggerKey struct{}

// configKey is used to store the loaded config in a command context.
type configKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// envPrefix prefixes every environment variable: EINLINT_CHECK_TOL=5.
const envPrefix = "EINLINT_"

// checkFlags are flag names that live under the check section.
var checkFlags = map[string]bool{
	lint.OptionAlpha: true,
	lint.OptionTol:   true,
	lint.OptionSize:  true,
	lint.OptionThrow: true,
	lint.OptionNamed: true,
	lint.OptionWild:  true,
}

func defaults() map[string]any {
	d := lint.DefaultOptions()
	return map[string]any{
		"check.alpha":    d.AlphaCheck,
		"check.tol":      d.Tolerance,
		"check.size":     d.SizeCheck,
		"check.throw":    d.ThrowOnError,
		"check.named":    d.NamedPolicy.String(),
		"check.wild":     d.BindWildcards,
		"output":         DefaultOutput,
		"verbose":        false,
		"log_level":      "",
		"severity":       DefaultSeverity,
		"jobs":           0,
		"watch.debounce": DefaultDebounce.String(),
	}
}

// findConfigUpward searches upward from startDir for an einlint config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// rootFlags are flag names that map onto top-level keys.
var rootFlags = map[string]bool{
	"module":    true,
	"output":    true,
	"verbose":   true,
	"log-level": true,
	"severity":  true,
	"jobs":      true,
}

// flagKey maps a flag name to its config key. Flags that are not
// configuration, such as --config or check --watch, map to "".
func flagKey(name string) string {
	switch {
	case checkFlags[name]:
		return "check." + name
	case name == "debounce":
		return "watch.debounce"
	case rootFlags[name]:
		return strings.ReplaceAll(name, "-", "_")
	default:
		return ""
	}
}

// envKey maps EINLINT_CHECK_TOL to check.tol and EINLINT_LOG_LEVEL to log_level.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range []string{"check_", "watch_"} {
		if strings.HasPrefix(key, section) {
			return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(key, section)
		}
	}
	return key
}

// LoadConfig loads configuration from defaults, file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Without cfgFile the current directory and its parents are searched for
// einlint.yaml.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfgFile = findConfigUpward(cwd)
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those set explicitly
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := flagKey(f.Name)
			if key == "" {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Decode. Options, severities and durations arrive as strings from
	// env vars, flags and YAML alike.
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = cfgFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration, as LoadConfig would with no
// file, environment or flags.
func Default() *Config {
	return &Config{
		Check:    lint.DefaultOptions(),
		Output:   DefaultOutput,
		Severity: core.SeverityWarning,
		Watch:    WatchConfig{Debounce: DefaultDebounce},
	}
}

// NewLogger builds the CLI logger. Logging is off unless verbose is set
// or log_level names a level.
func NewLogger(cfg *Config, w io.Writer) (*slog.Logger, error) {
	level := slog.LevelDebug
	switch {
	case cfg.Verbose:
	case cfg.LogLevel != "":
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, fmt.Errorf("invalid log_level: %w", err)
		}
	default:
		return slog.New(slog.DiscardHandler), nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the config from the command context, or Default when
// none was loaded.
func GetConfig(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok && c != nil {
		return c
	}
	return Default()
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
