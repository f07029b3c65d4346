package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// APIKeyEnv names the environment variable holding the API credential.
const APIKeyEnv = "OPENAI_API_KEY"

// Keys used in the config file and, upper-cased with a CODEWALK_ prefix, in
// the environment.
const (
	KeyModel       = "model"
	KeyTemperature = "temperature"
	KeyExtensions  = "extensions"
	KeyExclude     = "exclude"
	KeyBaseURL     = "base-url"
	KeyRedact      = "redact"
	KeyRender      = "render"
	KeyLogLevel    = "log-level"
)

// flagNames maps config keys to the CLI flag that overrides them.
var flagNames = map[string]string{
	KeyModel:       "model",
	KeyTemperature: "temperature",
	KeyExtensions:  "ext",
	KeyExclude:     "exclude",
	KeyBaseURL:     "base-url",
	KeyRedact:      "redact",
	KeyRender:      "render",
	KeyLogLevel:    "log-level",
}

// Config is the run configuration. It does not change once loaded.
type Config struct {
	RootDir     string   `json:"rootDir" validate:"required"`
	Model       string   `json:"model" validate:"required"`
	Temperature float64  `json:"temperature" validate:"gte=0,lte=2"`
	Extensions  []string `json:"extensions" validate:"min=1,dive,required"`
	Exclude     []string `json:"exclude,omitempty" validate:"dive,glob"`
	BaseURL     string   `json:"baseURL,omitempty" validate:"omitempty,url"`
	Redact      bool     `json:"redact"`
	Render      bool     `json:"render"`
	LogLevel    string   `json:"logLevel" validate:"oneof=debug info warn error"`

	APIKey string `json:"-"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		RootDir:     ".",
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		Extensions:  []string{".py", ".js", ".ts", ".java", ".go", ".yaml", ".yml", ".tf"},
		LogLevel:    "warn",
	}
}

// HasCredential reports whether an API key was found.
func (c Config) HasCredential() bool {
	return c.APIKey != ""
}

// SlogLevel converts LogLevel for use with log/slog.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return lvl
}

// Validate checks the configuration for values the run cannot use.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("glob", isGlob)
	return v
}

func isGlob(fl validator.FieldLevel) bool {
	return doublestar.ValidatePattern(fl.Field().String())
}

// Source describes where Load reads values from.
type Source struct {
	// RootDir is the positional directory argument; empty means ".".
	RootDir string
	// Flags are the parsed command-line flags. Only flags the user changed
	// take precedence over the environment and the config file.
	Flags *pflag.FlagSet
	// ConfigFile is an explicit config file path. When empty, the default
	// location is used if a file exists there.
	ConfigFile string
	// EnvFile is an optional dotenv file consulted for the API key when the
	// environment does not provide one. The process environment is not
	// modified.
	EnvFile string
	// Getenv reads the credential. Defaults to os.Getenv.
	Getenv func(string) string
}

// Load builds the effective config by merging: defaults <- file <- env <- flags.
func Load(src Source) (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault(KeyModel, def.Model)
	v.SetDefault(KeyTemperature, def.Temperature)
	v.SetDefault(KeyExtensions, def.Extensions)
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeyRedact, false)
	v.SetDefault(KeyRender, false)
	v.SetDefault(KeyLogLevel, def.LogLevel)

	v.SetEnvPrefix("CODEWALK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyBaseURL, "CODEWALK_BASE_URL", "OPENAI_BASE_URL"); err != nil {
		return Config{}, fmt.Errorf("binding environment: %w", err)
	}

	if src.Flags != nil {
		for key, name := range flagNames {
			f := src.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	if err := readConfigFile(v, src.ConfigFile); err != nil {
		return Config{}, err
	}

	cfg := Config{
		RootDir:     src.RootDir,
		Model:       strings.TrimSpace(v.GetString(KeyModel)),
		Temperature: v.GetFloat64(KeyTemperature),
		Extensions:  splitList(v.GetStringSlice(KeyExtensions)),
		Exclude:     splitList(v.GetStringSlice(KeyExclude)),
		BaseURL:     strings.TrimSpace(v.GetString(KeyBaseURL)),
		Redact:      v.GetBool(KeyRedact),
		Render:      v.GetBool(KeyRender),
		LogLevel:    strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
	}
	if cfg.RootDir == "" {
		cfg.RootDir = def.RootDir
	}

	key, err := LookupAPIKey(src)
	if err != nil {
		return Config{}, err
	}
	cfg.APIKey = key

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		return nil
	}

	dir, err := ConfigDir()
	if err != nil {
		// No home directory means no default config file.
		return nil
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// LookupAPIKey returns the credential from src.Getenv, falling back to
// src.EnvFile. It reads no other file, so callers can check for a missing
// credential before loading the rest of the configuration.
func LookupAPIKey(src Source) (string, error) {
	getenv := src.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if key := strings.TrimSpace(getenv(APIKeyEnv)); key != "" {
		return key, nil
	}
	if src.EnvFile == "" {
		return "", nil
	}
	vars, err := godotenv.Read(src.EnvFile)
	if err != nil {
		return "", fmt.Errorf("reading env file: %w", err)
	}
	return strings.TrimSpace(vars[APIKeyEnv]), nil
}

// splitList flattens values that may themselves be comma-separated, dropping
// empty entries.
func splitList(values []string) []string {
	var result []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
	}
	return result
}

// ConfigDir returns the platform-appropriate config directory for codewalk.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codewalk"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "codewalk"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "codewalk"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "codewalk"), nil
	default:
		return filepath.Join(home, ".config", "codewalk"), nil
	}
}
