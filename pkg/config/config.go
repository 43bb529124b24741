package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"tasklist/pkg/keymaps"
)

// EnvPrefix is the prefix of environment overrides, e.g. TASKLIST_PASSWORD
// or TASKLIST_STORAGE_DRIVER.
const EnvPrefix = "TASKLIST"

// StorageConfig selects where the task document lives
type StorageConfig struct {
	Driver string `json:"driver" mapstructure:"driver"` // file, sqlite or postgres
	Path   string `json:"path" mapstructure:"path"`
	DSN    string `json:"dsn,omitempty" mapstructure:"dsn"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// Config holds the application configuration
type Config struct {
	Storage    StorageConfig     `json:"storage" mapstructure:"storage"`
	Categories []string          `json:"categories" mapstructure:"categories"`
	Password   string            `json:"password" mapstructure:"password"`
	KeyMap     map[string]string `json:"keymap" mapstructure:"keymap"`
	StylesFile string            `json:"styles_file" mapstructure:"styles_file"`
	Server     ServerConfig      `json:"server" mapstructure:"server"`

	// File is the config file that was read
	File string `json:"-" mapstructure:"-"`
}

// Styles holds the application colors and styling information
type Styles struct {
	// UI element colors
	BorderColor string `json:"border_color"`
	AccentColor string `json:"accent_color"`

	// Text colors
	NormalTextColor   string `json:"normal_text_color"`
	SelectedTextColor string `json:"selected_text_color"`
	SelectedBgColor   string `json:"selected_bg_color"`
	ErrorColor        string `json:"error_color"`
	SuccessColor      string `json:"success_color"`

	CategoryColor  string `json:"category_color"`
	CompletedColor string `json:"completed_color"`

	// Deadline label colors
	OverdueColor   string `json:"overdue_color"`
	DueSoonColor   string `json:"due_soon_color"`
	DueTodayColor  string `json:"due_today_color"`
	ScheduledColor string `json:"scheduled_color"`
	InvalidColor   string `json:"invalid_color"`
}

// Dir returns the default configuration directory, ~/.config/tasklist.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tasklist"), nil
}

// Defaults returns the configuration written on first run.
func Defaults() (Config, error) {
	configDir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Storage: StorageConfig{
			Driver: "file",
			Path:   filepath.Join(configDir, "tasks.json"),
		},
		Categories: []string{"Work", "Personal", "Other"},
		KeyMap:     keymaps.GetDefaultKeyMappings(),
		StylesFile: filepath.Join(configDir, "styles.json"),
		Server:     ServerConfig{Addr: ":8080"},
	}, nil
}

// DefaultStyles returns the colors written to a new styles file.
func DefaultStyles() Styles {
	return Styles{
		BorderColor:       "240",
		AccentColor:       "205",
		NormalTextColor:   "86",
		SelectedTextColor: "229",
		SelectedBgColor:   "57",
		ErrorColor:        "9",
		SuccessColor:      "10",
		CategoryColor:     "212",
		CompletedColor:    "244",
		OverdueColor:      "196",
		DueSoonColor:      "214",
		DueTodayColor:     "220",
		ScheduledColor:    "39",
		InvalidColor:      "201",
	}
}

// Load loads the application configuration from the specified path. An
// empty path means ~/.config/tasklist/config.json. A missing file is
// created with defaults. Environment variables prefixed with TASKLIST_
// override file values.
func Load(configPath string) (Config, Styles, error) {
	defaults, err := Defaults()
	if err != nil {
		return Config{}, Styles{}, err
	}

	if configPath == "" {
		configDir, err := Dir()
		if err != nil {
			return defaults, Styles{}, err
		}
		configPath = filepath.Join(configDir, "config.json")
	}

	if err := writeIfMissing(configPath, defaults); err != nil {
		return defaults, Styles{}, err
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	setDefaults(v, defaults)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return defaults, Styles{}, fmt.Errorf("error reading config %s: %w", configPath, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return defaults, Styles{}, fmt.Errorf("error parsing config %s: %w", configPath, err)
	}
	config.File = configPath
	config.Categories = cleanCategories(config.Categories)

	// Now load the styles file
	styles, err := loadStyles(config.StylesFile)
	if err != nil {
		return config, styles, fmt.Errorf("error loading styles: %w", err)
	}

	return config, styles, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.dsn", d.Storage.DSN)
	v.SetDefault("categories", d.Categories)
	v.SetDefault("password", d.Password)
	v.SetDefault("keymap", d.KeyMap)
	v.SetDefault("styles_file", d.StylesFile)
	v.SetDefault("server.addr", d.Server.Addr)
}

func cleanCategories(in []string) []string {
	var out []string
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// writeIfMissing writes v as indented JSON to path unless the file exists
func writeIfMissing(path string, v any) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	// Create the config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// loadStyles loads the application styles from the specified path. Colors
// missing from the file keep their defaults.
func loadStyles(stylesPath string) (Styles, error) {
	defaultStyles := DefaultStyles()
	if stylesPath == "" {
		return defaultStyles, nil
	}
	if strings.HasPrefix(stylesPath, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return defaultStyles, err
		}
		stylesPath = homeDir + stylesPath[1:]
	}

	if err := writeIfMissing(stylesPath, defaultStyles); err != nil {
		return defaultStyles, err
	}

	stylesData, err := os.ReadFile(stylesPath)
	if err != nil {
		return defaultStyles, err
	}

	loadedStyles := defaultStyles
	if err := json.Unmarshal(stylesData, &loadedStyles); err != nil {
		return defaultStyles, err
	}
	return loadedStyles, nil
}
