package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultSettingsPath   = "settings.env"
	DefaultQuitHotkey     = "Ctrl+Alt+Q"
	DefaultSnapshotHotkey = "Ctrl+Alt+S"
	DefaultPort           = 49600
	SettingsPathEnvVar    = "SETTINGS_PATH"
	AltEnvFileEnvVar      = "MAGNIFIER_ENV"
)

type LoadOptions struct {
	SettingsPathOverride string
	DisableTray          bool
}

type Config struct {
	EnableFileLogging  bool
	SettingsPath       string
	QuitHotkey         string
	SnapshotHotkey     string
	EnableTray         bool
	SingleInstancePort int
	EnvPath            string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use MAGNIFIER_ENV env var as a path to a config file
	envPath := resolveEnvPath()
	dotenvValues := readDotenvValues(envPath)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	// Privileged ports are rejected like unparsable ones.
	port := DefaultPort
	if v := os.Getenv("SINGLEINSTANCE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1024 && n <= 65535 {
			port = n
		}
	}

	cfg := &Config{
		EnableFileLogging:  strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		SettingsPath:       resolveSettingsPath(opts, dotenvValues, envPath),
		QuitHotkey:         getEnvWithDefault("QUIT_HOTKEY", DefaultQuitHotkey),
		SnapshotHotkey:     getEnvWithDefault("SNAPSHOT_HOTKEY", DefaultSnapshotHotkey),
		EnableTray:         resolveBool(os.Getenv("ENABLE_TRAY"), true) && !opts.DisableTray,
		SingleInstancePort: port,
		EnvPath:            envPath,
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(AltEnvFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}
	}

	return values
}

// resolveSettingsPath picks the settings file. A relative path from a .env
// file is taken relative to that file.
func resolveSettingsPath(opts LoadOptions, dotenvValues map[string]string, envPath string) string {
	path := DefaultSettingsPath

	if p := strings.TrimSpace(os.Getenv(SettingsPathEnvVar)); p != "" {
		path = p
	}

	if p := strings.TrimSpace(dotenvValues[SettingsPathEnvVar]); p != "" {
		path = p
		if !filepath.IsAbs(path) && envPath != "" {
			path = filepath.Join(filepath.Dir(envPath), path)
		}
	}

	if p := strings.TrimSpace(opts.SettingsPathOverride); p != "" {
		path = p
	}

	return path
}

func resolveBool(value string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
