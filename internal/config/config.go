// Package config loads hashpass settings and user preferences with viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
)

// Setting keys. Environment overrides use the HASHPASS_ prefix with dots as underscores.
const (
	KeyDatabaseType       = "database.type"
	KeyDatabaseDSN        = "database.dsn"
	KeyLogLevel           = "log.level"
	KeyLogDevelopment     = "log.development"
	KeyRememberMinutes    = "remember_master_key_minutes"
	KeyCopyToClipboard    = "copy_to_clipboard"
	KeyLastProfile        = "last_profile"
	KeyProfileDefaultLen  = "profile.default_length"
	KeyProfileDefaultType = "profile.default_type"
)

const (
	fileName  = "hashpass"
	fileType  = "yaml"
	envPrefix = "HASHPASS"
)

// Config is the resolved configuration.
type Config struct {
	DatabaseType             string
	DatabaseDSN              string
	LogLevel                 string
	LogDevelopment           bool
	RememberMasterKeyMinutes int
	CopyToClipboard          bool
	LastProfile              int64
	DefaultLength            int
	DefaultType              model.PasswordType
}

// MasterKeyTTL is how long a hidden session keeps the master key. Zero disables caching.
func (c Config) MasterKeyTTL() time.Duration {
	return time.Duration(c.RememberMasterKeyMinutes) * time.Minute
}

// Dir returns the directory holding the config file and the default database.
func Dir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "hashpass")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hashpass")
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDatabaseType, "sqlite")
	v.SetDefault(KeyDatabaseDSN, filepath.Join(Dir(), "hashpass.db"))
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeyRememberMinutes, 5)
	v.SetDefault(KeyCopyToClipboard, false)
	v.SetDefault(KeyLastProfile, model.NoID)
	v.SetDefault(KeyProfileDefaultLen, 10)
	v.SetDefault(KeyProfileDefaultType, model.LettersDigitsSymbols.String())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Read loads file, or the first hashpass.yaml found in Dir() and the working
// directory. A missing default file is not an error.
func Read(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		return v.ReadInConfig()
	}
	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	v.AddConfigPath(Dir())
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// Resolve validates v and returns the typed configuration.
func Resolve(v *viper.Viper) (Config, error) {
	c := Config{
		DatabaseType:             strings.ToLower(v.GetString(KeyDatabaseType)),
		DatabaseDSN:              v.GetString(KeyDatabaseDSN),
		LogLevel:                 v.GetString(KeyLogLevel),
		LogDevelopment:           v.GetBool(KeyLogDevelopment),
		RememberMasterKeyMinutes: v.GetInt(KeyRememberMinutes),
		CopyToClipboard:          v.GetBool(KeyCopyToClipboard),
		LastProfile:              v.GetInt64(KeyLastProfile),
		DefaultLength:            v.GetInt(KeyProfileDefaultLen),
	}
	switch c.DatabaseType {
	case "sqlite", "postgres":
	default:
		return Config{}, errs.InvalidInput(KeyDatabaseType, fmt.Sprintf("unsupported %q", c.DatabaseType))
	}
	if c.DatabaseDSN == "" {
		return Config{}, errs.InvalidInput(KeyDatabaseDSN, "empty")
	}
	if c.RememberMasterKeyMinutes < 0 {
		return Config{}, errs.InvalidInput(KeyRememberMinutes, "negative")
	}
	if !model.ValidLength(c.DefaultLength) {
		return Config{}, errs.InvalidInput(KeyProfileDefaultLen, "out of range")
	}
	typ, ok := model.ParsePasswordType(v.GetString(KeyProfileDefaultType))
	if !ok {
		return Config{}, errs.InvalidInput(KeyProfileDefaultType, "unknown password type")
	}
	c.DefaultType = typ
	return c, nil
}

// Load is New, Read and Resolve in one step.
func Load(file string) (*viper.Viper, Config, error) {
	v := New()
	if err := Read(v, file); err != nil {
		return nil, Config{}, err
	}
	c, err := Resolve(v)
	if err != nil {
		return nil, Config{}, err
	}
	return v, c, nil
}

// SavePreference sets key on v and persists only that key to the file v was read
// from, or to Dir()/hashpass.yaml. Flag and environment overrides never reach the file.
// The file is readable by the owner only.
func SavePreference(v *viper.Viper, key string, value any) error {
	v.Set(key, value)

	path := v.ConfigFileUsed()
	if path == "" {
		path = filepath.Join(Dir(), fileName+"."+fileType)
	}
	file := viper.New()
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	file.Set(key, value)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := file.WriteConfigAs(path); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}
