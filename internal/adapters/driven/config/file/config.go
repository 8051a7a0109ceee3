// Package file loads and saves the CLI configuration as a TOML document
// under the user's home directory.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Allowance filler selection.
const (
	AllowanceModeLocal = "local"
	AllowanceModeDrive = "drive"
)

// AzureConfig identifies the app registration used for sign-in.
type AzureConfig struct {
	ClientID     string   `toml:"client_id"`
	TenantID     string   `toml:"tenant_id"`
	RedirectPort int      `toml:"redirect_port"`
	Scopes       []string `toml:"scopes,omitempty"`
}

// Config is the full tool configuration.
type Config struct {
	Azure AzureConfig `toml:"azure"`

	// FamilyName overrides the name resolved from the Graph profile.
	FamilyName string `toml:"family_name"`
	// ReplyTimeZone names the zone auto-reply window instants are sent in.
	ReplyTimeZone string `toml:"reply_time_zone"`
	// AllowanceMode selects the workbook filler: "local" or "drive".
	AllowanceMode string `toml:"allowance_mode"`
	// TemplatePath points at the allowance template workbook.
	TemplatePath string `toml:"template_path"`
	// SignatureDir overrides the Outlook signatures directory.
	SignatureDir string `toml:"signature_dir"`
}

// Default returns the configuration used before the user edits anything.
func Default() Config {
	return Config{
		ReplyTimeZone: "UTC",
		AllowanceMode: AllowanceModeLocal,
	}
}

// Set assigns one key, as used by `oof config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "azure.client_id":
		c.Azure.ClientID = value
	case "azure.tenant_id":
		c.Azure.TenantID = value
	case "azure.redirect_port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: %s must be a port number", key)
		}
		c.Azure.RedirectPort = port
	case "family_name":
		c.FamilyName = value
	case "reply_time_zone":
		c.ReplyTimeZone = value
	case "allowance_mode":
		if value != AllowanceModeLocal && value != AllowanceModeDrive {
			return fmt.Errorf("config: allowance_mode must be %q or %q",
				AllowanceModeLocal, AllowanceModeDrive)
		}
		c.AllowanceMode = value
	case "template_path":
		c.TemplatePath = value
	case "signature_dir":
		c.SignatureDir = value
	default:
		return fmt.Errorf("config: unknown key %q", key)
	}
	return nil
}

// Store reads and writes the configuration file.
type Store struct {
	path string
}

// NewStore creates a store at path; empty uses ~/.oof/config.toml.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, ".oof", "config.toml")
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the configuration, falling back to defaults for a missing file.
func (s *Store) Load() (Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration, creating the directory if needed.
func (s *Store) Save(cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
