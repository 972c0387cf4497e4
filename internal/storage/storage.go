package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"logbook/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir   = ".logbook"
	DefaultConfigFile  = "config.yaml"
	DefaultCatalogFile = "logbook.db"
	DefaultAttachDir   = "attachments"
	DefaultLogFile     = "logbook.log"
)

// Environment overrides
const (
	EnvConfig        = "LOGBOOK_CONFIG"
	EnvAttachmentDir = "LOGBOOK_ATTACHMENT_DIR"
	EnvTheme         = "LOGBOOK_THEME"
)

// LoadEnv reads a .env file from the working directory if there is one.
func LoadEnv() {
	_ = godotenv.Load()
}

// ExpandPath expands a leading ~ to the user's home directory and $VAR or
// ${VAR} references to their environment values.
func ExpandPath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// GetConfigDir returns the directory holding the config file and logs
func GetConfigDir() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		expanded, err := ExpandPath(p)
		if err != nil {
			return "", err
		}
		return filepath.Dir(expanded), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigDir), nil
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return ExpandPath(p)
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// GetDefaultCatalogPath returns the default catalog database path
func GetDefaultCatalogPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultCatalogFile), nil
}

// DefaultAttachmentDir returns the attachment directory for a catalog that has none configured
func DefaultAttachmentDir(catalogPath string) string {
	if p := os.Getenv(EnvAttachmentDir); p != "" {
		return p
	}
	return filepath.Join(filepath.Dir(catalogPath), DefaultAttachDir)
}

// ConfigExists checks if the config file exists
func ConfigExists() (bool, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// LoadConfig loads the configuration from disk. A missing file yields an empty config.
func LoadConfig() (*model.Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	config := &model.Config{}
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		applyEnv(config)
		return config, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	applyEnv(config)

	return config, nil
}

func applyEnv(config *model.Config) {
	if theme := os.Getenv(EnvTheme); theme != "" {
		config.Theme = theme
	}
}

// SaveConfig saves the configuration to disk
func SaveConfig(config *model.Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// GetSortedLogbooks returns logbooks sorted by last opened, most recent first
func GetSortedLogbooks(config *model.Config) []model.LogbookRef {
	logbooks := make([]model.LogbookRef, len(config.Logbooks))
	copy(logbooks, config.Logbooks)
	sort.SliceStable(logbooks, func(i, j int) bool {
		return logbooks[i].LastOpened.After(logbooks[j].LastOpened)
	})
	return logbooks
}

// AddLogbook registers a logbook in the config unless its catalog is already listed
func AddLogbook(config *model.Config, name, catalog, attachmentDir string) {
	if FindLogbook(config, catalog) != nil {
		return
	}
	config.Logbooks = append(config.Logbooks, model.LogbookRef{
		Name:          name,
		Catalog:       catalog,
		AttachmentDir: attachmentDir,
		LastOpened:    time.Now(),
	})
}

// FindLogbook finds a logbook by catalog path
func FindLogbook(config *model.Config, catalog string) *model.LogbookRef {
	for i := range config.Logbooks {
		if config.Logbooks[i].Catalog == catalog {
			return &config.Logbooks[i]
		}
	}
	return nil
}

// UpdateLogbookLastOpened stamps a logbook as opened at t
func UpdateLogbookLastOpened(config *model.Config, catalog string, t time.Time) {
	if ref := FindLogbook(config, catalog); ref != nil {
		ref.LastOpened = t
	}
}
