package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Default file names inside the config directory.
const (
	TrelloFile     = "trello-config.yaml"
	LeanKitFile    = "leankit-config.yaml"
	KanbanFlowFile = "kanbanflow-config.yaml"
)

// TrelloConfig is the contents of trello-config.yaml.
type TrelloConfig struct {
	AppKey         string   `yaml:"app_key"`
	Token          string   `yaml:"token"`
	BoardID        string   `yaml:"board_id"`
	DefaultList    string   `yaml:"default_list"`
	CompletedLists []string `yaml:"completed_lists"`
	// CommentConcurrency bounds parallel comment fetches while classifying. 0 or 1 is sequential.
	CommentConcurrency int `yaml:"comment_concurrency,omitempty"`
}

// LeanKitConfig is the contents of leankit-config.yaml.
type LeanKitConfig struct {
	Account         string            `yaml:"account"`
	Email           string            `yaml:"email"`
	Password        string            `yaml:"password"`
	BoardID         string            `yaml:"board_id"`
	CompletedLanes  []string          `yaml:"completed_lanes"`
	DefaultDropLane string            `yaml:"default_drop_lane,omitempty"`
	CardTypes       map[string]string `yaml:"card_types,omitempty"`
	// BaseURL overrides https://<account>.leankit.com.
	BaseURL string `yaml:"base_url,omitempty"`
}

// KanbanFlowConfig is the contents of kanbanflow-config.yaml.
type KanbanFlowConfig struct {
	Token           string            `yaml:"token"`
	DefaultDropLane string            `yaml:"default_drop_lane"`
	CardTypes       map[string]string `yaml:"card_types,omitempty"`
	CompletedLanes  []string          `yaml:"completed_lanes"`
	BaseURL         string            `yaml:"base_url,omitempty"`
	// RequestsPerSecond throttles API calls. 0 uses the client default.
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`
}

// ConfigProvider is an interface for loading a configuration file into a struct.
type ConfigProvider interface {
	LoadConfig(path string, out interface{}) error
}

var ErrMissingField = errors.New("missing required config field")

func missing(file, field string) error {
	return fmt.Errorf("%s: %w %q", file, ErrMissingField, field)
}

// Validate checks that the fields needed to connect are present.
func (c *TrelloConfig) Validate() error {
	switch {
	case c.AppKey == "":
		return missing(TrelloFile, "app_key")
	case c.Token == "":
		return missing(TrelloFile, "token")
	case c.BoardID == "":
		return missing(TrelloFile, "board_id")
	}
	return nil
}

func (c *LeanKitConfig) Validate() error {
	switch {
	case c.Account == "" && c.BaseURL == "":
		return missing(LeanKitFile, "account")
	case c.Email == "":
		return missing(LeanKitFile, "email")
	case c.Password == "":
		return missing(LeanKitFile, "password")
	case c.BoardID == "":
		return missing(LeanKitFile, "board_id")
	}
	return nil
}

func (c *KanbanFlowConfig) Validate() error {
	switch {
	case c.Token == "":
		return missing(KanbanFlowFile, "token")
	case c.DefaultDropLane == "":
		return missing(KanbanFlowFile, "default_drop_lane")
	}
	return nil
}

// LoadEnv reads a .env file into the process environment if one exists.
// An empty path means ".env" in the working directory.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// LoadTrello reads trello-config.yaml from dir and applies environment overrides.
func LoadTrello(p ConfigProvider, dir string) (*TrelloConfig, error) {
	var cfg TrelloConfig
	if err := p.LoadConfig(filepath.Join(dir, TrelloFile), &cfg); err != nil {
		return nil, err
	}
	override(&cfg.AppKey, "TRELLO_APP_KEY")
	override(&cfg.Token, "TRELLO_TOKEN")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadLeanKit reads leankit-config.yaml from dir and applies environment overrides.
func LoadLeanKit(p ConfigProvider, dir string) (*LeanKitConfig, error) {
	var cfg LeanKitConfig
	if err := p.LoadConfig(filepath.Join(dir, LeanKitFile), &cfg); err != nil {
		return nil, err
	}
	override(&cfg.Account, "LEANKIT_ACCOUNT")
	override(&cfg.Email, "LEANKIT_EMAIL")
	override(&cfg.Password, "LEANKIT_PASSWORD")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadKanbanFlow reads kanbanflow-config.yaml from dir and applies environment overrides.
func LoadKanbanFlow(p ConfigProvider, dir string) (*KanbanFlowConfig, error) {
	var cfg KanbanFlowConfig
	if err := p.LoadConfig(filepath.Join(dir, KanbanFlowFile), &cfg); err != nil {
		return nil, err
	}
	override(&cfg.Token, "KANBANFLOW_TOKEN")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
