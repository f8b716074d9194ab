package filesys

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FilesysConfigProvider reads YAML config files from disk.
type FilesysConfigProvider struct{}

// NewFilesysConfigProvider creates a new FilesysConfigProvider.
func NewFilesysConfigProvider() *FilesysConfigProvider {
	return &FilesysConfigProvider{}
}

// LoadConfig reads and unmarshals the YAML file at path into out.
func (f *FilesysConfigProvider) LoadConfig(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal YAML config %s: %w", path, err)
	}
	return nil
}
