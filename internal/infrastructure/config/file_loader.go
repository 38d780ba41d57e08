package configinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	configdomain "wdp.dev/cli/internal/core/domain/config"
	configports "wdp.dev/cli/internal/core/ports/config"
)

// FileLoader reads a YAML, TOML or JSON config file (priority 3). With an
// explicit path the file must exist; otherwise the first file found in
// the search paths is used and a missing file is not an error.
type FileLoader struct {
	path        string
	searchPaths []string
}

// NewFileLoader creates a loader for path, or for the default search
// locations when path is empty.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path, searchPaths: DefaultSearchPaths()}
}

// DefaultSearchPaths returns ./wdp.{yaml,yml,toml,json} followed by
// ~/.config/wdp/config.{yaml,yml,toml,json}
func DefaultSearchPaths() []string {
	var paths []string
	exts := []string{".yaml", ".yml", ".toml", ".json"}
	if workDir, err := os.Getwd(); err == nil {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(workDir, "wdp"+ext))
		}
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(homeDir, ".config", "wdp", "config"+ext))
		}
	}
	return paths
}

func (l *FileLoader) Name() string { return "file" }

func (l *FileLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	path := l.path
	if path == "" {
		path = l.discover()
		if path == "" {
			return configdomain.Snapshot{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	kv, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	snap := make(configdomain.Snapshot)
	for _, field := range []string{
		configdomain.FieldHost,
		configdomain.FieldPort,
		configdomain.FieldPage,
		configdomain.FieldURL,
		configdomain.FieldLogLevel,
		configdomain.FieldLogFormat,
		configdomain.FieldHandshakeTimeout,
		configdomain.FieldCommands,
		configdomain.FieldScript,
	} {
		v, ok := kv[field]
		if !ok || v == nil {
			continue
		}
		if field == configdomain.FieldScript {
			if s, ok := v.(string); ok && s != "" && !filepath.IsAbs(s) {
				v = filepath.Join(filepath.Dir(path), s)
			}
		}
		snap[field] = configdomain.Entry{Key: field, Value: v, Source: "file", SourcePath: path, Priority: configdomain.PriorityFile}
	}
	return snap, nil
}

func (l *FileLoader) discover() string {
	for _, p := range l.searchPaths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func decode(path string, data []byte) (map[string]interface{}, error) {
	kv := make(map[string]interface{})
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &kv); err != nil {
			return nil, err
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &kv); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &kv); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (expected .yaml, .yml, .toml or .json)", filepath.Ext(path))
	}
	return kv, nil
}

var _ configports.Loader = (*FileLoader)(nil)
