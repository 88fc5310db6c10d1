package shell

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk ~/.goshrc.yaml shape. Every field is optional;
// a missing or unreadable config file leaves State on its built-in
// defaults.
type Config struct {
	Prompt      string   `yaml:"prompt"`
	HistoryFile string   `yaml:"history_file"`
	HistorySize int      `yaml:"history_size"`
	Aliases     map[string]string `yaml:"aliases"`
	Path        []string `yaml:"path"`
}

// LoadConfig reads and parses path, returning a zero Config (not an
// error) when the file does not exist.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyConfig layers cfg's non-zero Prompt, HistoryFile and Path
// fields onto s. HistorySize and Aliases are parsed but not applied.
func (s *State) ApplyConfig(cfg Config) {
	if cfg.Prompt != "" {
		s.promptTemplate = cfg.Prompt
	}
	if cfg.HistoryFile != "" {
		s.historyPath = cfg.HistoryFile
	}
	if len(cfg.Path) > 0 {
		s.pathDirs = append(append([]string(nil), cfg.Path...), s.pathDirs...)
	}
}
