package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedEntry is one subscription listed in the seed file
type SeedEntry struct {
	URL     string `yaml:"url"`
	Enabled *bool  `yaml:"enabled"`
}

type Seed struct {
	Feeds []SeedEntry `yaml:"feeds"`
}

// LoadSeed reads the start-up subscription list. A missing file is not an
// error and yields no URLs. Disabled entries are skipped.
func LoadSeed(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("Seed file not found", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	urls := make([]string, 0, len(seed.Feeds))
	for i, entry := range seed.Feeds {
		if entry.URL == "" {
			return nil, fmt.Errorf("feed URL is required at index %d", i)
		}
		if entry.Enabled != nil && !*entry.Enabled {
			slog.Debug("Seed feed disabled, skipping", "feed", entry.URL)
			continue
		}
		urls = append(urls, entry.URL)
	}

	return urls, nil
}
