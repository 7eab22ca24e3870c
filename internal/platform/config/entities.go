package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/losthumanity/SentimentFinance/internal/domain"
)

type entitiesFile struct {
	Entities []domain.TrackedEntity `yaml:"entities"`
}

// LoadEntities reads the tracked-entity list from a YAML file, or returns
// the built-in default set when path is empty.
func LoadEntities(path string) ([]domain.TrackedEntity, error) {
	if path == "" {
		return DefaultEntities(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entities file: %w", err)
	}

	var f entitiesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse entities file: %w", err)
	}
	if len(f.Entities) == 0 {
		return nil, fmt.Errorf("entities file %s defines no entities", path)
	}

	for i, e := range f.Entities {
		if e.Name == "" {
			return nil, fmt.Errorf("entity %d has no name", i)
		}
		if e.Sector == "" {
			return nil, fmt.Errorf("entity %q has no sector", e.Name)
		}
	}

	return f.Entities, nil
}

// DefaultEntities is the built-in tracked set used when no file is given.
func DefaultEntities() []domain.TrackedEntity {
	return []domain.TrackedEntity{
		{Name: "Apple Inc.", Sector: "Technology", Symbol: "AAPL"},
		{Name: "Microsoft Corporation", Sector: "Technology", Symbol: "MSFT"},
		{Name: "Amazon.com Inc.", Sector: "Technology", Symbol: "AMZN"},
		{Name: "Tesla Inc.", Sector: "Automotive", Symbol: "TSLA"},
		{Name: "Alphabet Inc.", Sector: "Technology", Symbol: "GOOGL"},
		{Name: "Meta Platforms Inc.", Sector: "Technology", Symbol: "META"},
		{Name: "NVIDIA Corporation", Sector: "Technology", Symbol: "NVDA"},
		{Name: "JPMorgan Chase & Co.", Sector: "Financial Services", Symbol: "JPM"},
		{Name: "Johnson & Johnson", Sector: "Healthcare", Symbol: "JNJ"},
		{Name: "Berkshire Hathaway", Sector: "Financial Services", Symbol: "BRK.A"},
	}
}
