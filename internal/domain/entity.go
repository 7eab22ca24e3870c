package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity is a persisted company/ticker row. Entities are created on first
// reference by an article and never deleted by the pipeline.
type Entity struct {
	ID        uuid.UUID
	Name      string
	Sector    string
	Symbol    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrackedEntity is a configured company the pipeline attributes articles to.
type TrackedEntity struct {
	Name   string `yaml:"name"`
	Sector string `yaml:"sector"`
	Symbol string `yaml:"symbol,omitempty"`
}
