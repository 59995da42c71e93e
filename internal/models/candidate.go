package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Candidate is one browsable match profile. The matchmaking core reads only
// ID, DisplayName and Bio; everything else feeds presentation and ranking.
type Candidate struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	DisplayName string `gorm:"column:display_name;type:text" json:"display_name"`
	Bio         string `gorm:"column:bio;type:text" json:"bio"`
	Gender      string `gorm:"column:gender;type:text" json:"gender"`
	Level       int    `gorm:"column:level" json:"level"`

	Traits pq.StringArray `gorm:"column:traits;type:text[]" json:"traits"`

	// Free-form provider metadata, stored as-is.
	Attributes datatypes.JSON `gorm:"column:attributes;type:jsonb" json:"attributes"`

	// Estimated (dominance, explicitness) position, used to rank candidates
	// against the user's resolved personality archetype.
	Archetype pgvector.Vector `gorm:"column:archetype;type:vector(2)" json:"-"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Candidate) TableName() string { return "candidates" }
