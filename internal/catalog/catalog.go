// Package catalog holds the static registry of personality archetypes. The
// data is immutable after startup; every component receives the same catalog
// instance by injection.
package catalog

import (
	"strings"

	"github.com/kindredlabs/matchmaker/internal/models"
)

// Archetype places a category on the two continuous axes the kokology
// analysis maps people onto, plus the tags used when generating
// candidate introductions.
type Archetype struct {
	Direction    string   `json:"direction"`
	Dominance    float64  `json:"dominance"`    // 0 soft .. 1 dominant
	Explicitness float64  `json:"explicitness"` // 0 conservative .. 1 nsfw
	Interests    []string `json:"interests"`
	Services     []string `json:"services"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Traits      []string  `json:"traits"`
	Archetype   Archetype `json:"archetype"`
}

type Catalog struct {
	categories []Category
	byID       map[string]*Category
	byName     map[string]*Category
}

func New(categories []Category) *Catalog {
	c := &Catalog{
		categories: categories,
		byID:       make(map[string]*Category, len(categories)),
		byName:     make(map[string]*Category, len(categories)),
	}
	for i := range c.categories {
		cat := &c.categories[i]
		c.byID[cat.ID] = cat
		c.byName[cat.Name] = cat
	}
	return c
}

// Default returns the catalog of the eight built-in archetypes.
func Default() *Catalog { return New(defaultCategories) }

func (c *Catalog) All() []Category { return c.categories }

func (c *Catalog) ByID(id string) (*Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

func (c *Catalog) ByName(name string) (*Category, bool) {
	cat, ok := c.byName[name]
	return cat, ok
}

const imagePathPrefix = "/images/personality-types/"

// ImagePath resolves the gendered result image for a category. Category ids
// are kebab-cased for the asset names; himbo_bimbo_babe maps onto the legacy
// "bimbo" asset pair. Gender defaults to female when unset.
func ImagePath(categoryID string, gender models.Gender) string {
	slug := strings.ReplaceAll(categoryID, "_", "-")
	if categoryID == "himbo_bimbo_babe" {
		slug = "bimbo"
	}
	suffix := "girl"
	if gender == models.GenderMale {
		suffix = "boy"
	}
	return imagePathPrefix + slug + "-" + suffix + ".jpg"
}
