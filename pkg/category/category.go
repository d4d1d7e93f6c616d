// Package category maps free-form event types onto the canonical task
// categories and exposes per-category scheduling hints.
package category

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Other is the fallback category for unknown event types.
const Other = "Other"

// Urgency levels. Higher ranks are scheduled first on ties.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

//go:embed categories.yaml
var catalogYAML []byte

// Info describes one canonical category.
type Info struct {
	Name             string   `yaml:"name"`
	DefaultEventType string   `yaml:"default_event_type"`
	EventTypes       []string `yaml:"event_types"`
	TypicalDuration  float64  `yaml:"typical_duration"`
	Urgency          string   `yaml:"urgency"`
	PreferredTimes   string   `yaml:"preferred_times"`
}

// Catalog is an immutable lookup over a set of categories.
type Catalog struct {
	byName      map[string]Info
	byEventType map[string]string
	names       []string
}

type catalogFile struct {
	Categories []Info `yaml:"categories"`
}

// Parse builds a Catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse category catalog: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("parse category catalog: no categories defined")
	}

	c := &Catalog{
		byName:      make(map[string]Info, len(f.Categories)),
		byEventType: make(map[string]string),
	}
	for _, info := range f.Categories {
		if info.Name == "" {
			return nil, fmt.Errorf("parse category catalog: category without name")
		}
		key := strings.ToLower(info.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("parse category catalog: duplicate category %q", info.Name)
		}
		c.byName[key] = info
		c.names = append(c.names, info.Name)
		for _, et := range info.EventTypes {
			c.byEventType[strings.ToLower(et)] = info.Name
		}
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(catalogYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Names lists category names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Normalize resolves a category name or event type to its canonical
// category name. Unknown or empty values map to Other.
func (c *Catalog) Normalize(value string) string {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return Other
	}
	if info, ok := c.byName[key]; ok {
		return info.Name
	}
	if name, ok := c.byEventType[key]; ok {
		return name
	}
	return Other
}

// Lookup returns the Info for a category or event type.
func (c *Catalog) Lookup(value string) (Info, bool) {
	info, ok := c.byName[strings.ToLower(c.Normalize(value))]
	return info, ok
}

// TypicalDuration returns the usual length in hours, or 1 when unknown.
func (c *Catalog) TypicalDuration(value string) float64 {
	if info, ok := c.Lookup(value); ok && info.TypicalDuration > 0 {
		return info.TypicalDuration
	}
	return 1
}

// UrgencyRank maps the category's urgency to 0 (low), 1 (medium) or 2 (high).
func (c *Catalog) UrgencyRank(value string) int {
	info, ok := c.Lookup(value)
	if !ok {
		return 1
	}
	switch info.Urgency {
	case UrgencyHigh:
		return 2
	case UrgencyLow:
		return 0
	default:
		return 1
	}
}
