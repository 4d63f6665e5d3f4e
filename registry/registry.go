// Package registry maintains an in-memory, TTL-bounded cache of a remotely
// hosted plugin catalog and answers all read queries over it.
package registry

import (
	"encoding/json"
	"fmt"
	"time"
)

// Catalog is the top-level document served by a registry source.
type Catalog struct {
	SchemaVersion string    `json:"schema_version,omitempty"`
	GeneratedAt   time.Time `json:"generated_at,omitzero"`
	Plugins       []Plugin  `json:"plugins"`
}

// Plugin describes one entry in the catalog. The queryable facets are typed;
// everything else rides along in Configuration.Raw so that registry schema
// evolution does not break decoding.
type Plugin struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Version       string        `json:"version,omitempty"`
	Description   string        `json:"description,omitempty"`
	Categories    []string      `json:"categories,omitempty"`
	Integrations  []string      `json:"integrations,omitempty"`
	Keywords      []string      `json:"keywords,omitempty"`
	Models        []Model       `json:"models,omitempty"`
	UI            UIMeta        `json:"ui,omitzero"`
	Configuration Configuration `json:"configuration,omitzero"`

	// LastUpdated is optional; the zero value means the catalog did not
	// declare it. Used only for sort-by-recency.
	LastUpdated time.Time `json:"last_updated,omitzero"`
}

// Price returns the plugin's numeric cost, zero when the catalog omits it.
func (p Plugin) Price() float64 {
	return p.Configuration.Pricing.Price
}

// SupportsModality reports whether any of the plugin's models declares the
// given modality.
func (p Plugin) SupportsModality(modality string) bool {
	for _, m := range p.Models {
		for _, mod := range m.Modalities {
			if mod == modality {
				return true
			}
		}
	}
	return false
}

// Model declares a model exposed by a plugin and the modalities it supports.
type Model struct {
	Name       string   `json:"name,omitempty"`
	Modalities []string `json:"modalities,omitempty"`
}

// Pricing is the cost descriptor nested under a plugin's configuration.
type Pricing struct {
	Price float64 `json:"price,omitempty"`
	Model string  `json:"model,omitempty"`
	Tier  string  `json:"tier,omitempty"`
}

// UIMeta carries the remote-entry and presentation metadata for a plugin.
type UIMeta struct {
	RemoteEntryProduction string   `json:"remote_entry_production,omitempty"`
	RemoteEntryStaging    string   `json:"remote_entry_staging,omitempty"`
	IconLarge             string   `json:"icon_large,omitempty"`
	IconSmall             string   `json:"icon_small,omitempty"`
	ManifestURL           string   `json:"manifest_url,omitempty"`
	Screenshots           []string `json:"screenshots,omitempty"`
}

// Icons groups a plugin's icon URLs.
type Icons struct {
	Large string `json:"large"`
	Small string `json:"small"`
}

// Configuration holds the typed pricing descriptor plus the raw configuration
// object exactly as the catalog delivered it.
type Configuration struct {
	Pricing Pricing
	Raw     map[string]any
}

// UnmarshalJSON extracts the pricing descriptor and retains the full object.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	var typed struct {
		Pricing Pricing `json:"pricing"`
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Pricing = typed.Pricing
	c.Raw = raw
	return nil
}

// MarshalJSON writes the raw configuration object when present, so a decoded
// catalog round-trips without losing unknown fields.
func (c Configuration) MarshalJSON() ([]byte, error) {
	if c.Raw != nil {
		return json.Marshal(c.Raw)
	}
	if (c.Pricing == Pricing{}) {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]any{"pricing": c.Pricing})
}

// supportedSchema is the catalog schema version this package understands.
// An absent schema_version is accepted for compatibility with catalogs
// published before versioning was introduced.
const supportedSchema = "1"

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if cat.SchemaVersion != "" && cat.SchemaVersion != supportedSchema {
		return nil, fmt.Errorf("unsupported schema version %q (expected %q)", cat.SchemaVersion, supportedSchema)
	}
	return &cat, nil
}
