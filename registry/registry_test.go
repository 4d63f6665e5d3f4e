package registry

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseCatalog(t *testing.T) {
	data := []byte(`{
		"schema_version": "1",
		"plugins": [
			{
				"id": "agent-analytics",
				"name": "Agent Analytics",
				"categories": ["analytics"],
				"integrations": ["shopify"],
				"keywords": ["metrics", "dashboards"],
				"models": [{"name": "insight-v2", "modalities": ["text", "image"]}],
				"configuration": {
					"pricing": {"price": 19.5, "model": "subscription", "tier": "pro"},
					"theme": "dark",
					"limits": {"requests": 1000}
				}
			}
		]
	}`)

	cat, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if len(cat.Plugins) != 1 {
		t.Fatalf("plugins count = %d, want 1", len(cat.Plugins))
	}

	p := cat.Plugins[0]
	if p.ID != "agent-analytics" {
		t.Errorf("id = %q, want %q", p.ID, "agent-analytics")
	}
	if p.Price() != 19.5 {
		t.Errorf("price = %v, want 19.5", p.Price())
	}
	if p.Configuration.Pricing.Tier != "pro" {
		t.Errorf("tier = %q, want %q", p.Configuration.Pricing.Tier, "pro")
	}
	// Unknown configuration fields survive in the raw blob.
	if p.Configuration.Raw["theme"] != "dark" {
		t.Errorf("raw theme = %v, want dark", p.Configuration.Raw["theme"])
	}
	if !p.SupportsModality("image") {
		t.Error("expected image modality support")
	}
	if p.SupportsModality("audio") {
		t.Error("did not expect audio modality support")
	}
}

func TestParseCatalogMissingSchemaVersion(t *testing.T) {
	cat, err := ParseCatalog([]byte(`{"plugins": []}`))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if len(cat.Plugins) != 0 {
		t.Errorf("plugins count = %d, want 0", len(cat.Plugins))
	}
}

func TestParseCatalogUnsupportedSchema(t *testing.T) {
	_, err := ParseCatalog([]byte(`{"schema_version": "9", "plugins": []}`))
	if err == nil {
		t.Fatal("expected error for unsupported schema version")
	}
}

func TestParseCatalogMalformed(t *testing.T) {
	_, err := ParseCatalog([]byte(`not json{{{`))
	if err == nil {
		t.Fatal("expected error for malformed catalog")
	}
}

func TestPriceDefaultsToZero(t *testing.T) {
	var p Plugin
	if p.Price() != 0 {
		t.Errorf("price = %v, want 0", p.Price())
	}
}

func TestConfigurationRoundTrip(t *testing.T) {
	in := []byte(`{"pricing":{"price":5,"model":"flat"},"custom":{"nested":true},"flag":"on"}`)

	var c Configuration
	if err := json.Unmarshal(in, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Pricing.Price != 5 {
		t.Errorf("price = %v, want 5", c.Pricing.Price)
	}

	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal round-trip: %v", err)
	}
	if decoded["flag"] != "on" {
		t.Errorf("flag = %v, want on", decoded["flag"])
	}
	custom, ok := decoded["custom"].(map[string]any)
	if !ok || custom["nested"] != true {
		t.Errorf("custom = %v, want nested map", decoded["custom"])
	}
}

func TestPluginLastUpdatedOptional(t *testing.T) {
	var p Plugin
	if err := json.Unmarshal([]byte(`{"id":"x","name":"X"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.LastUpdated.IsZero() {
		t.Errorf("last_updated = %v, want zero", p.LastUpdated)
	}

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	data := []byte(`{"id":"y","name":"Y","last_updated":"2026-03-01T12:00:00Z"}`)
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.LastUpdated.Equal(ts) {
		t.Errorf("last_updated = %v, want %v", p.LastUpdated, ts)
	}
}
