package vellum

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// connectionsFile is the YAML shape of a connection list:
//
//	connections:
//	  - name: "Work OpenAI"
//	    vendor: openai
//	    models: [gpt-4o, o3-mini]
//	  - name: "Local LM Studio"
//	    vendor: lmstudio
//	    base_url: http://localhost:1234/v1
//	    models: [qwen2.5-14b-instruct]
type connectionsFile struct {
	Connections []VendorConnection `yaml:"connections"`
}

// LoadConnectionsFromFile reads a YAML connection list into a
// StaticConnectionSource. Missing IDs are filled with fresh UUIDs and missing
// timestamps with the load time; stored order is preserved, which is what
// makes resolution deterministic.
func LoadConnectionsFromFile(path string) (*StaticConnectionSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read connections file: %w", err)
	}

	var file connectionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connections: %w", err)
	}

	now := time.Now().UTC()
	for i := range file.Connections {
		c := &file.Connections[i]
		if !c.Vendor.IsValid() {
			return nil, fmt.Errorf("connection %q: unknown vendor %q", c.Name, c.Vendor)
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = now
		}
	}

	return NewStaticConnectionSource(file.Connections...), nil
}
