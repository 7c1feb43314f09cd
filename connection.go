package vellum

import (
	"time"

	"github.com/google/uuid"
)

// VendorConnection is a user-configured pairing of a vendor, a credential, and
// the set of models it is permitted to serve.
//
// Connections are owned by the embedding application (settings UI, config
// files); this library only reads them. At most one connection is
// authoritative for a given model: when several enabled connections advertise
// the same model, the first one in stored order wins.
type VendorConnection struct {
	// ID uniquely identifies the connection (UUID by convention)
	ID string `json:"id" yaml:"id"`

	// Name is the user-facing display name (e.g., "Work OpenAI account")
	Name string `json:"name" yaml:"name"`

	// Vendor tags which API family this connection speaks
	Vendor VendorID `json:"vendor" yaml:"vendor"`

	// APIKey is the stored credential. May be empty, in which case the
	// resolver falls back to the secret store keyed by vendor tag.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the vendor's default endpoint (proxies, local servers).
	// Empty means the vendor's well-known hosted endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Enabled connections participate in model resolution; disabled ones are
	// skipped entirely.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Models is the ordered list of model identifiers this connection serves.
	Models []string `json:"models" yaml:"models"`

	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ServesModel returns true if the connection advertises the exact model identifier.
func (c *VendorConnection) ServesModel(model string) bool {
	for _, m := range c.Models {
		if m == model {
			return true
		}
	}
	return false
}

// EffectiveBaseURL returns the connection's endpoint override, or the vendor's
// default hosted endpoint when no override is set.
func (c *VendorConnection) EffectiveBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return c.Vendor.DefaultBaseURL()
}

// NewVendorConnection creates an enabled connection with a fresh UUID and timestamps.
func NewVendorConnection(name string, vendor VendorID, models ...string) VendorConnection {
	now := time.Now().UTC()
	return VendorConnection{
		ID:        uuid.NewString(),
		Name:      name,
		Vendor:    vendor,
		Enabled:   true,
		Models:    models,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ConnectionSource yields the configured vendor connections in stored order.
// Implementations are read-only from this library's perspective; writes and
// write-concurrency are the embedding application's concern.
type ConnectionSource interface {
	Connections() ([]VendorConnection, error)
}

// StaticConnectionSource is an in-memory ConnectionSource.
type StaticConnectionSource struct {
	conns []VendorConnection
}

// NewStaticConnectionSource wraps a fixed connection list.
func NewStaticConnectionSource(conns ...VendorConnection) *StaticConnectionSource {
	return &StaticConnectionSource{conns: conns}
}

// Connections returns the configured connections in stored order.
func (s *StaticConnectionSource) Connections() ([]VendorConnection, error) {
	return s.conns, nil
}
