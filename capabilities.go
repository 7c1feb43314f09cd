package vellum

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/capabilities/anthropic.yaml
var anthropicCapabilitiesYAML []byte

//go:embed config/capabilities/openai.yaml
var openaiCapabilitiesYAML []byte

//go:embed config/capabilities/google.yaml
var googleCapabilitiesYAML []byte

// Capabilities Philosophy:
//
// This package provides MODEL METADATA for budget clamping and informational
// purposes. It does NOT enforce validation - vendor APIs are the source of truth.
//
// Use cases:
//   - Clamp computed token budgets to a model's documented output capacity
//   - Display model limits in UI
//   - Provide warnings (not errors)
//
// Capabilities may be outdated as vendors release new models. Library users
// can override embedded capabilities by:
//  1. Calling LoadCapabilitiesFromFile() with custom YAML
//  2. Calling RegisterVendorCapabilities() programmatically

// VendorCapabilities represents the capability configuration for one vendor.
type VendorCapabilities struct {
	Version     string                     `yaml:"version"`      // Semantic version (e.g., "1.0.0")
	LastUpdated string                     `yaml:"last_updated"` // ISO 8601 date
	Vendor      string                     `yaml:"vendor"`
	Models      map[string]ModelCapability `yaml:"models"`
}

// ModelCapability represents the documented limits of a specific model.
type ModelCapability struct {
	ContextWindow   int           `yaml:"context_window"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	Features        ModelFeatures `yaml:"features"`
}

// ModelFeatures indicates which features a model supports.
type ModelFeatures struct {
	Thinking  bool `yaml:"thinking"`
	Streaming bool `yaml:"streaming"`
}

// CapabilityRegistry manages vendor capabilities.
type CapabilityRegistry struct {
	capabilities map[string]*VendorCapabilities
	mu           sync.RWMutex
}

var (
	globalRegistry     *CapabilityRegistry
	globalRegistryOnce sync.Once
)

// GetCapabilityRegistry returns the global capability registry (singleton).
func GetCapabilityRegistry() *CapabilityRegistry {
	globalRegistryOnce.Do(func() {
		globalRegistry = &CapabilityRegistry{
			capabilities: make(map[string]*VendorCapabilities),
		}
		for _, raw := range [][]byte{anthropicCapabilitiesYAML, openaiCapabilitiesYAML, googleCapabilitiesYAML} {
			if err := globalRegistry.loadEmbedded(raw); err != nil {
				// Budget clamping falls back to family defaults when a
				// vendor's capabilities are unavailable.
				fmt.Fprintf(os.Stderr, "vellum: failed to load embedded capabilities: %v\n", err)
			}
		}
	})
	return globalRegistry
}

func (r *CapabilityRegistry) loadEmbedded(raw []byte) error {
	var caps VendorCapabilities
	if err := yaml.Unmarshal(raw, &caps); err != nil {
		return fmt.Errorf("unmarshal capabilities: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[caps.Vendor] = &caps
	return nil
}

// GetVendorCapabilities returns capabilities for a vendor.
func (r *CapabilityRegistry) GetVendorCapabilities(vendor VendorID) (*VendorCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.capabilities[vendor.String()]
	if !ok {
		return nil, fmt.Errorf("no capabilities found for vendor: %s", vendor)
	}
	return caps, nil
}

// GetModelCapability returns capabilities for a specific model under a vendor.
func (r *CapabilityRegistry) GetModelCapability(vendor VendorID, model string) (*ModelCapability, error) {
	vendorCaps, err := r.GetVendorCapabilities(vendor)
	if err != nil {
		return nil, err
	}

	modelCap, ok := vendorCaps.Models[baseModelName(model)]
	if !ok {
		return nil, fmt.Errorf("model %s not found for vendor %s", model, vendor)
	}
	return &modelCap, nil
}

// MaxOutputTokens looks a model up across every vendor's capability table.
// Vendor prefixes on the identifier are ignored.
func (r *CapabilityRegistry) MaxOutputTokens(model string) (int, bool) {
	base := baseModelName(model)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, caps := range r.capabilities {
		if mc, ok := caps.Models[base]; ok {
			return mc.MaxOutputTokens, true
		}
	}
	return 0, false
}

// SupportsThinking checks if a model is marked thinking-capable in the
// capability tables. Unknown models report false; IsReasoningModel is the
// pattern-based classifier that also covers unlisted models.
func (r *CapabilityRegistry) SupportsThinking(vendor VendorID, model string) bool {
	modelCap, err := r.GetModelCapability(vendor, model)
	if err != nil {
		return false
	}
	return modelCap.Features.Thinking
}

// LoadCapabilitiesFromFile loads vendor capabilities from a YAML file.
// This allows library users to override embedded capabilities with custom data.
func (r *CapabilityRegistry) LoadCapabilitiesFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read capabilities file: %w", err)
	}

	var caps VendorCapabilities
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return fmt.Errorf("failed to unmarshal capabilities: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[caps.Vendor] = &caps
	return nil
}

// RegisterVendorCapabilities programmatically registers vendor capabilities.
func (r *CapabilityRegistry) RegisterVendorCapabilities(vendor VendorID, caps *VendorCapabilities) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[vendor.String()] = caps
}

// LoadCapabilitiesFromFile is a convenience wrapper over the global registry.
func LoadCapabilitiesFromFile(path string) error {
	return GetCapabilityRegistry().LoadCapabilitiesFromFile(path)
}

// RegisterVendorCapabilities is a convenience wrapper over the global registry.
func RegisterVendorCapabilities(vendor VendorID, caps *VendorCapabilities) {
	GetCapabilityRegistry().RegisterVendorCapabilities(vendor, caps)
}
