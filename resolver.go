package vellum

import (
	"fmt"
	"strings"
)

// ResolvedConnection is the outcome of model resolution: the matched
// connection, the credential to use (possibly from the secret store), and the
// effective endpoint.
type ResolvedConnection struct {
	Connection VendorConnection

	// APIKey is the credential to authenticate with. Empty only when the
	// vendor does not require one for the effective endpoint.
	APIKey string

	// BaseURL is the endpoint to call: the connection's override, or the
	// vendor default.
	BaseURL string
}

// Resolver finds the connection that serves a requested model and applies the
// credential policy. Both collaborators are injected; the resolver holds no
// ambient state and performs no writes beyond the secret-store read.
type Resolver struct {
	source  ConnectionSource
	secrets SecretStore
}

// NewResolver creates a resolver over the given connection source and secret
// store. secrets may be nil, in which case no credential fallback happens.
func NewResolver(source ConnectionSource, secrets SecretStore) *Resolver {
	return &Resolver{source: source, secrets: secrets}
}

// Resolve returns the first enabled connection (in stored order) advertising
// the model, with its credential resolved.
//
// Error taxonomy: ErrInvalidModel for blank identifiers (checked before the
// connection list is consulted), ErrNoConnectionForModel when nothing
// matches, ErrMissingCredential when a required key is absent after the
// secret-store fallback. Messages never echo key material.
func (r *Resolver) Resolve(model string) (*ResolvedConnection, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, &ResolutionError{
			Model:  model,
			Reason: "model identifier is empty",
			Err:    ErrInvalidModel,
		}
	}

	conns, err := r.source.Connections()
	if err != nil {
		return nil, fmt.Errorf("reading connection configuration: %w", err)
	}

	var match *VendorConnection
	for i := range conns {
		if !conns[i].Enabled {
			continue
		}
		if conns[i].ServesModel(model) {
			match = &conns[i]
			break
		}
	}
	if match == nil {
		return nil, &ResolutionError{
			Model:  model,
			Reason: "no enabled connection advertises this model",
			Err:    ErrNoConnectionForModel,
		}
	}

	key := strings.TrimSpace(match.APIKey)
	if key == "" && r.secrets != nil {
		if stored, ok := r.secrets.Get(match.Vendor); ok {
			key = strings.TrimSpace(stored)
		}
	}

	baseURL := match.EffectiveBaseURL()
	if key == "" && requiresCredential(match.Vendor, baseURL) {
		return nil, &ResolutionError{
			Model:  model,
			Vendor: match.Vendor,
			Reason: "credential required but none configured",
			Err:    ErrMissingCredential,
		}
	}

	return &ResolvedConnection{
		Connection: *match,
		APIKey:     key,
		BaseURL:    baseURL,
	}, nil
}

// requiresCredential applies the per-vendor authentication policy.
//
// LM Studio is the one vendor with an endpoint-dependent rule: its hosted
// endpoint needs a key, but a custom/local endpoint (the usual case for a
// self-hosted server) does not. The lorem mock never needs one.
func requiresCredential(vendor VendorID, baseURL string) bool {
	switch vendor {
	case VendorLorem:
		return false
	case VendorLMStudio:
		return baseURL == VendorLMStudio.DefaultBaseURL()
	default:
		return true
	}
}
