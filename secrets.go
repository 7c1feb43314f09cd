package vellum

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// SecretStore exposes credential lookup keyed by vendor tag.
// The gateway only ever reads secrets; it never writes or logs them,
// including on failure paths.
type SecretStore interface {
	// Get returns the credential for a vendor, and whether one is stored.
	Get(vendor VendorID) (string, bool)
}

// MemorySecretStore is a mutable in-memory SecretStore, safe for concurrent
// use. It mirrors the get/set/delete contract of the OS-keychain store used
// by desktop builds.
type MemorySecretStore struct {
	mu      sync.RWMutex
	secrets map[VendorID]string
}

// NewMemorySecretStore creates an empty secret store.
func NewMemorySecretStore() *MemorySecretStore {
	return &MemorySecretStore{secrets: make(map[VendorID]string)}
}

// Get returns the credential for a vendor, and whether one is stored.
func (s *MemorySecretStore) Get(vendor VendorID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.secrets[vendor]
	return key, ok && key != ""
}

// Set stores a credential for a vendor. Empty keys are rejected silently;
// use Delete to remove a credential.
func (s *MemorySecretStore) Set(vendor VendorID, key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[vendor] = key
}

// Delete removes a vendor's credential. Deleting an absent key is not an error.
func (s *MemorySecretStore) Delete(vendor VendorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, vendor)
}

// Vendors returns the vendor tags that currently have a credential stored.
func (s *MemorySecretStore) Vendors() []VendorID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]VendorID, 0, len(s.secrets))
	for v := range s.secrets {
		out = append(out, v)
	}
	return out
}

// envKeyNames maps vendor tags to the environment variables consulted, in order.
var envKeyNames = map[VendorID][]string{
	VendorAnthropic:  {"ANTHROPIC_API_KEY"},
	VendorOpenAI:     {"OPENAI_API_KEY"},
	VendorGoogle:     {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	VendorOpenRouter: {"OPENROUTER_API_KEY"},
	VendorLMStudio:   {"LMSTUDIO_API_KEY"},
}

// EnvSecretStore resolves credentials from environment variables
// (<VENDOR>_API_KEY). It optionally loads .env files first.
type EnvSecretStore struct{}

// NewEnvSecretStore creates an environment-backed secret store, loading the
// given .env files into the process environment. Missing files are ignored;
// existing environment variables are never overwritten (godotenv semantics).
func NewEnvSecretStore(envFiles ...string) *EnvSecretStore {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	return &EnvSecretStore{}
}

// Get returns the credential for a vendor from the environment.
func (s *EnvSecretStore) Get(vendor VendorID) (string, bool) {
	names := envKeyNames[vendor]
	if len(names) == 0 {
		names = []string{strings.ToUpper(vendor.String()) + "_API_KEY"}
	}
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, true
		}
	}
	return "", false
}
