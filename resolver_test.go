package vellum

import (
	"errors"
	"strings"
	"testing"
)

func testConnections() []VendorConnection {
	return []VendorConnection{
		{
			ID:      "conn-anthropic",
			Name:    "Work Anthropic",
			Vendor:  VendorAnthropic,
			APIKey:  "sk-ant-test",
			Enabled: true,
			Models:  []string{"claude-sonnet-4-20250514", "claude-3-5-haiku-20241022"},
		},
		{
			ID:      "conn-openai-disabled",
			Name:    "Old OpenAI",
			Vendor:  VendorOpenAI,
			APIKey:  "sk-old",
			Enabled: false,
			Models:  []string{"gpt-4o"},
		},
		{
			ID:      "conn-openai",
			Name:    "Personal OpenAI",
			Vendor:  VendorOpenAI,
			APIKey:  "sk-new",
			Enabled: true,
			Models:  []string{"gpt-4o", "o3-mini"},
		},
		{
			ID:      "conn-lorem",
			Name:    "Offline",
			Vendor:  VendorLorem,
			Enabled: true,
			Models:  []string{"lorem-fast"},
		},
	}
}

func TestResolver_Resolve(t *testing.T) {
	resolver := NewResolver(NewStaticConnectionSource(testConnections()...), nil)

	t.Run("blank model fails before listing connections", func(t *testing.T) {
		errSource := &failingSource{}
		r := NewResolver(errSource, nil)
		_, err := r.Resolve("   ")
		if !errors.Is(err, ErrInvalidModel) {
			t.Fatalf("error = %v, want ErrInvalidModel", err)
		}
		if errSource.called {
			t.Error("connection source consulted for a blank model")
		}
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := resolver.Resolve("gemini-2.5-pro")
		if !errors.Is(err, ErrNoConnectionForModel) {
			t.Fatalf("error = %v, want ErrNoConnectionForModel", err)
		}
		if !IsResolutionError(err) {
			t.Error("resolution failures should be classified as resolution errors")
		}
	})

	t.Run("match uses connection key and vendor default endpoint", func(t *testing.T) {
		resolved, err := resolver.Resolve("claude-sonnet-4-20250514")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if resolved.Connection.ID != "conn-anthropic" {
			t.Errorf("connection = %s, want conn-anthropic", resolved.Connection.ID)
		}
		if resolved.APIKey != "sk-ant-test" {
			t.Error("resolved key does not match the connection's key")
		}
		if resolved.BaseURL != VendorAnthropic.DefaultBaseURL() {
			t.Errorf("baseURL = %s, want vendor default", resolved.BaseURL)
		}
	})

	t.Run("disabled connections are skipped", func(t *testing.T) {
		resolved, err := resolver.Resolve("gpt-4o")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if resolved.Connection.ID != "conn-openai" {
			t.Errorf("connection = %s, want conn-openai (disabled one skipped)", resolved.Connection.ID)
		}
	})

	t.Run("first enabled match wins in stored order", func(t *testing.T) {
		conns := testConnections()
		// A second enabled connection advertising the same claude model.
		conns = append(conns, VendorConnection{
			ID: "conn-later", Vendor: VendorAnthropic, APIKey: "sk-later",
			Enabled: true, Models: []string{"claude-sonnet-4-20250514"},
		})
		r := NewResolver(NewStaticConnectionSource(conns...), nil)

		resolved, err := r.Resolve("claude-sonnet-4-20250514")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if resolved.Connection.ID != "conn-anthropic" {
			t.Errorf("connection = %s, want the earlier conn-anthropic", resolved.Connection.ID)
		}
	})

	t.Run("lorem needs no credential", func(t *testing.T) {
		resolved, err := resolver.Resolve("lorem-fast")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if resolved.APIKey != "" {
			t.Error("lorem should resolve without a credential")
		}
	})
}

func TestResolver_SecretFallback(t *testing.T) {
	conns := []VendorConnection{
		{ID: "c1", Vendor: VendorOpenAI, Enabled: true, Models: []string{"gpt-4o"}},
	}

	t.Run("missing credential", func(t *testing.T) {
		r := NewResolver(NewStaticConnectionSource(conns...), NewMemorySecretStore())
		_, err := r.Resolve("gpt-4o")
		if !errors.Is(err, ErrMissingCredential) {
			t.Fatalf("error = %v, want ErrMissingCredential", err)
		}
		if !IsAuthError(err) {
			t.Error("missing credentials should be classified as auth errors")
		}
	})

	t.Run("secret store fills empty connection key", func(t *testing.T) {
		secrets := NewMemorySecretStore()
		secrets.Set(VendorOpenAI, "sk-from-store")
		r := NewResolver(NewStaticConnectionSource(conns...), secrets)

		resolved, err := r.Resolve("gpt-4o")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if resolved.APIKey != "sk-from-store" {
			t.Error("resolved key does not match the stored secret")
		}
	})

	t.Run("connection key takes precedence over store", func(t *testing.T) {
		withKey := []VendorConnection{
			{ID: "c1", Vendor: VendorOpenAI, APIKey: "sk-conn", Enabled: true, Models: []string{"gpt-4o"}},
		}
		secrets := NewMemorySecretStore()
		secrets.Set(VendorOpenAI, "sk-from-store")
		r := NewResolver(NewStaticConnectionSource(withKey...), secrets)

		resolved, err := r.Resolve("gpt-4o")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if resolved.APIKey != "sk-conn" {
			t.Error("connection key should win over the secret store")
		}
	})

	t.Run("errors never echo key material", func(t *testing.T) {
		secrets := NewMemorySecretStore()
		secrets.Set(VendorAnthropic, "sk-ant-secret-value")
		other := []VendorConnection{
			{ID: "c1", Vendor: VendorOpenAI, Enabled: true, Models: []string{"gpt-4o"}},
		}
		r := NewResolver(NewStaticConnectionSource(other...), secrets)

		_, err := r.Resolve("gpt-4o")
		if err == nil {
			t.Fatal("expected an error")
		}
		if strings.Contains(err.Error(), "secret") || strings.Contains(err.Error(), "sk-") {
			t.Errorf("error message leaks credential material: %s", err)
		}
	})
}

func TestResolver_LMStudioEndpointPolicy(t *testing.T) {
	t.Run("hosted endpoint requires a key", func(t *testing.T) {
		conns := []VendorConnection{
			{ID: "c1", Vendor: VendorLMStudio, Enabled: true, Models: []string{"qwen2.5-7b"}},
		}
		r := NewResolver(NewStaticConnectionSource(conns...), nil)
		_, err := r.Resolve("qwen2.5-7b")
		if !errors.Is(err, ErrMissingCredential) {
			t.Fatalf("error = %v, want ErrMissingCredential for hosted endpoint", err)
		}
	})

	t.Run("custom endpoint needs no key", func(t *testing.T) {
		conns := []VendorConnection{
			{ID: "c1", Vendor: VendorLMStudio, BaseURL: "http://localhost:1234/v1",
				Enabled: true, Models: []string{"qwen2.5-7b"}},
		}
		r := NewResolver(NewStaticConnectionSource(conns...), nil)
		resolved, err := r.Resolve("qwen2.5-7b")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if resolved.BaseURL != "http://localhost:1234/v1" {
			t.Errorf("baseURL = %s, want the connection override", resolved.BaseURL)
		}
	})
}

// failingSource records whether the resolver consulted it.
type failingSource struct {
	called bool
}

func (s *failingSource) Connections() ([]VendorConnection, error) {
	s.called = true
	return nil, errors.New("source should not be consulted")
}
