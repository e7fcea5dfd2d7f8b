package client

import "testing"

func TestAuth_Bearer(t *testing.T) {
	h, ok := BearerAuth("tok-42").header()
	if !ok {
		t.Fatal("expected a header")
	}
	if h.Name != "Authorization" || h.Value != "Bearer tok-42" {
		t.Errorf("unexpected header: %+v", h)
	}
}

func TestAuth_Basic(t *testing.T) {
	h, ok := BasicAuth("user", "pass").header()
	if !ok {
		t.Fatal("expected a header")
	}
	if h.Name != "Authorization" || h.Value != "Basic dXNlcjpwYXNz" {
		t.Errorf("unexpected header: %+v", h)
	}
}

func TestAuth_APIKey(t *testing.T) {
	h, ok := APIKeyAuth("secret").header()
	if !ok {
		t.Fatal("expected a header")
	}
	if h.Name != "X-API-Key" || h.Value != "secret" {
		t.Errorf("unexpected header: %+v", h)
	}

	h, ok = APIKeyAuthHeader("secret", "X-Custom-Key").header()
	if !ok || h.Name != "X-Custom-Key" {
		t.Errorf("expected custom header name, got %+v", h)
	}
}

func TestAuth_None(t *testing.T) {
	if _, ok := (&AuthConfig{}).header(); ok {
		t.Error("AuthNone must not produce a header")
	}
	var nilCfg *AuthConfig
	if _, ok := nilCfg.header(); ok {
		t.Error("nil config must not produce a header")
	}
}
