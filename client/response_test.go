package client

import (
	"testing"

	"github.com/kbukum/fetchkit/engine"
)

func TestResponse_HeaderLookup(t *testing.T) {
	resp := &Response{
		Headers: headerMultimap([]engine.Header{
			{Name: "content-type", Value: "application/json"},
			{Name: "Set-Cookie", Value: "a=1"},
			{Name: "set-cookie", Value: "b=2"},
		}),
	}

	if got := resp.Header("Content-Type"); got != "application/json" {
		t.Errorf("lookup should canonicalize, got %q", got)
	}
	if got := resp.Headers["Set-Cookie"]; len(got) != 2 || got[0] != "a=1" || got[1] != "b=2" {
		t.Errorf("duplicate values should keep arrival order, got %v", got)
	}
	if resp.Header("Missing") != "" {
		t.Error("missing header should return empty string")
	}
}

func TestResponse_StatusClasses(t *testing.T) {
	if !(&Response{StatusCode: 204}).IsSuccess() {
		t.Error("204 is a success")
	}
	if (&Response{StatusCode: 302}).IsSuccess() {
		t.Error("302 is not a success")
	}
	if !(&Response{StatusCode: 302}).IsRedirect() {
		t.Error("302 is a redirect")
	}
	if (&Response{StatusCode: 200}).IsRedirect() {
		t.Error("200 is not a redirect")
	}
}

func TestResponse_BytesNilBody(t *testing.T) {
	if got := (&Response{}).Bytes(); got != nil {
		t.Errorf("nil body should yield nil bytes, got %v", got)
	}
}
