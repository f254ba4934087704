package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"password", "hunter22",
		"refresh_token", "abc",
		"Authorization", "Bearer x",
		"order_id", 42,
	})
	if len(out) != 8 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	for i := 1; i < 6; i += 2 {
		if out[i] != "[REDACTED]" {
			t.Fatalf("key %v not redacted: %v", out[i-1], out[i])
		}
	}
	if out[7] != 42 {
		t.Fatalf("order_id changed: %v", out[7])
	}
}

func TestSanitizeKVsHashesCustomerIdentifiers(t *testing.T) {
	out := sanitizeKVs([]interface{}{"email", "jane@example.com", "customer_id", "c-1"})
	for i := 1; i < len(out); i += 2 {
		s, ok := out[i].(string)
		if !ok || !strings.HasPrefix(s, "hash:") {
			t.Fatalf("value for %v not hashed: %v", out[i-1], out[i])
		}
	}
	again := sanitizeKVs([]interface{}{"email", "jane@example.com"})
	if again[1] != out[1] {
		t.Fatalf("hash not stable: %v vs %v", again[1], out[1])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %#v", out)
	}
}

func TestJWTValuesAreRedactedUnderAnyKey(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	out := sanitizeKVs([]interface{}{"value", jwt})
	if out[1] != "[REDACTED]" {
		t.Fatalf("jwt leaked: %v", out[1])
	}
}
