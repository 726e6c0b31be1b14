package redis

import "testing"

func TestNamespaced(t *testing.T) {
	if got := namespaced("", "catalog:featured"); got != "catalog:featured" {
		t.Errorf("empty namespace changed key: %q", got)
	}
	if got := namespaced("jarrib", RateLimitKey(42)); got != "jarrib:ratelimit:user:42" {
		t.Errorf("namespaced = %q", got)
	}
}

func TestTempKeysAreScopedPerChat(t *testing.T) {
	if tempKey(1, "draft") == tempKey(2, "draft") {
		t.Error("temp keys collide across chats")
	}
}
