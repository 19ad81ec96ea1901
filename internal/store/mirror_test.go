// ABOUTME: Tests for the best-effort mirror adapter in degraded mode
// ABOUTME: A missing or unreachable mirror must never produce errors or panics

package store

import (
	"testing"
)

func TestMirrorDisabledWithoutURL(t *testing.T) {
	m := NewMirrorStore(MirrorConfig{})
	if m.Available() {
		t.Error("mirror without URL should be unavailable")
	}
}

func TestMirrorUnreachable(t *testing.T) {
	m := NewMirrorStore(MirrorConfig{
		URL:       "ws://127.0.0.1:1/rpc",
		Namespace: "test",
		Database:  "test",
		User:      "root",
		Pass:      "root",
	})
	if m.Available() {
		t.Error("mirror on a closed port should be unavailable")
	}
}

func TestMirrorDegradedWritesAreNoOps(t *testing.T) {
	m := NewMirrorStore(MirrorConfig{})

	// None of these may panic or block when the mirror is down.
	m.Upsert("user_pets", "user-1", map[string]any{"user_id": "user-1"})
	m.Delete("user_pets", "user-1")
	if m.Ping() {
		t.Error("ping should fail when unavailable")
	}
	m.Close()

	// Close is safe to repeat.
	m.Close()
}

func TestRecordID(t *testing.T) {
	got := recordID("user_pets", "user-1")
	want := "user_pets:⟨user-1⟩"
	if got != want {
		t.Errorf("recordID mismatch: got %q, want %q", got, want)
	}
}
