package logging

import (
	"strings"
	"testing"
)

func TestAnonymizeSession(t *testing.T) {
	hashed := AnonymizeSession("user-42:channel-7")

	if !strings.HasPrefix(hashed, "session:") {
		t.Errorf("expected session: prefix, got %q", hashed)
	}
	if strings.Contains(hashed, "user-42") {
		t.Error("raw session id must not appear in the hashed form")
	}
	if len(hashed) != len("session:")+16 {
		t.Errorf("expected 8-byte hex hash, got %q", hashed)
	}

	// Stable: the same id always hashes the same, so logs correlate.
	if hashed != AnonymizeSession("user-42:channel-7") {
		t.Error("expected a stable hash")
	}
	if hashed == AnonymizeSession("user-43:channel-7") {
		t.Error("different sessions must hash differently")
	}
}

func TestAnonymizeSessionEmpty(t *testing.T) {
	if got := AnonymizeSession(""); got != "" {
		t.Errorf("expected empty string for empty session id, got %q", got)
	}
}

func TestErrNil(t *testing.T) {
	attr := Err(nil)
	if attr.Key != "" {
		t.Errorf("expected an empty attribute for nil error, got %v", attr)
	}
}

func TestSessionHashAttr(t *testing.T) {
	attr := SessionHash("user-42:channel-7")
	if attr.Key != KeySessionHash {
		t.Errorf("unexpected key %q", attr.Key)
	}
	if strings.Contains(attr.Value.String(), "user-42") {
		t.Error("raw session id must not appear in the attribute value")
	}
}
