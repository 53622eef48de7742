package middleware

import (
	"strings"
	"testing"
)

func TestRedactJSON(t *testing.T) {
	in := []byte(`{"email":"asha@example.com","password":"hunter22","nested":{"idToken":"eyJ.x.y"},"items":[{"Token":"abc"}]}`)
	out := redactJSON(in, 2000)

	for _, secret := range []string{"hunter22", "eyJ.x.y", `"abc"`} {
		if strings.Contains(out, secret) {
			t.Errorf("secret %q leaked: %s", secret, out)
		}
	}
	if !strings.Contains(out, "asha@example.com") {
		t.Errorf("non-sensitive field dropped: %s", out)
	}
	if strings.Count(out, redacted) != 3 {
		t.Errorf("expected 3 redactions, got %s", out)
	}
}

func TestRedactJSON_InvalidInput(t *testing.T) {
	out := redactJSON([]byte(`{"password":"hunter22"`), 2000)
	if strings.Contains(out, "hunter22") {
		t.Errorf("invalid json must not be echoed: %s", out)
	}
}

func TestToSafePreview(t *testing.T) {
	if got := toSafePreview([]byte{0xff, 0xfe}, 10); !strings.HasPrefix(got, "(non-utf8") {
		t.Errorf("unexpected preview %q", got)
	}
	if got := toSafePreview([]byte("abcdef"), 3); got != "abc…" {
		t.Errorf("unexpected truncation %q", got)
	}
}
