package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String()
	if !strings.HasPrefix(got, "pqtool "+GetVersion()) {
		t.Errorf("unexpected version line %q", got)
	}
	if !strings.Contains(got, GetBuildDate()) {
		t.Errorf("version line %q lacks build date", got)
	}
}
