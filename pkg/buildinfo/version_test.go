package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} "+Version) {
		t.Errorf("Template() = %q, want version first", got)
	}
	if !strings.HasSuffix(got, runtime.GOOS+"/"+runtime.GOARCH+"\n") {
		t.Errorf("Template() = %q, want platform suffix", got)
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "clawctl/") {
		t.Errorf("UserAgent() = %q", ua)
	}
	if !strings.Contains(ua, "("+runtime.GOOS+"/") {
		t.Errorf("UserAgent() = %q, want platform", ua)
	}
}
