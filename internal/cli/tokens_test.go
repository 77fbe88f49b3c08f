package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		in   string
		want string
	}{
		{now.Add(-10 * time.Second).Format(time.RFC3339), "just now"},
		{now.Add(-5 * time.Minute).Format(time.RFC3339), "5m ago"},
		{now.Add(-3 * time.Hour).Format(time.RFC3339), "3h ago"},
		{now.Add(-50 * time.Hour).Format(time.RFC3339), "2d ago"},
		{"2024-01-15T10:00:00Z", "Jan 15, 2024"},
		{"yesterday", "yesterday"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRelativeTime(tt.in), tt.in)
	}
}

func TestCompletionCommand(t *testing.T) {
	h := newHarness(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, _, err := h.run("", "completion", shell)
		assert.NoError(t, err, shell)
		assert.Contains(t, out, "clawctl", shell)
	}

	_, _, err := h.run("", "completion", "tcsh")
	assert.Error(t, err)
}
