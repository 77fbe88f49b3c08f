package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.WarnLevel)

	l.Info("fetched tokens")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}

	l.Warn("rate limited")
	out := buf.String()
	if !strings.Contains(out, "rate limited") || !strings.Contains(out, appName) {
		t.Errorf("output = %q, want message and %q prefix", out, appName)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield the default logger")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestOpTimer(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		err   error
		want  []string
	}{
		{"success", log.DebugLevel, nil, []string{"burn done", "took=", "amount=1000"}},
		{"failure", log.DebugLevel, errors.New("reverted"), []string{"burn failed", "err=reverted"}},
		{"hidden at info", log.InfoLevel, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := withLogger(context.Background(), newLogger(&buf, tt.level))

			startOp(ctx, "burn", "amount", "1000").finish(tt.err)

			if tt.want == nil {
				if buf.Len() != 0 {
					t.Errorf("unexpected output %q", buf.String())
				}
				return
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q missing %q", buf.String(), w)
				}
			}
		})
	}
}
