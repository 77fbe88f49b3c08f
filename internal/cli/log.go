// Package cli implements the clawctl command-line interface.
//
// Commands are grouped by what they touch:
//   - tokens, stats, upload, launch, rate-limit: the Clawnch REST API
//   - fees, burn, wallet: Base (writes need PRIVATE_KEY)
//   - molten: agent matching (needs MOLTEN_API_KEY except for register)
//   - history, cache, config: local state
//
// Results go to stdout as text, or as JSON or YAML with --output. Logs,
// spinners and prompts go to stderr so piping stdout stays clean.
//
// The logger travels in the command context. Chain writes and post
// submissions log their duration at debug level, visible with --verbose.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          appName,
		Level:           level,
	})
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to the package default logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// opTimer measures one remote operation such as a claim or a burn.
type opTimer struct {
	logger *log.Logger
	op     string
	kv     []any
	start  time.Time
}

// startOp begins timing op. kv are extra key/value pairs logged on finish.
func startOp(ctx context.Context, op string, kv ...any) *opTimer {
	return &opTimer{logger: loggerFromContext(ctx), op: op, kv: kv, start: time.Now()}
}

// finish logs the outcome of the operation. Failures are logged at debug
// level too, since the error itself is reported to the user separately.
func (t *opTimer) finish(err error) {
	kv := append([]any{"took", time.Since(t.start).Round(time.Millisecond)}, t.kv...)
	if err != nil {
		kv = append(kv, "err", err)
		t.logger.Debug(t.op+" failed", kv...)
		return
	}
	t.logger.Debug(t.op+" done", kv...)
}
