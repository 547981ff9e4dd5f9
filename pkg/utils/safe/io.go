package safe

import (
	"context"
	"io"

	"github.com/secmon-lab/riskregister/pkg/utils/logging"
)

// Close closes closer, logging instead of returning the error. A nil closer
// is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logFailure(ctx, "close", err)
	}
}

// Write writes data to w. Failures, typically a client that went away mid
// response, are only logged.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if n, err := w.Write(data); err != nil {
		logFailure(ctx, "write", err, "written", n, "size", len(data))
	}
}

// Copy streams src into dst and returns the number of bytes copied.
func Copy(ctx context.Context, dst io.Writer, src io.Reader) int64 {
	n, err := io.Copy(dst, src)
	if err != nil {
		logFailure(ctx, "copy", err, "written", n)
	}
	return n
}

func logFailure(ctx context.Context, op string, err error, args ...any) {
	args = append([]any{"op", op, "error", err}, args...)
	logging.From(ctx).Error("I/O operation failed", args...)
}
