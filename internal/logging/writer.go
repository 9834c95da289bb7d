package logging

import (
	"log/slog"
	"strings"
)

// Writer is an io.Writer implementation that forwards subprocess output to slog.
type Writer struct {
	logger *slog.Logger
	stream string
}

// NewWriter constructs a Writer bound to the provided logger. Stream labels
// the output source, usually "stdout" or "stderr".
func NewWriter(logger *slog.Logger, stream string) *Writer {
	return &Writer{logger: logger, stream: stream}
}

// Write logs every non-empty line of p at info level.
func (w *Writer) Write(p []byte) (int, error) {
	if w.logger == nil {
		return len(p), nil
	}
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		w.logger.Info("command output", "stream", w.stream, "line", line)
	}
	return len(p), nil
}
