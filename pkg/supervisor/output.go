package supervisor

import (
	"bytes"
	"log/slog"
	"sync"
)

// lineLogger is an io.Writer that logs every complete line of driver output.
type lineLogger struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	logger *slog.Logger
	stream string
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line: keep it for the next write.
			w.buf.Reset()
			w.buf.Write(line)
			break
		}
		w.emit(line)
	}
	return len(p), nil
}

func (w *lineLogger) emit(line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return
	}
	w.logger.Debug("driver output", "component", BinaryName, "stream", w.stream, "line", string(line))
}
