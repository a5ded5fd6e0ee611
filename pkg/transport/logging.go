package transport

import (
	"log/slog"

	"gitwire/pkg/pktline"
)

type loggingReader struct {
	inner  ExtendedReader
	logger *slog.Logger
}

// WithLogging wraps r so that every operation is logged at debug level. All
// operations are forwarded unchanged.
func WithLogging(r ExtendedReader, logger *slog.Logger) ExtendedReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingReader{inner: r, logger: logger.With("comp", "pktline-reader")}
}

func (l *loggingReader) Read(p []byte) (int, error) {
	n, err := l.inner.Read(p)
	l.logger.Debug("read", "bytes", n, "error", err)
	return n, err
}

func (l *loggingReader) ReadLine() (pktline.Line, error) {
	line, err := l.inner.ReadLine()
	l.logger.Debug("read line", "kind", line.Kind, "len", len(line.Data), "error", err)
	return line, err
}

func (l *loggingReader) SetProgressHandler(h ProgressHandler) {
	l.logger.Debug("set progress handler", "installed", h != nil)
	l.inner.SetProgressHandler(h)
}

func (l *loggingReader) PeekDataLine() ([]byte, error) {
	data, err := l.inner.PeekDataLine()
	l.logger.Debug("peek data line", "len", len(data), "error", err)
	return data, err
}

func (l *loggingReader) Reset(version Protocol) {
	l.logger.Debug("reset", "protocol", version)
	l.inner.Reset(version)
}

func (l *loggingReader) StoppedAt() (MessageKind, bool) {
	return l.inner.StoppedAt()
}
