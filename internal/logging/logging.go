// Package logging builds the application logger. Output goes to a rotating
// file and, line by line, to a channel that feeds the in-app log pane.
package logging

import (
	"bytes"
	"io"
	"log"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const lineBufferSize = 256

// Options configures the log file.
type Options struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

// Logger is the application logger plus its line feed.
type Logger struct {
	*log.Logger
	Lines <-chan string

	file *lumberjack.Logger
	tee  *lineTee
}

// New opens the log file lazily (lumberjack creates it on first write).
func New(opts Options) *Logger {
	file := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	}
	return newLogger(file, file)
}

func newLogger(out io.Writer, file *lumberjack.Logger) *Logger {
	lines := make(chan string, lineBufferSize)
	tee := &lineTee{out: out, lines: lines}
	return &Logger{
		Logger: log.New(tee, "", log.LstdFlags|log.Lmicroseconds),
		Lines:  lines,
		file:   file,
		tee:    tee,
	}
}

// Close stops the line feed and closes the log file.
func (l *Logger) Close() error {
	l.tee.close()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// lineTee writes to out and publishes each complete line without blocking.
// Lines are dropped when the reader falls behind.
type lineTee struct {
	mu     sync.Mutex
	out    io.Writer
	lines  chan string
	closed bool
}

func (t *lineTee) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, err := t.out.Write(p)
	if !t.closed {
		for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
			select {
			case t.lines <- string(line):
			default:
			}
		}
	}
	return n, err
}

func (t *lineTee) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.lines)
	}
}
