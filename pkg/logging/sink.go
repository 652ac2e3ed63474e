package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sink receives action output one line at a time. Implementations must be safe
// to call from a goroutine other than the one that created them.
type Sink interface {
	Line(line string)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(line string)

func (f SinkFunc) Line(line string) { f(line) }

// Discard drops every line.
var Discard Sink = SinkFunc(func(string) {})

// Emit sends a line to sink, tolerating a nil sink.
func Emit(sink Sink, line string) {
	if sink != nil {
		sink.Line(line)
	}
}

type multiSink []Sink

func (m multiSink) Line(line string) {
	for _, s := range m {
		Emit(s, line)
	}
}

// Multi fans every line out to all given sinks in order.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

// WriterSink writes each line followed by a newline to w.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Line(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, line)
}

// AppLogName is the file FileSink appends to inside its directory.
const AppLogName = "app.log"

// FileSink appends "[HH:MM:SS] line" entries to an append-only log file. The
// file is opened and closed for every line.
type FileSink struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileSink returns a sink writing to dir/app.log, creating dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &FileSink{path: filepath.Join(dir, AppLogName), now: time.Now}, nil
}

// Path returns the log file location.
func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Line(line string) {
	if err := s.append(line); err != nil {
		LogError("Failed to append to %s: %v", s.path, err)
	}
}

func (s *FileSink) append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, werr := fmt.Fprintf(f, "%s\n", Stamp(s.now(), line))
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// Stamp formats a log entry as "[HH:MM:SS] message".
func Stamp(t time.Time, message string) string {
	return fmt.Sprintf("[%s] %s", t.Format("15:04:05"), message)
}
