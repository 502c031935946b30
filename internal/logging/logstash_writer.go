package logging

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// LogstashWriter mirrors log lines to a Logstash TCP input. Lines are queued
// and shipped by a background goroutine, so Write never waits on the network.
// When the queue is full or Logstash is unreachable, lines are dropped.
type LogstashWriter struct {
	addr          string
	dialTimeout   time.Duration
	writeTimeout  time.Duration
	retryInterval time.Duration

	lines chan []byte
	done  chan struct{}

	mu      sync.Mutex
	closed  bool
	dropped uint64
}

type Option func(*LogstashWriter)

// WithDialTimeout defaults to 2 seconds.
func WithDialTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) {
		w.dialTimeout = d
	}
}

// WithWriteTimeout defaults to 1 second.
func WithWriteTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) {
		w.writeTimeout = d
	}
}

// WithRetryInterval sets the pause after a failed dial or write. Defaults to
// 5 seconds.
func WithRetryInterval(d time.Duration) Option {
	return func(w *LogstashWriter) {
		w.retryInterval = d
	}
}

// WithQueueSize bounds the number of lines waiting to be shipped. Defaults to
// 1024.
func WithQueueSize(n int) Option {
	return func(w *LogstashWriter) {
		if n > 0 {
			w.lines = make(chan []byte, n)
		}
	}
}

func NewLogstashWriter(addr string, opts ...Option) (*LogstashWriter, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("logstash: empty address")
	}

	w := &LogstashWriter{
		addr:          addr,
		dialTimeout:   2 * time.Second,
		writeTimeout:  time.Second,
		retryInterval: 5 * time.Second,
		lines:         make(chan []byte, 1024),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.run()
	return w, nil
}

// Write implements io.Writer. It always reports the full length as written.
func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	line := make([]byte, len(p), len(p)+1)
	copy(line, p)
	if line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, io.ErrClosedPipe
	}

	select {
	case w.lines <- line:
	default:
		w.dropped++
	}
	return len(p), nil
}

// Dropped reports how many lines were discarded because the queue was full.
func (w *LogstashWriter) Dropped() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

// Close stops accepting lines and waits for queued ones to be flushed or
// dropped.
func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.lines)
	w.mu.Unlock()

	<-w.done
	return nil
}

func (w *LogstashWriter) run() {
	defer close(w.done)

	var (
		conn      net.Conn
		nextRetry time.Time
	)
	defer func() {
		if conn != nil {
			_ = conn.Close()
		}
	}()

	for line := range w.lines {
		if conn == nil {
			if time.Now().Before(nextRetry) {
				continue
			}
			c, err := net.DialTimeout("tcp", w.addr, w.dialTimeout)
			if err != nil {
				nextRetry = time.Now().Add(w.retryInterval)
				continue
			}
			conn = c
		}

		if w.writeTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
		}
		if _, err := conn.Write(line); err != nil {
			_ = conn.Close()
			conn = nil
			nextRetry = time.Now().Add(w.retryInterval)
		}
	}
}
