package escpos

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// Transport delivers a finished command stream to a printer
type Transport interface {
	Send(ctx context.Context, data []byte) error
}

// NetworkTransport writes to a printer listening on a raw TCP port
// (usually 9100)
type NetworkTransport struct {
	addr    string
	timeout time.Duration
	dialer  net.Dialer
}

// NetworkOption configures a NetworkTransport
type NetworkOption func(*NetworkTransport)

// WithTimeout bounds dialing and writing
func WithTimeout(d time.Duration) NetworkOption {
	return func(t *NetworkTransport) {
		t.timeout = d
	}
}

// NewNetworkTransport creates a transport for host:port
func NewNetworkTransport(addr string, opts ...NetworkOption) *NetworkTransport {
	t := &NetworkTransport{addr: addr, timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(t)
	}
	t.dialer.Timeout = t.timeout
	return t
}

// Addr returns the printer address
func (t *NetworkTransport) Addr() string {
	return t.addr
}

// Send opens a connection, writes data and closes it
func (t *NetworkTransport) Send(ctx context.Context, data []byte) error {
	conn, err := t.dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("connect to printer %s: %w", t.addr, err)
	}
	defer conn.Close()

	if t.timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(t.timeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("write to printer %s: %w", t.addr, err)
	}
	return nil
}

// WriterTransport writes streams to an io.Writer such as a file, a device
// node or stdout
type WriterTransport struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterTransport wraps w
func NewWriterTransport(w io.Writer) *WriterTransport {
	return &WriterTransport{w: w}
}

// Send writes data in one call
func (t *WriterTransport) Send(_ context.Context, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.w.Write(data); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
