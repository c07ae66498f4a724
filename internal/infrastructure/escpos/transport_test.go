package escpos

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterTransport_Send(t *testing.T) {
	var buf bytes.Buffer
	tr := NewWriterTransport(&buf)

	require.NoError(t, tr.Send(context.Background(), []byte{esc, '@'}))
	require.NoError(t, tr.Send(context.Background(), []byte("x")))
	assert.Equal(t, []byte{esc, '@', 'x'}, buf.Bytes())
}

func TestNetworkTransport_Send(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	tr := NewNetworkTransport(ln.Addr().String(), WithTimeout(2*time.Second))
	assert.Equal(t, ln.Addr().String(), tr.Addr())
	require.NoError(t, tr.Send(context.Background(), []byte("receipt")))

	select {
	case data := <-received:
		assert.Equal(t, "receipt", string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("printer did not receive data")
	}
}

func TestNetworkTransport_ConnectError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	tr := NewNetworkTransport(addr, WithTimeout(500*time.Millisecond))
	err = tr.Send(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to printer")
}

func TestEncoder_DecodeRoundTrip(t *testing.T) {
	enc := NewEncoder(19)
	assert.Equal(t, "Olá € ç", enc.Decode(enc.Encode("Olá € ç")))
	assert.True(t, SupportedCodePage(3))
	assert.False(t, SupportedCodePage(99))

	assert.True(t, enc.CanEncode("─ Olá €"))
	assert.False(t, enc.CanEncode("＝"))
	assert.False(t, NewEncoder(0).CanEncode("€"))

	fallback := NewEncoder(99)
	assert.Equal(t, []byte{0x87}, fallback.Encode("ç"))
}
