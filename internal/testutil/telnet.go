package testutil

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// TelnetClient is a minimal telnet client for driving a server in tests.
// Option negotiation from the server is discarded.
type TelnetClient struct {
	t      testing.TB
	conn   net.Conn
	reader *bufio.Reader
	// seen holds text read but not yet consumed by ReadUntil.
	seen bytes.Buffer
}

// NewTelnetClient dials addr or fails the test. The connection is closed
// on cleanup.
func NewTelnetClient(t testing.TB, addr string) *TelnetClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v", addr, err)
	}
	t.Cleanup(func() { conn.Close() })
	return &TelnetClient{t: t, conn: conn, reader: bufio.NewReader(conn)}
}

// ReadUntil reads until substr has been seen and returns everything up to
// and including it. Text after the match is kept for the next call.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	for {
		if i := strings.Index(c.seen.String(), substr); i >= 0 {
			all := c.seen.String()
			c.seen.Reset()
			c.seen.WriteString(all[i+len(substr):])
			return all[:i+len(substr)]
		}
		b, err := c.reader.ReadByte()
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, c.seen.String(), err)
		}
		if b == 255 {
			c.skipCommand()
			continue
		}
		c.seen.WriteByte(b)
	}
}

func (c *TelnetClient) skipCommand() {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return
	}
	if cmd >= 251 && cmd <= 254 {
		_, _ = c.reader.ReadByte()
	}
}

// Send writes text followed by CRLF.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Close closes the connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
