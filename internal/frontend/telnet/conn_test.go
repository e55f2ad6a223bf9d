package telnet

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// pipeConn returns a Conn over one end of an in-memory pipe and the other end.
func pipeConn(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return NewConn(server, time.Second, time.Second), client
}

func feed(t *testing.T, client net.Conn, data []byte) {
	t.Helper()
	go func() { _, _ = client.Write(data) }()
}

func TestReadLine_StripsCommands(t *testing.T) {
	conn, client := pipeConn(t)
	input := []byte{IAC, WILL, OptEcho, 'r', IAC, NOP, 'o', IAC, SB, 24, 0, 'x', IAC, SE, 'l', 'l', '\r', '\n'}
	feed(t, client, input)

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "roll", line)
}

func TestReadLine_Terminators(t *testing.T) {
	conn, client := pipeConn(t)
	feed(t, client, []byte("save\r\x00load x\nhelp\r\n"))

	for _, want := range []string{"save", "load x", "help"} {
		line, err := conn.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
}

func TestReadLine_KeepsJapanese(t *testing.T) {
	conn, client := pipeConn(t)
	feed(t, client, []byte("  リプレイ\r\n"))
	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "リプレイ", line)
}

func TestReadLine_DropsInvalidUTF8(t *testing.T) {
	conn, client := pipeConn(t)
	feed(t, client, []byte{'a', 0xC3, 'b', '\n'})
	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "ab", line)
}

func TestWriteLine_TranslatesNewlines(t *testing.T) {
	conn, client := pipeConn(t)
	go func() { _ = conn.WriteLine("1位\nおめでとう") }()

	buf := make([]byte, 64)
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	n, err := client.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "1位\r\nおめでとう\r\n", string(buf[:n]))
}

func TestPropertyCRLF_NoBareLineFeeds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[a-z\r\n]{0,30}`).Draw(t, "text")
		out := crlf(s)
		for i := 0; i < len(out); i++ {
			if out[i] == '\n' && (i == 0 || out[i-1] != '\r') {
				t.Fatalf("bare LF in %q", out)
			}
		}
		assert.Equal(t, strings.Count(s, "\n"), strings.Count(out, "\n"))
	})
}
