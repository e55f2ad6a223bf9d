package telnet

import (
	"bufio"
	"bytes"
	"net"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Telnet command and option bytes (RFC 854, RFC 858).
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	SE   byte = 240
	NOP  byte = 241
	GA   byte = 249

	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptLinemode        byte = 34
)

// MaxLineBytes caps one input line; longer input is truncated.
const MaxLineBytes = 4096

// Conn is one player's telnet connection.
//
// Reads are for the session goroutine only; writes may come from any
// goroutine.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader

	mu           sync.Mutex
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps raw. A zero timeout disables that deadline.
//
// Precondition: raw is open.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, MaxLineBytes),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate offers to suppress go-ahead. Line editing and echo stay with
// the client, so Japanese input is composed locally before it is sent.
func (c *Conn) Negotiate() error {
	return c.send([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine returns the next line without its terminator. Telnet commands
// and control characters are dropped, as are invalid UTF-8 sequences.
//
// Postcondition: the result is valid UTF-8 of at most MaxLineBytes bytes.
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return cleanLine(line.Bytes()), err
		}
		switch {
		case b == IAC:
			if err := c.skipCommand(); err != nil {
				return cleanLine(line.Bytes()), err
			}
		case b == '\n':
			return cleanLine(line.Bytes()), nil
		case b == '\r':
			if next, err := c.reader.Peek(1); err == nil && (next[0] == '\n' || next[0] == 0) {
				_, _ = c.reader.ReadByte()
			}
			return cleanLine(line.Bytes()), nil
		case b < 32 && b != '\t':
		default:
			if line.Len() < MaxLineBytes {
				line.WriteByte(b)
			}
		}
	}
}

func cleanLine(b []byte) string {
	s := string(b)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.TrimSpace(s)
}

// skipCommand consumes the rest of a command whose IAC was already read.
func (c *Conn) skipCommand() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}
	switch cmd {
	case WILL, WONT, DO, DONT:
		_, err := c.reader.ReadByte()
		return err
	case SB:
		prev := byte(0)
		for {
			b, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if prev == IAC && b == SE {
				return nil
			}
			prev = b
		}
	}
	return nil
}

// WriteLine writes text and a CRLF. Embedded newlines become CRLF too.
func (c *Conn) WriteLine(text string) error {
	return c.send([]byte(crlf(text) + "\r\n"))
}

// WritePrompt writes prompt without a line break.
func (c *Conn) WritePrompt(prompt string) error {
	return c.send([]byte(prompt))
}

func crlf(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}

func (c *Conn) send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(b)
	return err
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the client's address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
