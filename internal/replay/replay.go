// Package replay turns a dice history into a shareable token and back.
//
// A token is the unpadded URL-safe base64 of a zlib stream whose first byte
// is the format version and whose remaining bytes are die faces.
package replay

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Version is the token format written by Encode.
const Version byte = 1

// MaxFace is the largest face a token can carry.
const MaxFace = 255

var (
	ErrUnknownVersion = errors.New("replay: unknown token version")
	ErrMalformed      = errors.New("replay: malformed token")
	ErrFaceOutOfRange = errors.New("replay: face out of range")
)

// Encode packs history into a token.
//
// Precondition: every face is in 1..MaxFace.
// Postcondition: Decode(Encode(h)) == h.
func Encode(history []int) (string, error) {
	raw := make([]byte, 0, len(history)+1)
	raw = append(raw, Version)
	for i, f := range history {
		if f < 1 || f > MaxFace {
			return "", fmt.Errorf("%w: index %d face %d", ErrFaceOutOfRange, i, f)
		}
		raw = append(raw, byte(f))
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", fmt.Errorf("replay: creating compressor: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return "", fmt.Errorf("replay: compressing: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("replay: compressing: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode unpacks a token produced by Encode.
func Decode(token string) ([]int, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformed)
	}
	if raw[0] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, raw[0])
	}
	history := make([]int, len(raw)-1)
	for i, b := range raw[1:] {
		if b == 0 {
			return nil, fmt.Errorf("%w: zero face at index %d", ErrMalformed, i)
		}
		history[i] = int(b)
	}
	return history, nil
}
