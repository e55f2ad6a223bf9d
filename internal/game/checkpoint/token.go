package checkpoint

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrMalformedToken is returned by Unpack for input that is not a packed snapshot.
var ErrMalformedToken = errors.New("checkpoint: malformed token")

// maxUnpacked bounds the inflated size of a token.
const maxUnpacked = 1 << 20

// Pack renders a snapshot as a single line of unpadded URL-safe base64 over
// zlib, suitable for a terminal or a chat message.
//
// Postcondition: Unpack(Pack(data)) == data.
func Pack(data []byte) (string, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", fmt.Errorf("checkpoint: creating compressor: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("checkpoint: compressing: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("checkpoint: compressing: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Unpack reverses Pack. The result still has to go through Decode.
func Unpack(token string) ([]byte, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	defer r.Close()
	data, err := io.ReadAll(io.LimitReader(r, maxUnpacked+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if len(data) > maxUnpacked {
		return nil, fmt.Errorf("%w: snapshot larger than %d bytes", ErrMalformedToken, maxUnpacked)
	}
	return data, nil
}
