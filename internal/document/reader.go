package document

import (
	"errors"
	"fmt"
	"io"
)

// countingReader tracks bytes read and fails once more than limit bytes
// have passed through it.
type countingReader struct {
	reader    io.Reader
	BytesRead int64
	Limit     int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Limit > 0 && r.BytesRead > r.Limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, r.Limit)
	}
	return n, err
}

// readLimited reads all of r, returning ErrTooLarge when it holds more than
// limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	cr := &countingReader{reader: r, Limit: limit}
	data, err := io.ReadAll(cr)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}
