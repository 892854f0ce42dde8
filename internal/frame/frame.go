package frame

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrIncomplete signals that the buffer does not hold a full frame yet.
	ErrIncomplete = errors.New("frame: no complete frame in buffer")
	// ErrNoFrame is returned by Decoder.Poll when more bytes are needed.
	ErrNoFrame = errors.New("frame: no frame available yet")
	// ErrConnectionLost reports a source that stopped while a partial frame
	// was still buffered.
	ErrConnectionLost = errors.New("frame: connection lost to device")
)

// Boundary describes where one frame sits inside an accumulated buffer.
//
// Skip is honoured on every outcome, including ErrIncomplete, so noise in
// front of a start marker is never scanned twice. Consumed counts every
// byte the frame occupies from the buffer head (Skip included).
type Boundary struct {
	Skip     int
	Payload  []byte
	Consumed int
}

// Boundarier finds frame boundaries in a byte stream.
type Boundarier interface {
	FindBoundary(buf []byte) (Boundary, error)
}

// Grammar recognizes and decodes one frame format into records of type T.
type Grammar[T any] interface {
	Boundarier
	Decode(payload []byte) (T, error)
}

// DecodeError wraps a grammar failure for a payload that was already
// removed from the buffer. The stream is still usable after one.
type DecodeError struct {
	Payload []byte
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("frame: decode %q: %v", e.Payload, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsRecoverable reports whether reading may continue after err.
func IsRecoverable(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Check extracts the next frame payload from buf. Leading noise reported by
// the grammar is dropped even when the frame is still incomplete. The
// returned payload does not alias buf.
func Check(buf *bytes.Buffer, g Boundarier) ([]byte, error) {
	payload, _, err := check(buf, g)
	return payload, err
}

func check(buf *bytes.Buffer, g Boundarier) ([]byte, int, error) {
	b, err := g.FindBoundary(buf.Bytes())
	skip := b.Skip
	if skip > buf.Len() {
		skip = buf.Len()
	}
	if err != nil {
		buf.Next(skip)
		return nil, skip, err
	}
	if b.Consumed < skip || b.Consumed > buf.Len() {
		buf.Next(skip)
		return nil, skip, fmt.Errorf("frame: boundary consumes %d of %d buffered bytes", b.Consumed, buf.Len())
	}
	payload := bytes.Clone(b.Payload)
	if payload == nil {
		payload = []byte{}
	}
	buf.Next(b.Consumed)
	return payload, skip, nil
}
