package jeelink

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/martinclaus/sensorflow/internal/frame"
)

const fieldCount = 5

var (
	startMarker = []byte("OK 9 ")
	endMarker   = []byte("\r\n")
)

var (
	ErrInvalidChars    = errors.New("jeelink: frame data contains invalid characters")
	ErrWrongFieldCount = errors.New("jeelink: wrong number of fields in frame")
	ErrInvalidField    = errors.New("jeelink: invalid field value")
)

// Grammar recognizes LaCrosse frames as emitted by the JeeLink firmware:
//
//	OK 9 <id> <flags1> <tempHi> <tempLo> <flags2>\r\n
type Grammar struct{}

var _ frame.Grammar[Reading] = Grammar{}

// FindBoundary implements frame.Boundarier. Bytes in front of the start
// marker are reported as Skip; a partial marker at the buffer tail is kept.
func (Grammar) FindBoundary(buf []byte) (frame.Boundary, error) {
	skip := 0
	for {
		if len(buf)-skip < len(startMarker) {
			return frame.Boundary{Skip: skip}, frame.ErrIncomplete
		}
		if bytes.HasPrefix(buf[skip:], startMarker) {
			break
		}
		skip++
	}

	start := skip + len(startMarker)
	end := bytes.Index(buf[start:], endMarker)
	if end < 0 {
		return frame.Boundary{Skip: skip}, frame.ErrIncomplete
	}
	end += start
	return frame.Boundary{
		Skip:     skip,
		Payload:  buf[start:end],
		Consumed: end + len(endMarker),
	}, nil
}

// Decode implements frame.Grammar.
func (Grammar) Decode(payload []byte) (Reading, error) {
	s := string(payload)
	if err := validate(s); err != nil {
		return Reading{}, err
	}
	fields := strings.Split(s, " ")
	if len(fields) != fieldCount {
		return Reading{}, fmt.Errorf("%w: want %d space separated fields, got %d in %q", ErrWrongFieldCount, fieldCount, len(fields), s)
	}

	id, err := parseByte(fields[0], "id")
	if err != nil {
		return Reading{}, err
	}
	flags1, err := parseByte(fields[1], "sensor type")
	if err != nil {
		return Reading{}, err
	}
	hi, err := parseByte(fields[2], "temperature high byte")
	if err != nil {
		return Reading{}, err
	}
	lo, err := parseByte(fields[3], "temperature low byte")
	if err != nil {
		return Reading{}, err
	}
	flags2, err := parseByte(fields[4], "humidity")
	if err != nil {
		return Reading{}, err
	}

	raw := uint16(hi)<<8 + uint16(lo)
	return Reading{
		ID:          id,
		SensorType:  flags1 % 128,
		NewBattery:  flags1/128 != 0,
		WeakBattery: flags2&0x80 != 0,
		Temperature: float64(int(raw)-1000) / 10,
		Humidity:    flags2 & 0x7F,
	}, nil
}

// validate rejects payloads before any field is parsed.
func validate(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %q", ErrInvalidChars, s)
	}
	spaces := 0
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			spaces++
		case unicode.IsNumber(r), unicode.IsControl(r):
		default:
			return fmt.Errorf("%w: %q", ErrInvalidChars, s)
		}
	}
	if spaces != fieldCount-1 {
		return fmt.Errorf("%w: %q", ErrWrongFieldCount, s)
	}
	return nil
}

func parseByte(field, name string) (uint8, error) {
	v, err := strconv.ParseUint(field, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidField, name, field, err)
	}
	return uint8(v), nil
}
