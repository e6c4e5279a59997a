package pebblestore

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrMalformedKey is returned when a key cannot be decoded.
var ErrMalformedKey = errors.New("pebblestore: malformed key")

// Key builds order-preserving composite keys. Integers are big-endian with
// the sign bit flipped. Strings escape 0x00 as 0x00 0xFF and end with
// 0x00 0x01, so any string round-trips and no encoded string prefixes another.
type Key []byte

const (
	textEscape     byte = 0x00
	textEscapedNul byte = 0xff
	textTerminator byte = 0x01
)

// NewKey starts a key in the column family identified by prefix.
func NewKey(prefix byte) Key {
	return Key{prefix}
}

// Int64 appends an order-preserving integer.
func (k Key) Int64(v int64) Key {
	return binary.BigEndian.AppendUint64(k, uint64(v)^(1<<63))
}

// Uint64 appends a big-endian unsigned integer.
func (k Key) Uint64(v uint64) Key {
	return binary.BigEndian.AppendUint64(k, v)
}

// Text appends an escaped, terminated string.
func (k Key) Text(v string) Key {
	for i := 0; i < len(v); i++ {
		if v[i] == textEscape {
			k = append(k, textEscape, textEscapedNul)
			continue
		}
		k = append(k, v[i])
	}
	return append(k, textEscape, textTerminator)
}

// Bytes returns a copy of the key.
func (k Key) Bytes() []byte {
	return append([]byte(nil), k...)
}

// KeyReader decodes a key built by Key, skipping the column prefix.
type KeyReader struct {
	rest []byte
	err  error
}

// ReadKey starts decoding key.
func ReadKey(key []byte) *KeyReader {
	if len(key) == 0 {
		return &KeyReader{err: ErrMalformedKey}
	}
	return &KeyReader{rest: key[1:]}
}

// Int64 reads an integer component.
func (r *KeyReader) Int64() int64 {
	if r.err != nil || len(r.rest) < 8 {
		r.err = ErrMalformedKey
		return 0
	}
	v := int64(binary.BigEndian.Uint64(r.rest) ^ (1 << 63))
	r.rest = r.rest[8:]
	return v
}

// Text reads a string component.
func (r *KeyReader) Text() string {
	if r.err != nil {
		return ""
	}
	var buf []byte
	for i := 0; i < len(r.rest); i++ {
		b := r.rest[i]
		if b != textEscape {
			buf = append(buf, b)
			continue
		}
		if i+1 >= len(r.rest) {
			break
		}
		switch r.rest[i+1] {
		case textTerminator:
			r.rest = r.rest[i+2:]
			return string(buf)
		case textEscapedNul:
			buf = append(buf, textEscape)
			i++
		default:
			r.err = ErrMalformedKey
			return ""
		}
	}
	r.err = ErrMalformedKey
	return ""
}

// Err returns the first decoding error.
func (r *KeyReader) Err() error {
	return r.err
}

// PrefixEnd returns the smallest key greater than every key with prefix, or
// nil when no such key exists.
func PrefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < math.MaxUint8 {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
