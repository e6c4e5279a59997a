package pebblestore

import (
	"bytes"
	"errors"
	"sort"
	"testing"
)

func TestKeyInt64PreservesOrder(t *testing.T) {
	values := []int64{-1 << 62, -5, -1, 0, 1, 7, 1 << 40}
	keys := make([][]byte, len(values))
	for i, v := range values {
		keys[len(values)-1-i] = NewKey(1).Int64(v).Bytes()
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })
	for i, key := range keys {
		if got := ReadKey(key).Int64(); got != values[i] {
			t.Fatalf("key %d decodes to %d, want %d", i, got, values[i])
		}
	}
}

func TestKeyRoundTripComposite(t *testing.T) {
	key := NewKey(9).Int64(42).Text("order").Int64(-3).Bytes()
	r := ReadKey(key)
	if got := r.Int64(); got != 42 {
		t.Fatalf("first = %d", got)
	}
	if got := r.Text(); got != "order" {
		t.Fatalf("second = %q", got)
	}
	if got := r.Int64(); got != -3 {
		t.Fatalf("third = %d", got)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("err = %v", err)
	}
}

func TestKeyReaderMalformed(t *testing.T) {
	r := ReadKey([]byte{1, 2, 3})
	_ = r.Int64()
	if !errors.Is(r.Err(), ErrMalformedKey) {
		t.Fatalf("err = %v, want ErrMalformedKey", r.Err())
	}
	r = ReadKey([]byte{1, 'a', 'b'})
	_ = r.Text()
	if !errors.Is(r.Err(), ErrMalformedKey) {
		t.Fatalf("unterminated text err = %v", r.Err())
	}
}

func TestTextPrefixDoesNotMatchLongerName(t *testing.T) {
	short := NewKey(1).Text("ab").Bytes()
	long := NewKey(1).Text("abc").Bytes()
	if bytes.HasPrefix(long, short) {
		t.Fatal("terminated text key must not prefix a longer name")
	}
}

func TestPrefixEnd(t *testing.T) {
	if got := PrefixEnd([]byte{1, 2}); !bytes.Equal(got, []byte{1, 3}) {
		t.Fatalf("PrefixEnd = %v", got)
	}
	if got := PrefixEnd([]byte{1, 0xff}); !bytes.Equal(got, []byte{2}) {
		t.Fatalf("PrefixEnd carry = %v", got)
	}
	if got := PrefixEnd([]byte{0xff}); got != nil {
		t.Fatalf("PrefixEnd max = %v, want nil", got)
	}
}

func TestKeyTextRoundTripsEmbeddedNul(t *testing.T) {
	for _, v := range []string{"", "\x00", "eng\x00ops", "a\x00\x01\xff", "tail\x00"} {
		key := NewKey(1).Text(v).Int64(7).Bytes()
		r := ReadKey(key)
		if got := r.Text(); got != v {
			t.Fatalf("text = %q, want %q", got, v)
		}
		if got := r.Int64(); got != 7 {
			t.Fatalf("trailing int = %d, want 7", got)
		}
		if err := r.Err(); err != nil {
			t.Fatalf("decode %q: %v", v, err)
		}
	}
}

func TestKeyTextPreservesOrder(t *testing.T) {
	values := []string{"", "\x00", "\x00\x00", "\x01", "a", "a\x00", "a\x00b", "ab", "b"}
	keys := make([][]byte, len(values))
	for i, v := range values {
		keys[len(values)-1-i] = NewKey(1).Text(v).Bytes()
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })
	for i, key := range keys {
		if got := ReadKey(key).Text(); got != values[i] {
			t.Fatalf("key %d decodes to %q, want %q", i, got, values[i])
		}
	}
}

func TestTextWithNulDoesNotPrefixSibling(t *testing.T) {
	short := NewKey(1).Text("eng").Bytes()
	long := NewKey(1).Text("eng\x00ops").Bytes()
	if bytes.HasPrefix(long, short) {
		t.Fatal("text key must not prefix a name that extends it with a nul")
	}
}

func TestKeyReaderRejectsBadEscape(t *testing.T) {
	r := ReadKey([]byte{1, 'a', 0x00, 0x02})
	_ = r.Text()
	if !errors.Is(r.Err(), ErrMalformedKey) {
		t.Fatalf("bad escape err = %v", r.Err())
	}
	r = ReadKey([]byte{1, 'a', 0x00})
	_ = r.Text()
	if !errors.Is(r.Err(), ErrMalformedKey) {
		t.Fatalf("truncated escape err = %v", r.Err())
	}
}
