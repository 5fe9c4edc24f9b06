package jsonv

// ByteString is an immutable byte buffer, the JSON value model's string
// representation. It owns a private copy of its bytes: once constructed it
// never changes, so it can be shared freely between Values without
// aliasing surprises.
//
// The original C SDK NUL-terminates these for interop with C string APIs
// while treating the NUL purely as a sentinel, never as data. That detail
// has no Go analogue (Go strings and []byte are never NUL-terminated) and
// is dropped.
type ByteString struct {
	data []byte
}

// emptyByteString is the well-known zero-length singleton.
var emptyByteString = ByteString{data: []byte{}}

// EmptyByteString returns the shared zero-length ByteString.
func EmptyByteString() ByteString {
	return emptyByteString
}

// NewByteString copies b into a new immutable ByteString.
func NewByteString(b []byte) ByteString {
	if len(b) == 0 {
		return emptyByteString
	}

	cp := make([]byte, len(b))
	copy(cp, b)

	return ByteString{data: cp}
}

// ByteStringFromString copies s into a new immutable ByteString.
func ByteStringFromString(s string) ByteString {
	return NewByteString([]byte(s))
}

// Bytes returns a copy of the underlying bytes; callers may not mutate the
// ByteString by aliasing its internal storage.
func (s ByteString) Bytes() []byte {
	cp := make([]byte, len(s.data))
	copy(cp, s.data)

	return cp
}

// String renders the ByteString as a Go string.
func (s ByteString) String() string {
	return string(s.data)
}

// Len reports the byte length.
func (s ByteString) Len() int {
	return len(s.data)
}

// Equal reports whether two ByteStrings hold the same bytes.
func (s ByteString) Equal(o ByteString) bool {
	if len(s.data) != len(o.data) {
		return false
	}

	for i := range s.data {
		if s.data[i] != o.data[i] {
			return false
		}
	}

	return true
}

// Compare returns -1, 0, or 1 per byte-lexicographic ordering, the order
// used to keep Object keys sorted.
func (s ByteString) Compare(o ByteString) int {
	a, b := s.data, o.data
	n := len(a)

	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}

			return 1
		}
	}

	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
