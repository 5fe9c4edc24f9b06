package jsonv

import (
	"sort"

	"github.com/bluntblade/kodo-go/kodoerr"
)

// MaxObjectPairs is the maximum number of key/value pairs an Object may
// hold (spec §3).
const MaxObjectPairs = 65535

// growthFactor is the geometric growth rate applied when an Object's
// backing slice is exhausted: new_cap = cap + cap/2 (x1.5).
const growthFactor = 2 // cap + cap/growthFactor == cap * 1.5

type objEntry struct {
	key   ByteString
	value Value
}

// Object is an ordered mapping from ByteString key to Value, kept in
// ascending byte-lexicographic key order at all times so a binary search
// locates any key and iteration order is always sorted (spec §3, §8
// "object insertion order invariant"). Duplicate keys are disallowed: Set
// on an existing key replaces the bound value.
type Object struct {
	entries   []objEntry
	immutable bool
}

// NewObject creates an empty, mutable Object with the given initial
// inline capacity hint (small-object optimization in the source; here just
// a slice preallocation, a performance choice per design note §9).
func NewObject(capacityHint int) *Object {
	if capacityHint < 0 {
		capacityHint = 0
	}

	return &Object{entries: make([]objEntry, 0, capacityHint)}
}

// search returns (index, found): index is the insertion point if not
// found, or the exact index if found.
func (o *Object) search(key ByteString) (int, bool) {
	n := len(o.entries)
	idx := sort.Search(n, func(i int) bool {
		return o.entries[i].key.Compare(key) >= 0
	})

	if idx < n && o.entries[idx].key.Equal(key) {
		return idx, true
	}

	return idx, false
}

func (o *Object) growIfNeeded() {
	if cap(o.entries) > len(o.entries) {
		return
	}

	newCap := cap(o.entries) + cap(o.entries)/growthFactor
	if newCap <= cap(o.entries) {
		newCap = cap(o.entries) + 1
	}

	grown := make([]objEntry, len(o.entries), newCap)
	copy(grown, o.entries)
	o.entries = grown
}

// Set binds key to v, replacing any prior value for key. Returns
// kodoerr.New(kodoerr.JSONModifyingImmutableObj) if the Object is
// immutable, or kodoerr.New(kodoerr.OutOfCapacity) if key is new and the
// Object already holds MaxObjectPairs pairs.
func (o *Object) Set(key string, v Value) error {
	return o.SetByteString(ByteStringFromString(key), v)
}

// SetByteString is Set taking a pre-built ByteString key, avoiding a copy
// when the caller already has one (e.g. the parser, which decodes the key
// once).
func (o *Object) SetByteString(key ByteString, v Value) error {
	if o.immutable {
		return kodoerr.New(kodoerr.JSONModifyingImmutableObj)
	}

	idx, found := o.search(key)
	if found {
		o.entries[idx].value = v
		return nil
	}

	if len(o.entries) >= MaxObjectPairs {
		return kodoerr.New(kodoerr.OutOfCapacity)
	}

	o.growIfNeeded()

	o.entries = append(o.entries, objEntry{})
	copy(o.entries[idx+1:], o.entries[idx:len(o.entries)-1])
	o.entries[idx] = objEntry{key: key, value: v}

	return nil
}

// Get returns the value bound to key, if any.
func (o *Object) Get(key string) (Value, bool) {
	return o.GetByteString(ByteStringFromString(key))
}

// GetByteString is Get taking a pre-built ByteString key.
func (o *Object) GetByteString(key ByteString) (Value, bool) {
	idx, found := o.search(key)
	if !found {
		return Value{}, false
	}

	return o.entries[idx].value, true
}

// Unset removes key, returning the removed value and true if it was
// present. Returns the immutable error if the Object is immutable and the
// key exists (unsetting a key that never existed on an immutable object is
// a no-op, matching the spirit of "rejects mutation" only for an actual
// mutation).
func (o *Object) Unset(key string) (Value, bool, error) {
	k := ByteStringFromString(key)

	idx, found := o.search(k)
	if !found {
		return Value{}, false, nil
	}

	if o.immutable {
		return Value{}, false, kodoerr.New(kodoerr.JSONModifyingImmutableObj)
	}

	removed := o.entries[idx].value
	o.entries = append(o.entries[:idx], o.entries[idx+1:]...)

	return removed, true, nil
}

// Rename moves the value bound to oldKey to newKey. Per spec §8 "rename
// idempotence": Rename(obj, k, k) is a no-op if k exists, else fails with
// no-such-entry. Renaming to a key that already holds a different value
// replaces that value, matching ordinary Set semantics.
func (o *Object) Rename(oldKey, newKey string) error {
	if oldKey == newKey {
		if _, ok := o.Get(oldKey); ok {
			return nil
		}

		return kodoerr.New(kodoerr.NoSuchEntry)
	}

	v, ok, err := o.Unset(oldKey)
	if err != nil {
		return err
	}

	if !ok {
		return kodoerr.New(kodoerr.NoSuchEntry)
	}

	return o.Set(newKey, v)
}

// Len reports the number of pairs.
func (o *Object) Len() int { return len(o.entries) }

// Immutable reports whether mutation is rejected.
func (o *Object) Immutable() bool { return o.immutable }

// Freeze marks the Object immutable in place; further Set/Unset/Rename
// calls fail.
func (o *Object) Freeze() { o.immutable = true }

// Keys returns the keys in ascending byte-lexicographic order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.key.String()
	}

	return keys
}

// ForEach calls fn for each pair in ascending key order, stopping early if
// fn returns false.
func (o *Object) ForEach(fn func(key string, v Value) bool) {
	for _, e := range o.entries {
		if !fn(e.key.String(), e.value) {
			return
		}
	}
}

// Clone returns a deep copy: nested objects/arrays are cloned too, so
// mutating the clone never affects the original.
func (o *Object) Clone() *Object {
	out := NewObject(len(o.entries))

	for _, e := range o.entries {
		out.entries = append(out.entries, objEntry{key: e.key, value: cloneValue(e.value)})
	}

	return out
}

func cloneValue(v Value) Value {
	switch v.kind {
	case KindObject:
		return FromObject(v.obj.Clone())
	case KindArray:
		return FromArray(v.arr.Clone())
	default:
		return v
	}
}

func (o *Object) equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}

	if o.Len() != other.Len() {
		return false
	}

	for i, e := range o.entries {
		oe := other.entries[i]
		if !e.key.Equal(oe.key) || !e.value.Equal(oe.value) {
			return false
		}
	}

	return true
}
