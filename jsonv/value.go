package jsonv

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a tagged variant over null, bool, int64, float64, ByteString,
// *Object, and *Array. The zero Value is null. A Value exclusively owns
// any nested Object/Array: in the original C SDK this is the basis of the
// tree-shaped ownership/destroy discipline; under Go's GC the same
// exclusivity is just a convention (don't alias a nested Object/Array into
// two parents if you intend to mutate it independently) rather than a
// manual-memory-management requirement.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    ByteString
	obj  *Object
	arr  *Array
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a bool Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a 64-bit signed integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a 64-bit floating point Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string Value.
func String(s ByteString) Value { return Value{kind: KindString, s: s} }

// StringFromGo returns a string Value built from a Go string.
func StringFromGo(s string) Value { return String(ByteStringFromString(s)) }

// FromObject returns an object Value. obj must be non-nil.
func FromObject(obj *Object) Value { return Value{kind: KindObject, obj: obj} }

// FromArray returns an array Value. arr must be non-nil.
func FromArray(arr *Array) Value { return Value{kind: KindArray, arr: arr} }

// Kind reports the Value's variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the bool payload and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the int64 payload and whether v is an int.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float64 payload and whether v is a float.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the ByteString payload and whether v is a string.
func (v Value) AsString() (ByteString, bool) { return v.s, v.kind == KindString }

// AsObject returns the *Object payload and whether v is an object.
func (v Value) AsObject() (*Object, bool) { return v.obj, v.kind == KindObject }

// AsArray returns the *Array payload and whether v is an array.
func (v Value) AsArray() (*Array, bool) { return v.arr, v.kind == KindArray }

// Equal reports deep equality. Object equality is key-set equality with
// pointwise value equality, independent of insertion order (objects are
// always iterated in sorted order so this is really just recursive
// equality, but the intent — order-independence — is worth stating
// explicitly per the round-trip testable property in spec §8).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s.Equal(o.s)
	case KindObject:
		return v.obj.equal(o.obj)
	case KindArray:
		return v.arr.equal(o.arr)
	default:
		return false
	}
}
