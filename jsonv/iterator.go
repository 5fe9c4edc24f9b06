package jsonv

import "github.com/bluntblade/kodo-go/kodoerr"

// Iterator walks Object/Array values without recursion: the caller pushes
// a container to start iterating its entries, advances a cursor across
// them, and pops back out, exactly mirroring how a recursive-descent
// caller would walk the tree but without using the Go call stack to hold
// the position (spec §4.4). It is a separate, independently allocated
// companion to Parser/Formatter: built over a Value tree already in
// memory, typically one a Parser just produced.
type Iterator struct {
	levels []level
}

type level struct {
	obj  *Object
	arr  *Array
	keys []string // sorted keys, cached once per level for index access
	idx  int       // -1 before the first entry
}

// NewIterator returns an empty Iterator with no container pushed.
func NewIterator() *Iterator {
	return &Iterator{}
}

// Depth reports how many containers are currently pushed.
func (it *Iterator) Depth() int { return len(it.levels) }

// PushObject begins iterating obj's entries as a new, innermost level.
func (it *Iterator) PushObject(obj *Object) {
	it.levels = append(it.levels, level{obj: obj, keys: obj.Keys(), idx: -1})
}

// PushArray begins iterating arr's entries as a new, innermost level.
func (it *Iterator) PushArray(arr *Array) {
	it.levels = append(it.levels, level{arr: arr, idx: -1})
}

// Pop ends iteration of the innermost level, returning to its parent.
// Returns kodoerr.New(kodoerr.JSONOutOfIndex) if no level is pushed.
func (it *Iterator) Pop() error {
	if len(it.levels) == 0 {
		return kodoerr.New(kodoerr.JSONOutOfIndex)
	}

	it.levels = it.levels[:len(it.levels)-1]

	return nil
}

func (it *Iterator) top() (*level, error) {
	if len(it.levels) == 0 {
		return nil, kodoerr.New(kodoerr.JSONOutOfIndex)
	}

	return &it.levels[len(it.levels)-1], nil
}

// Len reports how many entries the innermost pushed container holds.
func (it *Iterator) Len() (int, error) {
	lv, err := it.top()
	if err != nil {
		return 0, err
	}

	if lv.obj != nil {
		return lv.obj.Len(), nil
	}

	return lv.arr.Len(), nil
}

// HasNextEntry reports whether Advance would succeed.
func (it *Iterator) HasNextEntry() bool {
	lv, err := it.top()
	if err != nil {
		return false
	}

	n, _ := it.Len()

	return lv.idx+1 < n
}

// Advance moves the cursor to the next entry of the innermost container.
// Returns kodoerr.New(kodoerr.JSONOutOfIndex) once past the last entry.
func (it *Iterator) Advance() error {
	lv, err := it.top()
	if err != nil {
		return err
	}

	n, _ := it.Len()
	if lv.idx+1 >= n {
		return kodoerr.New(kodoerr.JSONOutOfIndex)
	}

	lv.idx++

	return nil
}

// currentValue returns the Value the cursor sits on.
func (it *Iterator) currentValue() (Value, error) {
	lv, err := it.top()
	if err != nil {
		return Value{}, err
	}

	if lv.idx < 0 {
		return Value{}, kodoerr.New(kodoerr.JSONOutOfIndex)
	}

	if lv.obj != nil {
		v, _ := lv.obj.Get(lv.keys[lv.idx])

		return v, nil
	}

	v, _ := lv.arr.Get(lv.idx)

	return v, nil
}

// GetType reports the Kind of the value the cursor currently sits on.
func (it *Iterator) GetType() (Kind, error) {
	v, err := it.currentValue()
	if err != nil {
		return KindNull, err
	}

	return v.Kind(), nil
}

// GetValue returns the value the cursor currently sits on.
func (it *Iterator) GetValue() (Value, error) {
	return it.currentValue()
}

// GetKey returns the key of the current entry. Valid only when the
// innermost container is an object.
func (it *Iterator) GetKey() (string, error) {
	lv, err := it.top()
	if err != nil {
		return "", err
	}

	if lv.obj == nil {
		return "", kodoerr.New(kodoerr.JSONNotThisType)
	}

	if lv.idx < 0 {
		return "", kodoerr.New(kodoerr.JSONOutOfIndex)
	}

	return lv.keys[lv.idx], nil
}

// GetIndex returns the position of the current entry within its array.
// Valid only when the innermost container is an array.
func (it *Iterator) GetIndex() (int, error) {
	lv, err := it.top()
	if err != nil {
		return 0, err
	}

	if lv.arr == nil {
		return 0, kodoerr.New(kodoerr.JSONNotThisType)
	}

	if lv.idx < 0 {
		return 0, kodoerr.New(kodoerr.JSONOutOfIndex)
	}

	return lv.idx, nil
}

// PushCurrent is a convenience that pushes the object or array the cursor
// currently sits on, descending one level without the caller having to
// type-switch GetValue's result.
func (it *Iterator) PushCurrent() error {
	v, err := it.currentValue()
	if err != nil {
		return err
	}

	switch v.Kind() {
	case KindObject:
		obj, _ := v.AsObject()
		it.PushObject(obj)

		return nil
	case KindArray:
		arr, _ := v.AsArray()
		it.PushArray(arr)

		return nil
	default:
		return kodoerr.New(kodoerr.JSONNotThisType)
	}
}
