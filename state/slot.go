package state

// ImportKey is the state key holding a watcher staged for import.
const ImportKey = "saved_query"

// Slot is a single named entry that is consumed on read.
type Slot struct {
	file *File
	key  string
}

// NewSlot binds key in file.
func NewSlot(file *File, key string) *Slot {
	return &Slot{file: file, key: key}
}

// ImportSlot returns the pending-import slot in the default state file.
func ImportSlot() *Slot {
	return NewSlot(Default(), ImportKey)
}

// Key returns the state key backing the slot.
func (s *Slot) Key() string {
	return s.key
}

// Put stores value, replacing any previous one.
func (s *Slot) Put(value string) error {
	return s.file.Set(s.key, value)
}

// Take returns the stored value and clears the slot. ok is false when the
// slot was empty.
func (s *Slot) Take() (value string, ok bool, err error) {
	return s.file.Take(s.key)
}

// Clear empties the slot without reading it.
func (s *Slot) Clear() error {
	return s.file.Delete(s.key)
}
