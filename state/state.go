// Package state is a small key-value store persisted as YAML in the user's
// state directory. It carries data across runs and between processes, such as
// the pending import slot filled by `watchers stage`.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/watchers/pkg/paths"
	"gopkg.in/yaml.v3"
)

// State represents the persisted state as a generic map of key-value pairs.
type State map[string]interface{}

// File is a state file at a fixed path. Methods are safe for concurrent use
// within one process.
type File struct {
	path string
	mu   sync.Mutex
}

// Open returns the state file at path. The file is created on first write.
func Open(path string) *File {
	return &File{path: path}
}

// Default returns the state file under the watchers state directory.
func Default() *File {
	return Open(paths.StateFilePath())
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Load loads the state from the state file.
// Returns an empty state if the file doesn't exist.
func (f *File) Load() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *File) load() (State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(State), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}

	if state == nil {
		state = make(State)
	}

	return state, nil
}

// Save replaces the state file contents.
func (f *File) Save(state State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(state)
}

func (f *File) save(state State) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	// Write-then-rename so a crash never leaves a truncated file.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}

// Get retrieves a value from the state by key.
func (f *File) Get(key string) (interface{}, bool, error) {
	state, err := f.Load()
	if err != nil {
		return nil, false, err
	}

	val, ok := state[key]
	return val, ok, nil
}

// GetString returns "" when the key is missing or not a string.
func (f *File) GetString(key string) (string, error) {
	val, ok, err := f.Get(key)
	if err != nil || !ok {
		return "", err
	}

	str, _ := val.(string)
	return str, nil
}

// Set sets a value in the state.
func (f *File) Set(key string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}

	state[key] = value
	return f.save(state)
}

// Delete removes a key from the state.
func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}

	if _, ok := state[key]; !ok {
		return nil
	}
	delete(state, key)
	return f.save(state)
}

// Take returns the string under key and removes it in the same locked
// read-modify-write.
func (f *File) Take(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return "", false, err
	}

	val, ok := state[key]
	if !ok {
		return "", false, nil
	}
	delete(state, key)
	if err := f.save(state); err != nil {
		return "", false, err
	}

	str, isString := val.(string)
	if !isString {
		// Still cleared; callers treat a non-string slot as corrupt.
		return fmt.Sprint(val), true, nil
	}
	return str, true, nil
}

// Load reads the default state file.
func Load() (State, error) {
	return Default().Load()
}

// Get reads key from the default state file.
func Get(key string) (interface{}, bool, error) {
	return Default().Get(key)
}

// GetString reads a string from the default state file.
func GetString(key string) (string, error) {
	return Default().GetString(key)
}

// Set writes key in the default state file.
func Set(key string, value interface{}) error {
	return Default().Set(key, value)
}

// Delete removes key from the default state file.
func Delete(key string) error {
	return Default().Delete(key)
}
