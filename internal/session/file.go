package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// FileBackend хранит сессии в JSON-файле (для CLI).
// Формат: {"<scope>": {"<key>": "<value>"}}
type FileBackend struct {
	mu   sync.Mutex
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (f *FileBackend) Get(_ context.Context, scope int64, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return "", false, err
	}
	value, ok := data[strconv.FormatInt(scope, 10)][key]
	return value, ok, nil
}

func (f *FileBackend) Put(_ context.Context, scope int64, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}

	id := strconv.FormatInt(scope, 10)
	if data[id] == nil {
		data[id] = make(map[string]string)
	}
	for k, v := range values {
		data[id][k] = v
	}
	return f.save(data)
}

func (f *FileBackend) Delete(_ context.Context, scope int64, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}

	id := strconv.FormatInt(scope, 10)
	for _, k := range keys {
		delete(data[id], k)
	}
	if len(data[id]) == 0 {
		delete(data, id)
	}
	return f.save(data)
}

func (f *FileBackend) load() (map[string]map[string]string, error) {
	data := make(map[string]map[string]string)

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	// Повреждённый файл равносилен пустому хранилищу
	if err := json.Unmarshal(raw, &data); err != nil {
		return make(map[string]map[string]string), nil
	}
	return data, nil
}

// save пишет во временный файл и переименовывает, чтобы запись была атомарной
func (f *FileBackend) save(data map[string]map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session file: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
