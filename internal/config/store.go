package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// ErrConfigMissing is returned by LoadOrCreate when the file is absent and
// creation was not requested.
var ErrConfigMissing = errors.New("config file not found")

// Document is a parsed TOML file. Values below the top level are kept as
// decoded and written back untouched.
type Document map[string]any

func (d Document) Get(key string) (any, bool) {
	v, ok := d[key]
	return v, ok
}

// GetString returns the value under key when it is a string.
func (d Document) GetString(key string) (string, bool) {
	v, ok := d[key].(string)
	return v, ok
}

func (d Document) Set(key string, value any) {
	d[key] = value
}

// Clone copies the top level only; nested values are shared.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func Parse(data []byte) (Document, error) {
	doc := Document{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return doc, nil
}

// LoadOrCreate loads path, or writes an empty document there when it does
// not exist and create is set. created reports whether the file was made.
func LoadOrCreate(path string, create bool) (doc Document, created bool, err error) {
	_, err = os.Stat(path)
	switch {
	case err == nil:
		doc, err = Load(path)
		return doc, false, err
	case !errors.Is(err, fs.ErrNotExist):
		return nil, false, fmt.Errorf("stat config %q: %w", path, err)
	case !create:
		return nil, false, fmt.Errorf("%w: %s", ErrConfigMissing, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("ensure config directory: %w", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return nil, false, fmt.Errorf("create config %q: %w", path, err)
	}
	return Document{}, true, nil
}

func Write(path string, doc Document) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}

// write to temp file then rename so readers never see partial/corrupt data.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".altp-*.tmp")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err := tmp.Chmod(perm); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
