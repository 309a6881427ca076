package util

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// Cache is a gob encoded file cache rooted at the given directory.
// The empty Cache and "-" disable caching.
type Cache[T any] string

func NewCache[T any](base, key string) (Cache[T], error) {
	if base == "" || base == "-" {
		return Cache[T](""), nil
	}
	p := filepath.Join(base, key)
	return Cache[T](p), os.MkdirAll(p, os.ModePerm)
}

// Get returns the cached value for k or computes it with f. Values are only cached if f succeeds.
// Failing to write the cache is not an error.
func (c Cache[T]) Get(k string, f func() (T, error)) (T, error) {
	if c == "" || c == "-" {
		return f()
	}
	p := c.path(k)
	if file, err := os.Open(p); err == nil {
		defer file.Close()
		v := *new(T)
		if err := gob.NewDecoder(file).Decode(&v); err == nil {
			return v, nil
		}
	}
	v, err := f()
	if err != nil {
		return v, err
	}
	b := &bytes.Buffer{}
	if err := gob.NewEncoder(b).Encode(v); err == nil {
		_ = os.WriteFile(p, b.Bytes(), 0644)
	}
	return v, nil
}

func (c Cache[T]) path(k string) string {
	h := sha256.Sum256([]byte(k))
	return filepath.Join(string(c), fmt.Sprintf("%x", h))
}
