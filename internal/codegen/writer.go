package codegen

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// WriteFile writes generated content to path. It leaves the file untouched
// when the content is already current and reports whether it wrote.
func WriteFile(path string, content []byte) (bool, error) {
	slog.Debug("WriteFile: start", "path", path, "bytes", len(content))
	defer slog.Debug("WriteFile: end", "path", path)

	current, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(current, content) {
			slog.Debug("\tContent unchanged, skipping write", "path", path)
			return false, nil
		}
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("\tOutput does not exist yet", "path", path)
	default:
		return false, errors.Wrapf(err, "reading existing output %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.Wrapf(err, "creating directory for %s", path)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, errors.Wrapf(err, "writing generated content to %s", path)
	}
	return true, nil
}

// RemoveStale deletes a previously generated file at path, used when a
// package no longer has anything to generate. Files without the generated
// header are never removed.
func RemoveStale(path string) (bool, error) {
	current, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "reading %s", path)
	}
	if !bytes.HasPrefix(current, []byte(GeneratedHeader)) {
		return false, errors.Newf("refusing to remove %s: it was not generated by buildgen", path)
	}
	if err := os.Remove(path); err != nil {
		return false, errors.Wrapf(err, "removing %s", path)
	}
	slog.Debug("removed stale output", "path", path)
	return true, nil
}
