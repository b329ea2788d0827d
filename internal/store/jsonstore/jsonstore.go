package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/idilsaglam/shoplist/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking and no atomic rename; a crash mid-write may leave a corrupt file.

const DataFileName = "shopping_list.json"

// DefaultPath is the data file in the working directory.
func DefaultPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DataFileName), nil
}

type Store struct {
	path string
	log  *slog.Logger
}

func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{path: path, log: logger.With("path", path)}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored lines in file order. A missing file is an empty list.
func (s *Store) Load() ([]model.Line, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("no data file, starting empty")
			return []model.Line{}, nil
		}
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	lines, err := decode(b)
	if err != nil {
		return nil, &CorruptStateError{Path: s.path, Err: err}
	}
	s.log.Debug("loaded", "items", len(lines))
	return lines, nil
}

// Save overwrites the file with the full snapshot.
func (s *Store) Save(lines []model.Line) error {
	b, err := Encode(lines)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	s.log.Debug("saved", "items", len(lines))
	return nil
}

// Quarantine moves an unreadable file to <path>.corrupt and returns the new name.
func (s *Store) Quarantine() (string, error) {
	dst := s.path + ".corrupt"
	if err := os.Rename(s.path, dst); err != nil {
		return "", &IOError{Op: "rename", Path: s.path, Err: err}
	}
	s.log.Debug("moved corrupt data file aside", "to", dst)
	return dst, nil
}

// Encode writes one item per line, {"name": [quantity, price], ...}, keeping
// snapshot order, which a Go map would lose.
func Encode(lines []model.Line) ([]byte, error) {
	if len(lines) == 0 {
		return []byte("{}\n"), nil
	}
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, ln := range lines {
		k, err := marshalName(ln.Name)
		if err != nil {
			return nil, err
		}
		v, err := ln.Entry.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
		if i < len(lines)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func marshalName(name string) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(name); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

// decode reads the object token by token so key order survives.
// A repeated key keeps its first position and takes the last value.
func decode(b []byte) ([]model.Line, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("want a JSON object, got %v", tok)
	}

	lines := []model.Line{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		name, _ := tok.(string)
		var e model.Entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("item %q: %w", name, err)
		}
		ln := model.Line{Name: name, Entry: e}
		if err := ln.Validate(); err != nil {
			return nil, err
		}
		if i, ok := index[name]; ok {
			lines[i] = ln
			continue
		}
		index[name] = len(lines)
		lines = append(lines, ln)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON object")
	}
	return lines, nil
}
