package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/IshaanNene/netsat/internal/types"
)

// --- JSON Storage ---

// JSONStorage writes majors as one pretty-printed JSON array. Nothing touches
// the output path until Close, and only if Store was called at least once,
// so an aborted run leaves any previous file intact.
type JSONStorage struct {
	path   string
	majors []*types.Major
	stored bool
	mu     sync.Mutex
	logger *slog.Logger
}

// NewJSONStorage creates a new JSON file storage.
func NewJSONStorage(outputPath string, logger *slog.Logger) (*JSONStorage, error) {
	if err := ensureDir(outputPath); err != nil {
		return nil, err
	}

	return &JSONStorage{
		path:   outputPath,
		majors: make([]*types.Major, 0),
		logger: logger.With("component", "json_storage"),
	}, nil
}

func (s *JSONStorage) Name() string { return "json" }

func (s *JSONStorage) Store(majors []*types.Major) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.majors = append(s.majors, majors...)
	s.stored = true
	s.logger.Debug("majors buffered", "count", len(majors), "total", len(s.majors))
	return nil
}

func (s *JSONStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stored {
		s.logger.Debug("nothing stored, output left untouched", "path", s.path)
		return nil
	}

	err := writeAtomic(s.path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(s.majors)
	})
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	s.logger.Info("JSON written", "path", s.path, "majors", len(s.majors))
	return nil
}

// --- JSONL Storage ---

// JSONLStorage writes majors as newline-delimited JSON, one object per line.
// Lines are buffered and the file is replaced on Close like JSONStorage.
type JSONLStorage struct {
	path   string
	majors []*types.Major
	stored bool
	mu     sync.Mutex
	logger *slog.Logger
}

// NewJSONLStorage creates a new JSONL file storage.
func NewJSONLStorage(outputPath string, logger *slog.Logger) (*JSONLStorage, error) {
	if err := ensureDir(outputPath); err != nil {
		return nil, err
	}

	return &JSONLStorage{
		path:   outputPath,
		logger: logger.With("component", "jsonl_storage"),
	}, nil
}

func (s *JSONLStorage) Name() string { return "jsonl" }

func (s *JSONLStorage) Store(majors []*types.Major) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.majors = append(s.majors, majors...)
	s.stored = true
	return nil
}

func (s *JSONLStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stored {
		return nil
	}

	err := writeAtomic(s.path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetEscapeHTML(false)
		for _, m := range s.majors {
			if err := enc.Encode(m); err != nil {
				return fmt.Errorf("encode JSONL: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	s.logger.Info("JSONL written", "path", s.path, "majors", len(s.majors))
	return nil
}

// --- CSV Storage ---

var csvHeader = []string{"id", "faculty", "name", "student_in_regular", "student_in_special", "scores"}

// CSVStorage writes majors as CSV rows. The scores column holds the score
// map as compact JSON because subject sets differ between faculties.
type CSVStorage struct {
	path   string
	majors []*types.Major
	stored bool
	mu     sync.Mutex
	logger *slog.Logger
}

// NewCSVStorage creates a new CSV file storage.
func NewCSVStorage(outputPath string, logger *slog.Logger) (*CSVStorage, error) {
	if err := ensureDir(outputPath); err != nil {
		return nil, err
	}

	return &CSVStorage{
		path:   outputPath,
		logger: logger.With("component", "csv_storage"),
	}, nil
}

func (s *CSVStorage) Name() string { return "csv" }

func (s *CSVStorage) Store(majors []*types.Major) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.majors = append(s.majors, majors...)
	s.stored = true
	return nil
}

func (s *CSVStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stored {
		return nil
	}

	err := writeAtomic(s.path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
		for _, m := range s.majors {
			row := []string{
				m.ID,
				m.Faculty,
				m.Name,
				strconv.Itoa(int(m.StudentInRegular)),
				strconv.Itoa(int(m.StudentInSpecial)),
				m.ScoresJSON(),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write CSV row: %w", err)
			}
		}
		w.Flush()
		return w.Error()
	})
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	s.logger.Info("CSV written", "path", s.path, "majors", len(s.majors))
	return nil
}

// NewFileStorage creates the file-based storage for storageType at outputPath.
func NewFileStorage(storageType, outputPath string, logger *slog.Logger) (Storage, error) {
	switch storageType {
	case "json":
		return NewJSONStorage(outputPath, logger)
	case "jsonl":
		return NewJSONLStorage(withExt(outputPath, ".jsonl"), logger)
	case "csv":
		return NewCSVStorage(withExt(outputPath, ".csv"), logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// withExt swaps a .json extension for ext so the default output path stays
// meaningful for other formats.
func withExt(path, ext string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return strings.TrimSuffix(path, filepath.Ext(path)) + ext
	}
	return path
}

func ensureDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// writeAtomic writes to a temporary file next to path and renames it into
// place once write succeeds.
func writeAtomic(path string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace output file: %w", err)
	}
	return nil
}
