package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"helmetmonitor/internal/logger"
)

// Store persists snapshot images in a flat directory. Filenames embed a
// microsecond timestamp so concurrent writers within the same second do not
// collide.
type Store struct {
	dir    string
	logger *logger.Logger
}

// New creates a snapshot store rooted at dir.
func New(dir string, log *logger.Logger) *Store {
	return &Store{dir: dir, logger: log}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path joins a stored filename against the root directory.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Save writes the raw bytes under a timestamped filename and returns the
// filename. The directory is created on demand.
func (s *Store) Save(data []byte, ext string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	now := time.Now().UTC()
	filename := fmt.Sprintf("snapshot_%s%06d.%s",
		now.Format("20060102150405"), now.Nanosecond()/1000, ext)

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", filename, err)
	}

	return filename, nil
}

// Remove deletes a single stored snapshot. Missing files are not an error.
func (s *Store) Remove(filename string) {
	if filename == "" {
		return
	}
	if err := os.Remove(s.Path(filename)); err != nil && !os.IsNotExist(err) {
		s.logger.Warning("Failed to remove snapshot %s: %v", filename, err)
	}
}

// RemoveAll best-effort deletes every referenced snapshot file.
func (s *Store) RemoveAll(filenames []string) {
	for _, name := range filenames {
		s.Remove(name)
	}
}

// ParseFilename extracts the capture timestamp from a stored snapshot name.
// Format: snapshot_<yyyymmddhhmmss><microseconds>.<ext>
func ParseFilename(filename string) (time.Time, error) {
	name := strings.TrimPrefix(filename, "snapshot_")
	if name == filename {
		return time.Time{}, fmt.Errorf("invalid snapshot filename: %s", filename)
	}

	dot := strings.LastIndex(name, ".")
	if dot > 0 {
		name = name[:dot]
	}

	if len(name) != 20 {
		return time.Time{}, fmt.Errorf("invalid timestamp in filename: %s", filename)
	}

	ts, err := time.Parse("20060102150405", name[:14])
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	micros, err := strconv.Atoi(name[14:])
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse microseconds: %w", err)
	}

	return ts.Add(time.Duration(micros) * time.Microsecond), nil
}
