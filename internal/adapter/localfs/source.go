package localfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/gridstat-etl/internal/domain"
)

// Source reads grid_stat output from a local directory tree.
// It implements pipeline.FileSource.
type Source struct{}

// NewSource creates a local filesystem source.
func NewSource() *Source {
	return &Source{}
}

// CheckRoot verifies that the directory holding the cycle directories exists.
func (s *Source) CheckRoot(dir string) error {
	if !isDir(dir) {
		return fmt.Errorf("%w: %s", domain.ErrInputDirMissing, dir)
	}
	return nil
}

// Discover lists the grid_stat files for one cycle in lead-time order.
func (s *Source) Discover(cycleDir, prefix string) ([]string, error) {
	if !isDir(cycleDir) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCycleDirMissing, cycleDir)
	}
	paths, err := filepath.Glob(filepath.Join(cycleDir, domain.StatFilePattern(prefix)))
	if err != nil {
		return nil, fmt.Errorf("match files for prefix %q: %w", prefix, err)
	}
	domain.SortStatFiles(paths)
	return paths, nil
}

// Parse reads one file into a table. The file is closed before Parse returns.
func (s *Source) Parse(path string) (*domain.Table, domain.ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.ParseStats{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, stats, err := domain.ParseTable(f)
	if err != nil {
		return nil, stats, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, stats, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
