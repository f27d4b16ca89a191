package domain

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	statFilePrefix = "grid_stat_"
	statFileExt    = ".txt"
)

// Configuration is one unit of batch work: a control flow verified on one grid
// with one optional file name prefix. It is built once by the batch driver and
// never modified.
type Configuration struct {
	ControlFlow string
	Prefix      string
	Grid        string
	Case        string

	// InputRoot holds one directory per cycle.
	InputRoot string
	// DateSubdir is appended to each cycle directory name, e.g. "/MET_analysis".
	DateSubdir string
	OutputDir  string

	// Date window as configured; validated by the task that owns it.
	Start         string
	End           string
	CycleInterval string

	SkipMissingCycles bool
}

// PrefixSeparator returns prefix followed by an underscore, or "" when no
// prefix is configured.
func PrefixSeparator(prefix string) string {
	if prefix == "" {
		return ""
	}
	return prefix + "_"
}

// StatFilePattern is the glob matching grid_stat output for a prefix.
func StatFilePattern(prefix string) string {
	return statFilePrefix + PrefixSeparator(prefix) + "*" + statFileExt
}

// FileType returns the statistic line type encoded in a grid_stat file name:
// the final underscore-delimited segment up to its first dot.
func FileType(path string) string {
	parts := strings.Split(filepath.Base(path), "_")
	last := parts[len(parts)-1]
	if i := strings.IndexByte(last, '.'); i >= 0 {
		last = last[:i]
	}
	return last
}

// LeadToken returns the fourth-from-last underscore-delimited segment of the
// file name, or "" when the name is too short to carry one.
func LeadToken(path string) string {
	parts := strings.Split(filepath.Base(path), "_")
	if len(parts) < 4 {
		return ""
	}
	return parts[len(parts)-4]
}

// SortStatFiles orders paths by lead token length, then lexically. This puts
// unpadded lead times in ascending order.
func SortStatFiles(paths []string) {
	slices.SortFunc(paths, func(a, b string) int {
		if c := cmp.Compare(len(LeadToken(a)), len(LeadToken(b))); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}

// CycleDir is the directory holding grid_stat output for one cycle.
func (c Configuration) CycleDir(cycle time.Time) string {
	return filepath.Join(c.InputRoot, FormatCycle(cycle)+c.DateSubdir)
}

// ArtifactPath is where the configuration's tables are persisted.
func (c Configuration) ArtifactPath() string {
	name := fmt.Sprintf("grid_stats_%s%s_%s_to_%s.bin", PrefixSeparator(c.Prefix), c.Grid, c.Start, c.End)
	return filepath.Join(c.OutputDir, name)
}

// LogPath is the configuration's plain-text processing log.
func (c Configuration) LogPath() string {
	name := fmt.Sprintf("proc_gridstat_%s%s_%s_log.txt", PrefixSeparator(c.Prefix), c.ControlFlow, c.Grid)
	return filepath.Join(c.OutputDir, name)
}

// Name identifies the configuration in logs and messages.
func (c Configuration) Name() string {
	return PrefixSeparator(c.Prefix) + c.ControlFlow + " " + c.Grid
}

// CompletionMessage is the result line reported for a finished configuration.
func (c Configuration) CompletionMessage() string {
	return "Completed: " + c.Name()
}
