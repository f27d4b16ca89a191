package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseStats counts what ParseTable did with the body of a file.
type ParseStats struct {
	Rows     int
	Padded   int
	Rejected int
}

// lineReader yields lines of any length and counts physical lines read.
type lineReader struct {
	br   *bufio.Reader
	line int
}

func (lr *lineReader) next() (string, bool, error) {
	s, err := lr.br.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if s == "" {
			return "", false, nil
		}
		err = nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read line %d: %w", lr.line+1, err)
	}
	lr.line++
	return s, true, nil
}

// ParseTable reads one grid_stat file. The first line is the header; each
// later non-blank line becomes a row numbered from 1. It returns ErrEmptyFile
// when there is no header.
func ParseTable(r io.Reader) (*Table, ParseStats, error) {
	var stats ParseStats
	lr := &lineReader{br: bufio.NewReader(r)}

	header, ok, err := lr.next()
	if err != nil {
		return nil, stats, err
	}
	columns := strings.Fields(header)
	if !ok || len(columns) == 0 {
		return nil, stats, ErrEmptyFile
	}
	if dup := firstDuplicate(columns); dup != "" {
		return nil, stats, fmt.Errorf("%w: %q", ErrDuplicateColumn, dup)
	}

	t := NewTable(columns)
	row := make([]Value, len(columns))
	for {
		text, ok, err := lr.next()
		if err != nil {
			return nil, stats, err
		}
		if !ok {
			break
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) > len(columns) {
			stats.Rejected++
			continue
		}
		if len(fields) < len(columns) {
			stats.Padded++
		}
		for i := range row {
			if i < len(fields) {
				row[i] = ParseToken(fields[i])
			} else {
				row[i] = Value{}
			}
		}
		stats.Rows++
		t.AppendRow(stats.Rows, row)
	}
	return t, stats, nil
}

func firstDuplicate(columns []string) string {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, ok := seen[c]; ok {
			return c
		}
		seen[c] = struct{}{}
	}
	return ""
}
