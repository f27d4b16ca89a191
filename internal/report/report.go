// Package report reads consolidated grid_stat tables back out of an artifact
// as statistic-versus-lead series for one verification region and valid time.
package report

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/couchcryptid/gridstat-etl/internal/domain"
)

// Columns every queried table must carry.
const (
	MaskColumn  = "VX_MASK"
	LeadColumn  = "FCST_LEAD"
	ValidColumn = "FCST_VALID_END"
)

// ValidLayout is the FCST_VALID_END format.
const ValidLayout = "20060102_150405"

var (
	ErrUnknownFileType = errors.New("file type not in artifact")
	ErrMissingColumn   = errors.New("column not in table")
)

// Bounds names a confidence interval column family.
type Bounds string

const (
	NoBounds  Bounds = ""
	Bootstrap Bounds = "_BC"
	Normal    Bounds = "_NC"
)

// Lower is the lower-bound column for stat, e.g. RMSE_BCL.
func (b Bounds) Lower(stat string) string { return stat + string(b) + "L" }

// Upper is the upper-bound column for stat, e.g. RMSE_BCU.
func (b Bounds) Upper(stat string) string { return stat + string(b) + "U" }

// DetectBounds picks the confidence interval columns for stat. Bootstrap
// bounds win over normal bounds; a family is usable only when both columns
// exist and the lower column has no missing values anywhere in the table.
func DetectBounds(t *domain.Table, stat string) Bounds {
	for _, b := range []Bounds{Bootstrap, Normal} {
		if t.HasColumn(b.Lower(stat)) && t.HasColumn(b.Upper(stat)) && t.MissingCount(b.Lower(stat)) == 0 {
			return b
		}
	}
	return NoBounds
}

// Point is one lead time of a series. Lower and Upper are NaN when the
// series has no bounds.
type Point struct {
	Lead  string
	Value float64
	Lower float64
	Upper float64
}

// Series is one statistic across lead times.
type Series struct {
	Stat   string
	Bounds Bounds
	Points []Point
}

// Query selects rows of one file type by region mask and valid time.
type Query struct {
	FileType string
	Mask     string
	Valid    time.Time
	Stats    []string
}

// Run builds one series per requested statistic. Leads are ordered by length
// then lexically; when several rows share a lead the first is used.
func (q Query) Run(a *domain.Artifact) ([]Series, error) {
	t, ok := a.Tables[q.FileType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFileType, q.FileType)
	}
	for _, col := range append([]string{MaskColumn, LeadColumn, ValidColumn}, q.Stats...) {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, col, q.FileType)
		}
	}

	valid := q.Valid.UTC().Format(ValidLayout)
	rows := t.Filter(func(i int) bool {
		return equals(t, MaskColumn, i, q.Mask) && equals(t, ValidColumn, i, valid)
	})
	leads, first := leadRows(rows)

	out := make([]Series, 0, len(q.Stats))
	for _, stat := range q.Stats {
		s := Series{Stat: stat, Bounds: DetectBounds(t, stat), Points: make([]Point, 0, len(leads))}
		for _, lead := range leads {
			p, err := point(rows, first[lead], stat, s.Bounds)
			if err != nil {
				return nil, fmt.Errorf("%s at lead %s: %w", stat, lead, err)
			}
			p.Lead = lead
			s.Points = append(s.Points, p)
		}
		out = append(out, s)
	}
	return out, nil
}

func equals(t *domain.Table, column string, i int, want string) bool {
	v := t.Value(column, i)
	return !v.IsMissing() && v.Text == want
}

func leadRows(t *domain.Table) ([]string, map[string]int) {
	first := make(map[string]int)
	var leads []string
	for i := range t.Len() {
		v := t.Value(LeadColumn, i)
		if v.IsMissing() {
			continue
		}
		if _, seen := first[v.Text]; !seen {
			first[v.Text] = i
			leads = append(leads, v.Text)
		}
	}
	slices.SortFunc(leads, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(a), len(b)), cmp.Compare(a, b))
	})
	return leads, first
}

func point(t *domain.Table, row int, stat string, b Bounds) (Point, error) {
	var p Point
	var err error
	if p.Value, err = t.Value(stat, row).Float(); err != nil {
		return p, err
	}
	if b == NoBounds {
		p.Lower, p.Upper = math.NaN(), math.NaN()
		return p, nil
	}
	if p.Lower, err = t.Value(b.Lower(stat), row).Float(); err != nil {
		return p, err
	}
	if p.Upper, err = t.Value(b.Upper(stat), row).Float(); err != nil {
		return p, err
	}
	return p, nil
}

// LeadHours turns an HHMMSS lead token into its hour label: "60000" is "6",
// "1200000" is "120". Tokens of four characters or fewer are sub-hour leads
// and are labelled "0" rather than left blank, so every CSV row has a lead.
func LeadHours(lead string) string {
	if len(lead) <= 4 {
		return "0"
	}
	return lead[:len(lead)-4]
}
