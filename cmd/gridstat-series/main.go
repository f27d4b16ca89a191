// Command gridstat-series prints statistic-versus-lead series from a
// gridstat artifact as CSV, one row per lead time.
//
// Usage:
//
//	go run ./cmd/gridstat-series \
//	  -artifact out/CC/NAM/grid_stats_d02_2021012400_to_2021012800.bin \
//	  -type cnt -mask FULL -valid 2021012500 -stats RMSE,PR_CORR
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/gridstat-etl/internal/adapter/artifact"
	"github.com/couchcryptid/gridstat-etl/internal/domain"
	"github.com/couchcryptid/gridstat-etl/internal/report"
)

func main() {
	if err := run(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer) error {
	path := flag.String("artifact", "", "path to a grid_stats_*.bin artifact")
	fileType := flag.String("type", "cnt", "file type to read")
	mask := flag.String("mask", "FULL", "VX_MASK verification region")
	valid := flag.String("valid", "", "valid time in YYYYMMDDHH")
	stats := flag.String("stats", "", "comma-separated statistic columns")
	flag.Parse()

	if *path == "" || *valid == "" || *stats == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -artifact, -valid, -stats")
	}

	validAt, err := domain.ParseCycleTime(*valid)
	if err != nil {
		return fmt.Errorf("valid date: %w", err)
	}

	a, err := artifact.Read(*path)
	if err != nil {
		return err
	}

	q := report.Query{
		FileType: *fileType,
		Mask:     *mask,
		Valid:    validAt,
		Stats:    strings.Split(*stats, ","),
	}
	series, err := q.Run(a)
	if err != nil {
		return err
	}
	return writeCSV(w, series)
}

// writeCSV lays series out side by side: lead, then value/lower/upper per
// statistic. Bound columns are left empty for series without bounds.
func writeCSV(w io.Writer, series []report.Series) error {
	cw := csv.NewWriter(w)

	header := []string{"lead_hours"}
	for _, s := range series {
		header = append(header, s.Stat, s.Stat+"_lower", s.Stat+"_upper")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	if len(series) > 0 {
		for i, p := range series[0].Points {
			row := []string{report.LeadHours(p.Lead)}
			for _, s := range series {
				pt := s.Points[i]
				row = append(row, formatFloat(pt.Value))
				if s.Bounds == report.NoBounds {
					row = append(row, "", "")
					continue
				}
				row = append(row, formatFloat(pt.Lower), formatFloat(pt.Upper))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
