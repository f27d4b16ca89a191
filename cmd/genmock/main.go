// Command genmock writes a synthetic MET grid_stat output tree and a matching
// batch configuration, for demos and end-to-end checks of cmd/gridstat.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -root data/mock -case CC -flows NAM,RAP -grids d01,d02 \
//	  -start 2021012400 -end 2021012800 -interval 24 -leads 6,12,24 \
//	  -config-out data/mock/gridstat.yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/gridstat-etl/internal/config"
	"github.com/couchcryptid/gridstat-etl/internal/domain"
)

var (
	masks = []string{"FULL", "CA_All", "Sierra"}

	cntColumns = []string{
		"VERSION", "MODEL", "DESC", "FCST_LEAD", "FCST_VALID_BEG", "FCST_VALID_END", "OBS_LEAD",
		"VX_MASK", "LINE_TYPE", "TOTAL",
		"RMSE", "RMSE_NCL", "RMSE_NCU", "RMSE_BCL", "RMSE_BCU",
		"ME", "ME_NCL", "ME_NCU", "ME_BCL", "ME_BCU",
	}
	sl1l2Columns = []string{
		"VERSION", "MODEL", "DESC", "FCST_LEAD", "FCST_VALID_BEG", "FCST_VALID_END", "OBS_LEAD",
		"VX_MASK", "LINE_TYPE", "TOTAL", "FBAR", "OBAR", "FOBAR", "FFBAR", "OOBAR", "MAE",
	}
)

type options struct {
	root, caseName, dateSubdir, prefix string
	flows, grids                       []string
	leads                              []int
	window                             domain.CycleRange
	seed                               uint64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	root := flag.String("root", "", "input root to write the MET tree under")
	caseName := flag.String("case", "CC", "case label")
	flows := flag.String("flows", "NAM", "comma-separated control flows")
	grids := flag.String("grids", "d01", "comma-separated grids")
	prefix := flag.String("prefix", "", "file name prefix")
	start := flag.String("start", "", "first cycle in YYYYMMDDHH")
	end := flag.String("end", "", "last cycle in YYYYMMDDHH")
	interval := flag.String("interval", "24", "cycle interval in HH")
	leads := flag.String("leads", "6,12,24", "comma-separated lead hours")
	dateSubdir := flag.String("date-subdir", "", "subdirectory under each cycle directory, e.g. /MET_analysis")
	seed := flag.Uint64("seed", 1, "random seed")
	configOut := flag.String("config-out", "", "optional path for a matching gridstat YAML config")
	flag.Parse()

	if *root == "" || *start == "" || *end == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -root, -start, -end")
	}

	window, err := domain.ParseCycleWindow(*start, *end, *interval)
	if err != nil {
		return err
	}
	leadHours, err := parseLeads(*leads)
	if err != nil {
		return err
	}

	opts := options{
		root:       *root,
		caseName:   *caseName,
		dateSubdir: *dateSubdir,
		prefix:     *prefix,
		flows:      strings.Split(*flows, ","),
		grids:      strings.Split(*grids, ","),
		leads:      leadHours,
		window:     window,
		seed:       *seed,
	}

	files, err := generate(opts)
	if err != nil {
		return err
	}
	log.Printf("wrote %d grid_stat files under %s", files, opts.root)

	if *configOut != "" {
		if err := writeConfig(*configOut, opts, *start, *end, *interval); err != nil {
			return err
		}
		log.Printf("wrote config %s", *configOut)
	}
	return nil
}

func parseLeads(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		h, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || h <= 0 {
			return nil, fmt.Errorf("invalid lead %q", f)
		}
		out = append(out, h)
	}
	return out, nil
}

// generate writes one cnt and one sl1l2 file per flow, cycle and lead. Each
// grid gets its own rows inside the same files, distinguished by DESC.
func generate(opts options) (int, error) {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	written := 0
	for _, flow := range opts.flows {
		for cycle := range opts.window.All() {
			dir := filepath.Join(opts.root, opts.caseName, flow, domain.FormatCycle(cycle)+opts.dateSubdir)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, err
			}
			for _, lead := range opts.leads {
				valid := cycle.Add(time.Duration(lead) * time.Hour)
				for _, fileType := range []string{"cnt", "sl1l2"} {
					name := statFileName(opts.prefix, lead, valid, fileType)
					body := statFile(rng, flow, opts.grids, lead, valid, fileType)
					if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
						return written, err
					}
					written++
				}
			}
		}
	}
	return written, nil
}

func leadToken(hours int) string {
	return strconv.Itoa(hours) + "0000"
}

func statFileName(prefix string, lead int, valid time.Time, fileType string) string {
	return fmt.Sprintf("grid_stat_%sFCST_%sL_%sV_%s.txt",
		domain.PrefixSeparator(prefix), leadToken(lead), valid.Format("20060102_150405"), fileType)
}

func statFile(rng *rand.Rand, flow string, grids []string, lead int, valid time.Time, fileType string) string {
	columns := cntColumns
	if fileType == "sl1l2" {
		columns = sl1l2Columns
	}

	var b strings.Builder
	b.WriteString(strings.Join(columns, " "))
	b.WriteByte('\n')

	validEnd := valid.Format("20060102_150405")
	for _, grid := range grids {
		for _, mask := range masks {
			total := 500 + rng.IntN(4500)
			row := []string{
				"V10.1.0", flow, grid, leadToken(lead), validEnd, validEnd, leadToken(lead),
				mask, strings.ToUpper(fileType), strconv.Itoa(total),
			}
			if fileType == "cnt" {
				row = append(row, statWithBounds(rng, 2+float64(lead)/12)...)
				row = append(row, statWithBounds(rng, 0)...)
			} else {
				f, o := 2+rng.Float64(), 2+rng.Float64()
				row = append(row, num(f), num(o), num(f*o), num(f*f), num(o*o), num(rng.Float64()))
			}
			b.WriteString(strings.Join(row, " "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// statWithBounds returns value, normal CI and bootstrap CI. Bootstrap bounds
// are NA, as MET writes them when bootstrapping is disabled.
func statWithBounds(rng *rand.Rand, center float64) []string {
	v := center + rng.NormFloat64()*0.3
	half := 0.1 + rng.Float64()*0.2
	return []string{num(v), num(v - half), num(v + half), domain.MissingSentinel, domain.MissingSentinel}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}

func writeConfig(path string, opts options, start, end, interval string) error {
	cfg := config.Config{
		Case:          opts.caseName,
		InRoot:        opts.root,
		OutRoot:       filepath.Join(opts.root, "out"),
		ControlFlows:  opts.flows,
		Grids:         opts.grids,
		Start:         start,
		End:           end,
		CycleInterval: interval,
		DateSubdir:    opts.dateSubdir,
	}
	if opts.prefix != "" {
		cfg.Prefixes = []string{opts.prefix}
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
