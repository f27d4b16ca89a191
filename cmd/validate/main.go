// Command validate checks the structural integrity of gridstat artifacts:
// that they decode, that their file name matches the recorded configuration,
// and that every table keeps a contiguous 1-based index with every column as
// long as the index.
//
// Usage:
//
//	go run ./cmd/validate out/CC/NAM/grid_stats_d01_2021012400_to_2021012800.bin ...
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/gridstat-etl/internal/adapter/artifact"
	"github.com/couchcryptid/gridstat-etl/internal/domain"
	"github.com/couchcryptid/gridstat-etl/internal/report"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: validate ARTIFACT...")
		os.Exit(1)
	}
	os.Exit(run(flag.Args()))
}

func run(paths []string) int {
	fmt.Println("=== Gridstat Artifact Validation ===")
	fmt.Println()

	allPassed := true
	for _, path := range paths {
		if !validateFile(path) {
			allPassed = false
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateFile(path string) bool {
	fmt.Println(path)

	a, err := artifact.Read(path)
	if err != nil {
		fmt.Printf("  %-32s \033[31mFAIL\033[0m\n    %v\n", "Decode", err)
		return false
	}

	phases := []*phase{
		validateIdentity(path, a),
		validateWindow(a),
		validateTables(a),
	}

	ok := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			ok = false
		}
		fmt.Printf("  %-32s %s\n", p.name, status)
	}
	fmt.Printf("  rows: %v\n", a.Tables.Rows())

	for _, p := range phases {
		for i, e := range p.errors {
			fmt.Printf("    %s [%d] %s\n", p.name, i+1, e)
		}
	}
	return ok
}

// validateIdentity checks the file name against the configuration recorded
// in the artifact.
func validateIdentity(path string, a *domain.Artifact) *phase {
	p := &phase{name: "Identity"}

	if a.ControlFlow == "" {
		p.errorf("control flow is empty")
	}
	if a.Grid == "" {
		p.errorf("grid is empty")
	}
	want := filepath.Base(domain.Configuration{
		Prefix: a.Prefix,
		Grid:   a.Grid,
		Start:  a.Start,
		End:    a.End,
	}.ArtifactPath())
	if got := filepath.Base(path); got != want {
		p.errorf("file name %q does not match recorded configuration (want %q)", got, want)
	}
	if a.CreatedAt.IsZero() {
		p.errorf("created_at is zero")
	}
	return p
}

func validateWindow(a *domain.Artifact) *phase {
	p := &phase{name: "Date window"}
	if _, err := domain.ParseCycleWindow(a.Start, a.End, a.CycleInterval); err != nil {
		p.errorf("%v", err)
	}
	return p
}

func validateTables(a *domain.Artifact) *phase {
	p := &phase{name: "Table structure"}
	for _, fileType := range a.Tables.Types() {
		t := a.Tables[fileType]
		if t == nil {
			p.errorf("%s: nil table", fileType)
			continue
		}
		if err := t.Validate(); err != nil {
			p.errorf("%s: %v", fileType, err)
		}
		if n := t.MissingCount(report.LeadColumn); n > 0 {
			fmt.Printf("  note: %s: %d rows without %s\n", fileType, n, report.LeadColumn)
		}
	}
	return p
}
