package domain

import "time"

// Artifact is the persisted result of one configuration: its tables plus the
// identity and date window they were built from.
type Artifact struct {
	ControlFlow   string
	Prefix        string
	Grid          string
	Case          string
	Start         string
	End           string
	CycleInterval string
	CreatedAt     time.Time
	Tables        TableSet
}

// NewArtifact stamps tables with the configuration that produced them.
func NewArtifact(cfg Configuration, tables TableSet) *Artifact {
	return &Artifact{
		ControlFlow:   cfg.ControlFlow,
		Prefix:        cfg.Prefix,
		Grid:          cfg.Grid,
		Case:          cfg.Case,
		Start:         cfg.Start,
		End:           cfg.End,
		CycleInterval: cfg.CycleInterval,
		CreatedAt:     Now(),
		Tables:        tables,
	}
}

// ArtifactEvent announces a persisted artifact to downstream consumers.
type ArtifactEvent struct {
	ControlFlow string         `json:"control_flow"`
	Prefix      string         `json:"prefix,omitempty"`
	Grid        string         `json:"grid"`
	Case        string         `json:"case,omitempty"`
	Path        string         `json:"path"`
	Start       string         `json:"start"`
	End         string         `json:"end"`
	Rows        map[string]int `json:"rows"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Event describes a written artifact.
func (a *Artifact) Event(path string) ArtifactEvent {
	return ArtifactEvent{
		ControlFlow: a.ControlFlow,
		Prefix:      a.Prefix,
		Grid:        a.Grid,
		Case:        a.Case,
		Path:        path,
		Start:       a.Start,
		End:         a.End,
		Rows:        a.Tables.Rows(),
		CreatedAt:   a.CreatedAt,
	}
}

// Key identifies the configuration an event belongs to.
func (e ArtifactEvent) Key() string {
	return PrefixSeparator(e.Prefix) + e.ControlFlow + "_" + e.Grid
}
