// Package simulator models the staged hunt animation as a finite-state
// machine advanced by fixed ticks.
package simulator

import (
	"time"

	"icp-hunter/internal/domain"
)

// Tick is the fixed interval between progress updates.
const Tick = 50 * time.Millisecond

// Stage is one step of the hunt sequence.
type Stage int

const (
	Activated Stage = iota
	Scanning
	Analyzing
	Scoring
	Complete
)

var stageNames = [...]string{"activated", "scanning", "analyzing", "scoring", "complete"}

func (s Stage) String() string {
	if s < Activated || s > Complete {
		return "unknown"
	}
	return stageNames[s]
}

// MarshalText encodes the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Params are the tier-specific constants driving a run.
type Params struct {
	Tier          domain.TierID
	Durations     [5]time.Duration
	Tick          time.Duration
	ProgressStep  float64
	Scope         int
	ScanStep      int
	TargetStep    int
	MaxTargets    int
	HighValueStep int
	MaxHighValue  int
}

// ParamsFor derives run parameters from a tier. The progress step is
// sized so the bar fills exactly when the final stage begins, which makes
// the shorter tier's bar move faster.
func ParamsFor(t domain.Tier) Params {
	var busy time.Duration
	for _, d := range t.Stages[:Complete] {
		busy += d
	}
	return Params{
		Tier:          t.ID,
		Durations:     t.Stages,
		Tick:          Tick,
		ProgressStep:  100 * float64(Tick) / float64(busy),
		Scope:         t.FollowerLimit,
		ScanStep:      t.ScanStep,
		TargetStep:    t.TargetStep,
		MaxTargets:    t.MaxTargets,
		HighValueStep: t.HighValueStep,
		MaxHighValue:  t.MaxHighValue,
	}
}

// TotalDuration is the time from activation to hand-off.
func (p Params) TotalDuration() time.Duration {
	var total time.Duration
	for _, d := range p.Durations {
		total += d
	}
	return total
}

// State is a snapshot of a run.
type State struct {
	Stage              Stage         `json:"stage"`
	StageElapsed       time.Duration `json:"-"`
	Elapsed            time.Duration `json:"-"`
	Progress           float64       `json:"progress"`
	ProfilesScanned    int           `json:"profilesScanned"`
	PotentialTargets   int           `json:"potentialTargets"`
	HighValueProspects int           `json:"highValueProspects"`
	HandedOff          bool          `json:"handedOff"`
	Notice             string        `json:"notice,omitempty"`
}

// ETA is the remaining time until hand-off.
func (s State) ETA(p Params) time.Duration {
	return max(p.TotalDuration()-s.Elapsed, 0)
}

// Step advances s by one tick. It is pure: the same input always yields
// the same output. Stages only move forward, one at a time, and a handed
// off state never changes again.
func Step(s State, p Params) State {
	if s.HandedOff {
		return s
	}

	if s.Progress < 100 {
		s.Progress = min(s.Progress+p.ProgressStep, 100)
	}

	switch s.Stage {
	case Scanning:
		s.ProfilesScanned = min(s.ProfilesScanned+p.ScanStep, p.Scope)
	case Analyzing:
		s.PotentialTargets = min(s.PotentialTargets+p.TargetStep, p.MaxTargets)
		s.HighValueProspects = min(s.HighValueProspects+p.HighValueStep, p.MaxHighValue)
	}

	s.StageElapsed += p.Tick
	s.Elapsed += p.Tick
	if s.StageElapsed < p.Durations[s.Stage] {
		return s
	}

	if s.Stage == Complete {
		s.HandedOff = true
		return s
	}
	s.Stage++
	s.StageElapsed = 0
	s.Notice = ""
	if s.Stage == Complete {
		s.Progress = 100
	}
	return s
}

// Advance applies as many whole ticks as fit in elapsed.
func Advance(s State, p Params, elapsed time.Duration) State {
	for n := elapsed / p.Tick; n > 0 && !s.HandedOff; n-- {
		s = Step(s, p)
	}
	return s
}
