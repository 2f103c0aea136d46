// Package journal persists valuation runs and per-scenario results. Backends
// exist for SQLite and CSV; callers that do not persist can pass a nil
// journal to the layers that accept one.
package journal

import "time"

// ValuationRun summarizes one aggregate valuation (a Monte Carlo batch or a
// file-driven scenario run).
type ValuationRun struct {
	RunID       string
	Created     time.Time
	Terms       string // term sheet path or label
	Structure   string // "single" or "worst_of"
	Simulations int
	Failures    int

	MeanValue    float64
	StdValue     float64
	MeanCoupons  float64
	MeanPayoff   float64
	AutocallProb float64

	P5  float64
	P25 float64
	P50 float64
	P75 float64
	P95 float64
}

// ScenarioRecord is one priced (or failed) scenario inside a run. Err is
// empty on success.
type ScenarioRecord struct {
	RunID             string
	Index             int
	TotalCoupons      float64
	FinalPayoff       float64
	TotalValue        float64
	AutocallTriggered bool
	AutocallDate      string
	KnockInEvent      bool
	Err               string
}

type Journal interface {
	RecordRun(ValuationRun) error
	RecordScenario(ScenarioRecord) error
	Close() error
}
