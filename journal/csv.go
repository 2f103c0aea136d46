// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	runs      *csv.Writer
	scenarios *csv.Writer
	rf, sf    *os.File
}

func NewCSV(runsPath, scenariosPath string) (*CSVJournal, error) {
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(scenariosPath)
	if err != nil {
		return nil, err
	}

	rw := csv.NewWriter(rf)
	sw := csv.NewWriter(sf)

	if err := rw.Write([]string{"run_id", "created", "terms", "structure", "simulations", "failures",
		"mean_value", "std_value", "mean_coupons", "mean_payoff", "autocall_prob",
		"p5", "p25", "p50", "p75", "p95"}); err != nil {
		return nil, err
	}
	if err := sw.Write([]string{"run_id", "idx", "total_coupons", "final_payoff", "total_value",
		"autocall_triggered", "autocall_date", "knock_in_event", "err"}); err != nil {
		return nil, err
	}

	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}
	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{rw, sw, rf, sf}, nil
}

func (j *CSVJournal) RecordRun(r ValuationRun) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		r.Terms,
		r.Structure,
		strconv.Itoa(r.Simulations),
		strconv.Itoa(r.Failures),
		f(r.MeanValue),
		f(r.StdValue),
		f(r.MeanCoupons),
		f(r.MeanPayoff),
		f(r.AutocallProb),
		f(r.P5), f(r.P25), f(r.P50), f(r.P75), f(r.P95),
	})
	if err != nil {
		return err
	}

	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordScenario(s ScenarioRecord) error {
	err := j.scenarios.Write([]string{
		s.RunID,
		strconv.Itoa(s.Index),
		f(s.TotalCoupons),
		f(s.FinalPayoff),
		f(s.TotalValue),
		strconv.FormatBool(s.AutocallTriggered),
		s.AutocallDate,
		strconv.FormatBool(s.KnockInEvent),
		s.Err,
	})
	if err != nil {
		return err
	}

	j.scenarios.Flush()
	return j.scenarios.Error()
}

func (j *CSVJournal) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.scenarios.Flush()
	if err := j.scenarios.Error(); err != nil {
		return err
	}

	if err := j.rf.Close(); err != nil {
		return err
	}
	if err := j.sf.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
