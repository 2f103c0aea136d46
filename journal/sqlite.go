package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r ValuationRun) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, terms, structure, simulations, failures,
		 mean_value, std_value, mean_coupons, mean_payoff, autocall_prob,
		 p5, p25, p50, p75, p95)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Terms, r.Structure, r.Simulations, r.Failures,
		r.MeanValue, r.StdValue, r.MeanCoupons, r.MeanPayoff, r.AutocallProb,
		r.P5, r.P25, r.P50, r.P75, r.P95,
	)
	return err
}

func (j *SQLiteJournal) RecordScenario(s ScenarioRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO scenarios
		(run_id, idx, total_coupons, final_payoff, total_value,
		 autocall_triggered, autocall_date, knock_in_event, err)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.Index, s.TotalCoupons, s.FinalPayoff, s.TotalValue,
		s.AutocallTriggered, s.AutocallDate, s.KnockInEvent, s.Err,
	)
	return err
}

// GetRun loads one run summary by ID.
func (j *SQLiteJournal) GetRun(runID string) (ValuationRun, error) {
	row := j.db.QueryRow(`
		SELECT run_id, created, terms, structure, simulations, failures,
		       mean_value, std_value, mean_coupons, mean_payoff, autocall_prob,
		       p5, p25, p50, p75, p95
		FROM runs WHERE run_id = ?`, runID)

	var r ValuationRun
	err := row.Scan(&r.RunID, &r.Created, &r.Terms, &r.Structure, &r.Simulations,
		&r.Failures, &r.MeanValue, &r.StdValue, &r.MeanCoupons, &r.MeanPayoff,
		&r.AutocallProb, &r.P5, &r.P25, &r.P50, &r.P75, &r.P95)
	return r, err
}

// ListScenariosByRun returns a run's scenario records ordered by index.
func (j *SQLiteJournal) ListScenariosByRun(runID string) ([]ScenarioRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, idx, total_coupons, final_payoff, total_value,
		       autocall_triggered, autocall_date, knock_in_event, err
		FROM scenarios WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []ScenarioRecord
	for rows.Next() {
		var s ScenarioRecord
		if err := rows.Scan(&s.RunID, &s.Index, &s.TotalCoupons, &s.FinalPayoff,
			&s.TotalValue, &s.AutocallTriggered, &s.AutocallDate,
			&s.KnockInEvent, &s.Err); err != nil {
			return nil, err
		}
		recs = append(recs, s)
	}
	return recs, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
