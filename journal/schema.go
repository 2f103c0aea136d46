// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	terms TEXT NOT NULL,
	structure TEXT NOT NULL,
	simulations INTEGER NOT NULL,
	failures INTEGER NOT NULL,
	mean_value REAL NOT NULL,
	std_value REAL NOT NULL,
	mean_coupons REAL NOT NULL,
	mean_payoff REAL NOT NULL,
	autocall_prob REAL NOT NULL,
	p5 REAL NOT NULL,
	p25 REAL NOT NULL,
	p50 REAL NOT NULL,
	p75 REAL NOT NULL,
	p95 REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS scenarios (
	run_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	total_coupons REAL NOT NULL,
	final_payoff REAL NOT NULL,
	total_value REAL NOT NULL,
	autocall_triggered INTEGER NOT NULL,
	autocall_date TEXT NOT NULL,
	knock_in_event INTEGER NOT NULL,
	err TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scenarios_run ON scenarios(run_id);
`
