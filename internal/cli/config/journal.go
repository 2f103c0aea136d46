package config

import (
	appcfg "github.com/rustyeddy/phoenix/config"
	"github.com/rustyeddy/phoenix/journal"
)

// OpenJournal builds the journal a run configuration selects, falling back
// to the --db SQLite path. A nil journal (with nil error) means "do not
// persist".
func OpenJournal(rc *RootConfig, jc *appcfg.JournalConfig) (journal.Journal, error) {
	if jc != nil {
		switch jc.Type {
		case "none":
			return nil, nil
		case "csv":
			return journal.NewCSV(jc.RunsFile, jc.ScenariosFile)
		case "sqlite":
			if jc.DBPath != "" {
				return journal.NewSQLite(jc.DBPath)
			}
		}
	}

	if rc.DBPath == "" {
		return nil, nil
	}
	return journal.NewSQLite(rc.DBPath)
}
