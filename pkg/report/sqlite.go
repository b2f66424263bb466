package report

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Channel name used for mean-mode rows in the results table.
const MeanChannel = "mean"

// SQLiteSink appends results to a SQLite database so runs can be compared
// with plain SQL. Each sink instance tags its rows with one run id.
type SQLiteSink struct {
	db  *sql.DB
	run string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path, run string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "sqlite: failed to open database")
	}
	db.SetMaxOpenConns(1)

	const schema = `
		CREATE TABLE IF NOT EXISTS results (
			run     TEXT NOT NULL,
			domain  TEXT NOT NULL,
			channel TEXT NOT NULL,
			name    TEXT NOT NULL,
			param   INTEGER NOT NULL,
			value   REAL NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "sqlite: failed to initialize schema")
	}
	return &SQLiteSink{db: db, run: run}, nil
}

func (s *SQLiteSink) Run() string { return s.run }

// InsertMeans stores mean-mode records under MeanChannel.
func (s *SQLiteSink) InsertMeans(ctx context.Context, domain string, recs []Record) error {
	return s.InsertRegression(ctx, domain, []ChannelRecords{{Channel: MeanChannel, Records: recs}})
}

// InsertRegression stores every channel's records in one transaction.
func (s *SQLiteSink) InsertRegression(ctx context.Context, domain string, chans []ChannelRecords) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "sqlite: failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run, domain, channel, name, param, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "sqlite: failed to prepare insert")
	}
	defer stmt.Close()

	for _, ch := range chans {
		for _, r := range ch.Records {
			if _, err := stmt.ExecContext(ctx, s.run, domain, ch.Channel, r.Name, r.Param, r.Value); err != nil {
				return errors.Wrapf(err, "sqlite: failed to insert %s/%d", r.Name, r.Param)
			}
		}
	}
	return errors.Wrap(tx.Commit(), "sqlite: failed to commit")
}

func (s *SQLiteSink) Close() error { return s.db.Close() }
