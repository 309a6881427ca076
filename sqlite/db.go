// Package sqlite stores css selector matches and exposes the css engine to sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
)

type DB struct {
	funcs map[string]any
	*sql.DB
}

type Tx struct {
	*sql.Tx
	*DB
}

// PureFunc marks F as deterministic, i.e. usable in indexes and check constraints.
type PureFunc struct{ F any }

var driverIndex = 0
var driverMutex sync.Mutex
var defaultFuncs = map[string]any{
	"css_match": PureFunc{cssMatch},
	"css_text":  PureFunc{cssText},
	"css_count": PureFunc{cssCount},
}

var Migrations = []string{
	`CREATE TABLE matches (
       source TEXT NOT NULL,
       selector TEXT NOT NULL,
       idx INTEGER NOT NULL,
       html TEXT NOT NULL,
       text TEXT NOT NULL,
       PRIMARY KEY (source, selector, idx))`,
}

// New opens the database name and applies all migrations that have not been applied yet.
// fs are registered as sql functions in addition to the css functions.
func New(name string, migrations []string, fs map[string]any) (*DB, error) {
	d := &DB{funcs: map[string]any{}}
	maps.Copy(d.funcs, defaultFuncs)
	maps.Copy(d.funcs, fs)
	driverMutex.Lock()
	driver := fmt.Sprintf("sqlite3-sel-%d", driverIndex)
	driverIndex++
	sql.Register(driver, &sqlite3.SQLiteDriver{ConnectHook: d.connectHook})
	driverMutex.Unlock()
	db, err := sql.Open(driver, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}
	d.DB = db
	return d, d.migrate(migrations)
}

func (db *DB) Begin() (*Tx, error) {
	return db.BeginTx(context.Background(), nil)
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	return &Tx{tx, db}, err
}

func (db *DB) connectHook(c *sqlite3.SQLiteConn) error {
	for name, f := range db.funcs {
		v, isPure := f.(PureFunc)
		if isPure {
			f = v.F
		}
		if err := c.RegisterFunc(name, f, isPure); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) migrate(migrations []string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS _migrations (sql TEXT)`); err != nil {
		return fmt.Errorf("failed to create _migrations table: %w", err)
	}
	rows, err := tx.Query("SELECT sql FROM _migrations ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("failed to query _migrations: %w", err)
	}
	applied := []string{}
	for rows.Next() {
		s := ""
		if err := rows.Scan(&s); err != nil {
			rows.Close()
			return err
		}
		applied = append(applied, s)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if len(migrations) < len(applied) {
		return fmt.Errorf("db has %d migrations applied, only %d known", len(applied), len(migrations))
	}
	for i := range applied {
		if migrations[i] != applied[i] {
			return fmt.Errorf("migration %d changed: %q", i, applied[i])
		}
	}
	for _, stmt := range migrations[len(applied):] {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply migration %q: %w", stmt, err)
		}
		if _, err := tx.Exec("INSERT INTO _migrations (sql) VALUES (?)", stmt); err != nil {
			return fmt.Errorf("failed to record migration %q: %w", stmt, err)
		}
	}
	return tx.Commit()
}
