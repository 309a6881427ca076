package sqlite

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/niklasfasching/sel/css"
	"github.com/niklasfasching/sel/soup"
)

type Match struct {
	Source   string
	Selector string
	Idx      int
	HTML     string
	Text     string
}

var selectors sync.Map

// Insert replaces all matches stored for the sources and selectors of ms.
func (db *DB) Insert(ctx context.Context, ms ...Match) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	cleared := map[[2]string]bool{}
	for _, m := range ms {
		if k := [2]string{m.Source, m.Selector}; !cleared[k] {
			if _, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE source = ? AND selector = ?", k[0], k[1]); err != nil {
				return fmt.Errorf("failed to clear %q: %w", m.Source, err)
			}
			cleared[k] = true
		}
		q := "INSERT INTO matches (source, selector, idx, html, text) VALUES (?, ?, ?, ?, ?)"
		if _, err := tx.ExecContext(ctx, q, m.Source, m.Selector, m.Idx, m.HTML, m.Text); err != nil {
			return fmt.Errorf("failed to insert %s[%d]: %w", m.Source, m.Idx, err)
		}
	}
	return tx.Commit()
}

// Matches returns the stored matches of a query against the matches table, e.g.
// "SELECT * FROM matches WHERE css_match(html, ?)".
func (db *DB) Matches(ctx context.Context, q string, args ...any) ([]Match, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ms := []Match{}
	for rows.Next() {
		m := Match{}
		if err := rows.Scan(&m.Source, &m.Selector, &m.Idx, &m.HTML, &m.Text); err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

func compile(selector string) (css.Selector, error) {
	if s, ok := selectors.Load(selector); ok {
		return s.(css.Selector), nil
	}
	s, err := css.Compile(selector)
	if err != nil {
		return nil, err
	}
	selectors.Store(selector, s)
	return s, nil
}

func find(html, selector string) (soup.Nodes, error) {
	s, err := compile(selector)
	if err != nil {
		return nil, err
	}
	d, err := soup.Parse(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return d.AllSel(s), nil
}

func cssMatch(html, selector string) (bool, error) {
	ns, err := find(html, selector)
	return len(ns) != 0, err
}

func cssCount(html, selector string) (int, error) {
	ns, err := find(html, selector)
	return len(ns), err
}

func cssText(html, selector string) (string, error) {
	ns, err := find(html, selector)
	return ns.Text(" "), err
}
