package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMigrate(t *testing.T) {
	p := filepath.Join(t.TempDir(), "db.sqlite")
	db, err := New(p, Migrations, nil)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()
	if db, err = New(p, Migrations, nil); err != nil {
		t.Fatalf("reopening should not reapply migrations: %s", err)
	}
	db.Close()
	if _, err := New(p, []string{"CREATE TABLE foo (bar)"}, nil); err == nil {
		t.Errorf("expected changed migration to fail")
	}
}

func TestMatches(t *testing.T) {
	ctx := context.Background()
	db, err := New(filepath.Join(t.TempDir(), "db.sqlite"), Migrations, map[string]any{"double": PureFunc{func(i int) int { return 2 * i }}})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ms := []Match{
		{"a.html", "li", 0, `<li class="x">foo</li>`, "foo"},
		{"a.html", "li", 1, `<li><b>bar</b></li>`, "bar"},
		{"b.html", "li", 0, `<li>baz</li>`, "baz"},
	}
	if err := db.Insert(ctx, ms...); err != nil {
		t.Fatal(err)
	}
	if err := db.Insert(ctx, ms[2]); err != nil {
		t.Fatal(err)
	}
	all, err := db.Matches(ctx, "SELECT * FROM matches ORDER BY source, idx")
	if err != nil {
		t.Fatal(err)
	} else if !reflect.DeepEqual(all, ms) {
		t.Errorf("got:\n\t'%v'\n\nexpected:\n\t'%v'", all, ms)
	}

	for selector, expected := range map[string][]Match{
		"li.x":     ms[:1],
		"li > b":   ms[1:2],
		"table li": {},
	} {
		actual, err := db.Matches(ctx, "SELECT * FROM matches WHERE css_match(html, ?) ORDER BY source, idx", selector)
		if err != nil {
			t.Errorf("%s: %s", selector, err)
		} else if !reflect.DeepEqual(actual, expected) {
			t.Errorf("%s\ngot:\n\t'%v'\n\nexpected:\n\t'%v'", selector, actual, expected)
		}
	}

	text, count, doubled := "", 0, 0
	q := "SELECT css_text(html, 'b'), css_count(html, 'li, b'), double(idx) FROM matches WHERE source = 'a.html' AND idx = 1"
	if err := db.QueryRow(q).Scan(&text, &count, &doubled); err != nil {
		t.Fatal(err)
	} else if text != "bar" || count != 2 || doubled != 2 {
		t.Errorf("got %q %d %d", text, count, doubled)
	}
	if _, err := db.Matches(ctx, "SELECT * FROM matches WHERE css_match(html, 'li[')"); err == nil {
		t.Errorf("expected invalid selector to fail the query")
	}
}

func TestPureFunc(t *testing.T) {
	counter := 0
	db, err := New(filepath.Join(t.TempDir(), "db.sqlite"), Migrations, map[string]any{
		"double": PureFunc{func(i int) int { return 2 * i }},
		"tick":   func(i int) int { counter++; return i + counter },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for q, ok := range map[string]bool{
		"CREATE INDEX double_idx ON matches (double(idx))":       true,
		"CREATE INDEX css_idx ON matches (css_count(html, 'b'))": true,
		"CREATE INDEX tick_idx ON matches (tick(idx))":           false,
	} {
		if _, err := db.Exec(q); (err == nil) != ok {
			t.Errorf("%s: got %v, expected success: %v", q, err, ok)
		}
	}
}
