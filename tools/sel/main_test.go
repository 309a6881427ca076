package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/niklasfasching/sel/sqlite"
)

const page = `<html><body>
<div id="nav"><a href="/a">A</a><a href="/b" class="x">B</a></div>
<div id="main"><a href="/c" class="x">C</a><p>hello <a href="/d">D</a></p></div>
</body></html>`

func TestSel(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "page.html")
	if err := os.WriteFile(file, []byte(page), 0644); err != nil {
		t.Fatal(err)
	}
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<ul><li>one</li><li>two</li></ul>`))
	}))
	defer s.Close()

	for _, c := range []struct {
		args   []string
		stdin  string
		code   int
		stdout string
	}{
		{[]string{"-attr", "href", "a", file}, "", 0, "/a\n/b\n/c\n/d\n"},
		{[]string{"-text", "-ctx", "#main", "a", file}, "", 0, "C\nD\n"},
		{[]string{"-match", ".x", "a", file}, "", 0, "<a href=\"/b\" class=\"x\">B</a>\n<a href=\"/c\" class=\"x\">C</a>\n"},
		{[]string{"-text", "li:last-child", s.URL, "-"}, "<li>x</li><li>y</li>", 0, "two\ny\n"},
		{[]string{"-text", "li"}, "<li>stdin</li>", 0, "stdin\n"},
		{[]string{"a["}, "", 2, ""},
		{[]string{"-match", "a::before", "a", file}, "", 2, ""},
		{[]string{}, "", 2, ""},
		{[]string{"a", filepath.Join(dir, "missing.html")}, "", 1, ""},
		{[]string{"a", "-", "-"}, "", 1, ""},
	} {
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		code := run(context.Background(), c.args, strings.NewReader(c.stdin), stdout, stderr)
		if code != c.code || stdout.String() != c.stdout {
			t.Errorf("%v: got %d\n\t'%s'\n\nexpected %d\n\t'%s'\n%s", c.args, code, stdout, c.code, c.stdout, stderr)
		}
	}
}

func TestSelDB(t *testing.T) {
	dir := t.TempDir()
	file, dbPath := filepath.Join(dir, "page.html"), filepath.Join(dir, "db.sqlite")
	if err := os.WriteFile(file, []byte(page), 0644); err != nil {
		t.Fatal(err)
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	if code := run(context.Background(), []string{"-db", dbPath, "-ctx", "#main", "a", file}, nil, stdout, stderr); code != 0 {
		t.Fatalf("got %d: %s", code, stderr)
	}
	db, err := sqlite.New(dbPath, sqlite.Migrations, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ms, err := db.Matches(context.Background(), "SELECT * FROM matches WHERE css_match(html, '.x')")
	if err != nil {
		t.Fatal(err)
	}
	expected := sqlite.Match{Source: file, Selector: "a", Idx: 0, HTML: `<a href="/c" class="x">C</a>`, Text: "C"}
	if len(ms) != 1 || ms[0] != expected {
		t.Errorf("got:\n\t'%v'\n\nexpected:\n\t'%v'", ms, expected)
	}
}
