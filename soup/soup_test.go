package soup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/niklasfasching/sel/css"
	"github.com/niklasfasching/sel/util"
)

const page = `<ul id="list"><li class="a">foo</li><li>bar</li><li class="a">baz  <b>qux</b></li></ul><p>  x
  y </p>`

func TestSoup(t *testing.T) {
	d := MustParse(strings.NewReader(`<ul><li>foo</li><li>bar</li></ul>`))
	if actual := d.All("li").Text("\n"); actual != "foo\nbar" {
		t.Errorf("Got %s, expected foo\\nbar", actual)
	}
}

func TestFind(t *testing.T) {
	d := MustParse(strings.NewReader(page))
	ul := d.First("ul")
	lis, err := ul.Find("li.a")
	if err != nil {
		t.Fatal(err)
	}
	if actual, expected := lis.Text("|"), "foo|baz  qux"; actual != expected {
		t.Errorf("got:\n\t'%s'\n\nexpected:\n\t'%s'", actual, expected)
	}
	if ns, err := ul.Find("ul"); err != nil || ns.Len() != 0 {
		t.Errorf("Find must not include the context itself: %v %v", ns.HTML(), err)
	}
	if ns, err := ul.All("ul").Find("li:nth-child(2)"); err != nil || ns.Text("") != "bar" {
		t.Errorf("got %q %v", ns.Text(""), err)
	}
	if _, err := ul.Find("li["); !errors.As(err, new(*css.ParseError)) {
		t.Errorf("expected wrapped ParseError, got %v", err)
	}
	b := d.First("b")
	for selector, expected := range map[string]bool{"li > b": true, "#list b": true, "p b": false} {
		if ok, err := b.Match(selector); err != nil || ok != expected {
			t.Errorf("Match(%s): got %v (%v), expected %v", selector, ok, err, expected)
		}
	}
}

func TestText(t *testing.T) {
	d := MustParse(strings.NewReader(page))
	if actual, expected := d.First("p").TrimmedText(), "x\ny"; actual != expected {
		t.Errorf("got:\n\t'%q'\n\nexpected:\n\t'%q'", actual, expected)
	}
	if actual, expected := d.First("li:last-child").TrimmedText(), "baz qux"; actual != expected {
		t.Errorf("got:\n\t'%q'\n\nexpected:\n\t'%q'", actual, expected)
	}
	lis := d.All("li")
	if actual, expected := lis.Attribute("class"), []string{"a", "", "a"}; !reflect.DeepEqual(actual, expected) {
		t.Errorf("got:\n\t'%v'\n\nexpected:\n\t'%v'", actual, expected)
	}
	if lis.Eq(3) != nil || lis.Eq(-1) != nil || lis.Eq(1).Text() != "bar" {
		t.Errorf("bad Eq")
	}
	if actual, expected := d.First("b").OuterHTML(), "<b>qux</b>"; actual != expected {
		t.Errorf("got:\n\t'%s'\n\nexpected:\n\t'%s'", actual, expected)
	}
	var missing *Node = d.First("table")
	if missing.Text() != "" || missing.OuterHTML() != "" || missing.All("td") != nil {
		t.Errorf("nil nodes should be empty")
	}
}

func TestLoader(t *testing.T) {
	var requests int32
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n := atomic.AddInt32(&requests, 1); n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.Header.Get("User-Agent") != "sel-test" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(page))
	}))
	defer s.Close()

	var logs []string
	ctx := util.WithLogger(context.Background(), func(lvl util.Lvl, msg string) { logs = append(logs, msg) })
	cache, err := util.NewCache[[]byte](t.TempDir(), "http")
	if err != nil {
		t.Fatal(err)
	}
	l := &Loader{Client: s.Client(), Cache: cache, UserAgent: "sel-test", Retries: 1, Delay: time.Millisecond}
	for i := 0; i < 2; i++ {
		d, err := l.Load(ctx, s.URL)
		if err != nil {
			t.Fatal(err)
		}
		if actual := d.All("li").Len(); actual != 3 {
			t.Errorf("expected 3 li, got %d", actual)
		}
	}
	if n := atomic.LoadInt32(&requests); n != 2 {
		t.Errorf("expected 1 failed and 1 successful request, got %d", n)
	}
	if len(logs) != 3 {
		t.Errorf("expected 2 GET and 1 retry log lines, got %q", logs)
	}

	l = &Loader{Client: s.Client()}
	if _, err := l.Load(ctx, s.URL); err == nil || !strings.Contains(err.Error(), "status: 403") {
		t.Errorf("expected status error, got %v", err)
	}
}
