package util

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	type config struct {
		Name    string
		Retries int
		Delay   time.Duration
		Tags    []string
		hidden  string
	}
	t.Setenv("TEST_Name", "sel")
	t.Setenv("TEST_Delay", "2s")
	t.Setenv("TEST_Tags", `["a", "b"]`)
	c := config{Retries: 3, Name: "default"}
	if err := LoadConfig("TEST_", &c); err != nil {
		t.Fatal(err)
	}
	if c.Name != "sel" || c.Retries != 3 || c.Delay != 2*time.Second || strings.Join(c.Tags, ",") != "a,b" {
		t.Errorf("got %#v", c)
	}

	if err := LoadConfig("MISSING_", &config{}); err == nil || !strings.Contains(err.Error(), "MISSING_Name") {
		t.Errorf("expected lookup error, got %v", err)
	}
	t.Setenv("TEST_Retries", "many")
	if err := LoadConfig("TEST_", &c); err == nil {
		t.Errorf("expected unmarshal error")
	}
}

func TestRetry(t *testing.T) {
	ctx, calls := context.Background(), 0
	v, err := Retry(ctx, 2, time.Millisecond, func(context.Context) (int, error) {
		if calls++; calls < 3 {
			return 0, errors.New("flaky")
		}
		return 42, nil
	})
	if v != 42 || err != nil || calls != 3 {
		t.Errorf("got %d %v after %d calls", v, err, calls)
	}

	errBad := errors.New("bad")
	calls = 0
	_, err = Retry(ctx, 1, time.Millisecond, func(context.Context) (int, error) { calls++; return 0, errBad })
	if !errors.Is(err, errBad) || !strings.Contains(err.Error(), "max retries reached") || calls != 2 {
		t.Errorf("got %v after %d calls", err, calls)
	}

	ctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Retry(ctx, 5, time.Hour, func(context.Context) (int, error) { return 0, errBad })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCache(t *testing.T) {
	c, err := NewCache[[]string](t.TempDir(), "test")
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	f := func() ([]string, error) { calls++; return []string{"a", "b"}, nil }
	for i := 0; i < 3; i++ {
		if v, err := c.Get("k", f); err != nil || strings.Join(v, "") != "ab" {
			t.Errorf("got %v %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if _, err := c.Get("failing", func() ([]string, error) { return nil, errors.New("fail") }); err == nil {
		t.Errorf("expected error")
	}
	if v, _ := c.Get("failing", f); strings.Join(v, "") != "ab" {
		t.Errorf("errors must not be cached: %v", v)
	}

	disabled, _ := NewCache[[]string]("-", "test")
	calls = 0
	disabled.Get("k", f)
	disabled.Get("k", f)
	if calls != 2 {
		t.Errorf("disabled cache should always call f, got %d calls", calls)
	}
}

func TestLogger(t *testing.T) {
	w := &strings.Builder{}
	msgs := []string{}
	ctx := WithLogger(context.Background(), MinLvl(WARN, WriterSink(w)))
	ctx = WithLogger(ctx, func(lvl Lvl, msg string) { msgs = append(msgs, lvl.String()+" "+msg) })
	Debugf(ctx, "a %d", 1)
	Warnf(ctx, "b %d", 2)
	Errorf(ctx, "c")
	if actual, expected := strings.Join(msgs, "|"), "DEBUG a 1|WARN b 2|ERROR c"; actual != expected {
		t.Errorf("got:\n\t'%s'\n\nexpected:\n\t'%s'", actual, expected)
	}
	if lines := strings.Split(strings.TrimSpace(w.String()), "\n"); len(lines) != 2 ||
		!strings.HasSuffix(lines[0], "WARN  b 2") || !strings.HasSuffix(lines[1], "ERROR c") {
		t.Errorf("unexpected writer output: %q", w.String())
	}
	Infof(context.Background(), "no logger, no panic")

	for s, expected := range map[string]Lvl{"debug": DEBUG, "INFO": INFO, "Warn": WARN, "error": ERROR} {
		if l, err := ParseLvl(s); err != nil || l != expected {
			t.Errorf("ParseLvl(%q): got %s %v", s, l, err)
		}
	}
	if _, err := ParseLvl("loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
