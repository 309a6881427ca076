// sel prints the nodes of html documents matching a css selector.
//
//	sel [-ctx selector] [-match selector] [-text] [-attr name] [-db file] [-j n] selector [file|url|-]...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/niklasfasching/sel/css"
	"github.com/niklasfasching/sel/soup"
	"github.com/niklasfasching/sel/sqlite"
	"github.com/niklasfasching/sel/util"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	UserAgent string
	CacheDir  string
	Retries   int
	LogLevel  string
}

var DefaultConfig = Config{
	UserAgent: "sel/1.0",
	CacheDir:  "-",
	Retries:   2,
	LogLevel:  "WARN",
}

type document struct {
	source string
	root   *soup.Node
}

var errSelector = errors.New("bad selector")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := DefaultConfig
	if err := util.LoadConfig("", &c); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	lvl, err := util.ParseLvl(c.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	ctx = util.WithLogger(ctx, util.MinLvl(lvl, util.WriterSink(stderr)))
	if err := sel(ctx, c, args, stdin, stdout, stderr); errors.Is(err, flag.ErrHelp) {
		return 0
	} else if errors.Is(err, errSelector) {
		util.Errorf(ctx, "%s", err)
		return 2
	} else if err != nil {
		util.Errorf(ctx, "%s", err)
		return 1
	}
	return 0
}

func sel(ctx context.Context, c Config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	contextSelector := fs.String("ctx", "", "only search below nodes matching this selector")
	matchSelector := fs.String("match", "", "only keep nodes also matching this selector")
	text := fs.Bool("text", false, "print the trimmed text content instead of html")
	attr := fs.String("attr", "", "print the value of this attribute instead of html")
	dbPath := fs.String("db", "", "store matches in this sqlite database")
	concurrency := fs.Int("j", 4, "number of documents to load concurrently")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: sel [flags] selector [file|url|-]...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	} else if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("%w: missing selector", errSelector)
	}
	selector, sources := fs.Arg(0), fs.Args()[1:]
	if len(sources) == 0 {
		sources = []string{"-"}
	}
	if i := slices.Index(sources, "-"); i != -1 && slices.Contains(sources[i+1:], "-") {
		return fmt.Errorf("stdin can only be read once")
	}
	if _, err := css.Compile(selector); err != nil {
		return fmt.Errorf("%w: %w", errSelector, err)
	}
	for _, s := range []string{*contextSelector, *matchSelector} {
		if _, err := css.Compile(s); s != "" && err != nil {
			return fmt.Errorf("%w: %w", errSelector, err)
		}
	}
	var match css.Selector
	if *matchSelector != "" {
		match = css.MustCompile(*matchSelector)
	}

	cache, err := util.NewCache[[]byte](c.CacheDir, "sel")
	if err != nil {
		return err
	}
	l := &soup.Loader{Cache: cache, UserAgent: c.UserAgent, Retries: c.Retries}
	docs, err := load(ctx, l, sources, stdin, *concurrency)
	if err != nil {
		return err
	}

	var db *sqlite.DB
	if *dbPath != "" {
		if db, err = sqlite.New(*dbPath, sqlite.Migrations, nil); err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer db.Close()
	}
	for _, d := range docs {
		e := &css.Engine{Document: soup.AsCSSNode(d.root)}
		var found []css.Node
		if *contextSelector != "" {
			found, err = e.FindWithin(selector, *contextSelector)
		} else {
			found, err = e.Find(selector)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", d.source, err)
		}
		if match != nil {
			found = slices.DeleteFunc(found, func(n css.Node) bool { return !match.Match(n) })
		}
		util.Debugf(ctx, "%s: %d matches", d.source, len(found))
		ms := make([]sqlite.Match, len(found))
		for i, n := range found {
			sn := soup.AsNode(css.AsHTML(n))
			ms[i] = sqlite.Match{Source: d.source, Selector: selector, Idx: i, HTML: sn.OuterHTML(), Text: sn.TrimmedText()}
			switch {
			case *attr != "":
				fmt.Fprintln(stdout, sn.Attribute(*attr))
			case *text:
				fmt.Fprintln(stdout, ms[i].Text)
			default:
				fmt.Fprintln(stdout, ms[i].HTML)
			}
		}
		if db != nil {
			if err := db.Insert(ctx, ms...); err != nil {
				return fmt.Errorf("failed to store matches of %s: %w", d.source, err)
			}
		}
	}
	return nil
}

func load(ctx context.Context, l *soup.Loader, sources []string, stdin io.Reader, concurrency int) ([]document, error) {
	docs := make([]document, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, source := range sources {
		g.Go(func() error {
			root, err := loadOne(ctx, l, source, stdin)
			if err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}
			docs[i] = document{source, root}
			return nil
		})
	}
	return docs, g.Wait()
}

func loadOne(ctx context.Context, l *soup.Loader, source string, stdin io.Reader) (*soup.Node, error) {
	switch {
	case source == "-":
		return soup.Parse(stdin)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.Load(ctx, source)
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		util.Debugf(ctx, "read %s", source)
		return soup.Parse(f)
	}
}
