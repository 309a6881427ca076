package soup

import (
	"bytes"
	"cmp"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/niklasfasching/sel/util"
)

// Loader fetches and parses html documents.
type Loader struct {
	Client    *http.Client
	Cache     util.Cache[[]byte]
	UserAgent string
	Retries   int
	Delay     time.Duration
}

// some websites block via low tls versions (go defaults to 1.2)
var DefaultClient = &http.Client{
	Transport: &http.Transport{TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS13}},
	Timeout:   time.Minute,
}

func (l *Loader) Load(ctx context.Context, url string) (*Node, error) {
	bs, err := l.Bytes(ctx, url)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(bs))
}

// Bytes returns the body of url, from the cache if possible.
func (l *Loader) Bytes(ctx context.Context, url string) ([]byte, error) {
	bs, err := l.Cache.Get(url, func() ([]byte, error) {
		return util.Retry(ctx, l.Retries, cmp.Or(l.Delay, time.Second), func(ctx context.Context) ([]byte, error) {
			return l.fetch(ctx, url)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", url, err)
	}
	return bs, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if l.UserAgent != "" {
		req.Header.Set("User-Agent", l.UserAgent)
	}
	util.Debugf(ctx, "GET %s", url)
	res, err := cmp.Or(l.Client, DefaultClient).Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("status: %d", res.StatusCode)
	}
	return io.ReadAll(res.Body)
}
