package images

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// CheckResult is the outcome of loading one asset.
type CheckResult struct {
	Asset Asset  `json:"asset"`
	URL   string `json:"url"`
	// Bundled is set when the file ships with the storefront and was not
	// fetched.
	Bundled bool   `json:"bundled,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Verification splits assets into reachable and unreachable ones.
type Verification struct {
	Valid   []CheckResult `json:"valid"`
	Invalid []CheckResult `json:"invalid"`
}

// Verifier checks that asset files are served. A failed check is reported,
// never retried.
type Verifier struct {
	BaseURL     string
	Client      *http.Client
	Timeout     time.Duration
	Concurrency int
}

// URL returns the public URL of a.
func (v *Verifier) URL(a Asset) string { return v.BaseURL + a.File }

// bundled reports whether raw points at a file served with the page itself:
// inline data, object URLs and relative paths under assets/.
func bundled(raw string) (bool, error) {
	if strings.HasPrefix(raw, "data:") || strings.HasPrefix(raw, "blob:") {
		return true, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false, err
	}
	if u.IsAbs() || u.Host != "" {
		return false, nil
	}
	if strings.Contains(u.Path, "assets/") {
		return true, nil
	}
	return false, fmt.Errorf("relative url %q is outside assets/", raw)
}

// Check sends a HEAD request for a single asset. Bundled assets are valid
// without a request.
func (v *Verifier) Check(ctx context.Context, a Asset) CheckResult {
	res := CheckResult{Asset: a, URL: v.URL(a)}
	ok, err := bundled(res.URL)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if ok {
		res.Bundled = true
		return res
	}
	timeout := v.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, res.URL, nil)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 400 {
		res.Error = fmt.Sprintf("status %d", resp.StatusCode)
	}
	return res
}

// VerifyAll checks every asset concurrently.
func (v *Verifier) VerifyAll(ctx context.Context, assets []Asset) Verification {
	out := Verification{Valid: []CheckResult{}, Invalid: []CheckResult{}}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	limit := v.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)
	for _, a := range assets {
		g.Go(func() error {
			r := v.Check(gctx, a)
			mu.Lock()
			defer mu.Unlock()
			if r.Error == "" {
				out.Valid = append(out.Valid, r)
			} else {
				out.Invalid = append(out.Invalid, r)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
