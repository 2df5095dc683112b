// Package network provides counter sources for the pull_from_network
// action.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Source names accepted by New.
const (
	SourceRandom = "random"
	SourceHTTP   = "http"
)

// ErrUnknownSource is returned by New for an unsupported source name.
var ErrUnknownSource = errors.New("unknown network source")

// Options selects and configures a source.
type Options struct {
	Source  string
	URL     string
	Latency time.Duration
	Client  *http.Client
}

// Source pulls a counter value.
type Source interface {
	PullCounter(ctx context.Context) (int, error)
}

// New creates the source described by opts.
func New(opts Options) (Source, error) {
	switch opts.Source {
	case "", SourceRandom:
		return NewRandom(opts.Latency, nil), nil
	case SourceHTTP:
		if opts.URL == "" {
			return nil, fmt.Errorf("http source: url is required")
		}
		return NewHTTP(opts.URL, opts.Client), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, opts.Source)
	}
}

// Random returns uniformly distributed values in [1, 99] after a delay.
type Random struct {
	latency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random source. A nil rng uses a randomly seeded one.
func NewRandom(latency time.Duration, rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Random{latency: latency, rng: rng}
}

func (r *Random) PullCounter(ctx context.Context) (int, error) {
	if r.latency > 0 {
		t := time.NewTimer(r.latency)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return 1 + r.rng.IntN(99), nil
}

// HTTP fetches the counter with a GET request. The body may be a bare
// integer or a JSON object {"counter": N}.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP creates an HTTP source. A nil client uses one with a 10s timeout.
func NewHTTP(url string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTP{url: url, client: client}
}

// maxBody bounds the response size read from the server.
const maxBody = 4096

func (h *HTTP) PullCounter(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain")

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", h.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("get %s: unexpected status %s", h.url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}
	return parseCounter(body)
}

func parseCounter(body []byte) (int, error) {
	text := strings.TrimSpace(string(body))
	if v, err := strconv.Atoi(text); err == nil {
		return v, nil
	}

	var payload struct {
		Counter *int `json:"counter"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil || payload.Counter == nil {
		return 0, fmt.Errorf("decode counter from %q: not an integer or {\"counter\": N}", text)
	}
	return *payload.Counter, nil
}
