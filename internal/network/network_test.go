package network

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom_Range(t *testing.T) {
	r := NewRandom(0, rand.New(rand.NewPCG(1, 2)))

	for i := 0; i < 1000; i++ {
		v, err := r.PullCounter(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 99)
	}
}

func TestRandom_SeededIsDeterministic(t *testing.T) {
	a := NewRandom(0, rand.New(rand.NewPCG(7, 7)))
	b := NewRandom(0, rand.New(rand.NewPCG(7, 7)))

	for i := 0; i < 10; i++ {
		va, _ := a.PullCounter(context.Background())
		vb, _ := b.PullCounter(context.Background())
		assert.Equal(t, va, vb)
	}
}

func TestRandom_LatencyHonoursContext(t *testing.T) {
	r := NewRandom(time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := r.PullCounter(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTP_PlainAndJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"plain", "42\n", 42},
		{"json", `{"counter": 7}`, 7},
		{"negative", "-3", -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			v, err := NewHTTP(srv.URL, srv.Client()).PullCounter(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestHTTP_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/down":
			http.Error(w, "nope", http.StatusServiceUnavailable)
		case "/garbage":
			w.Write([]byte("forty-two"))
		case "/missing":
			w.Write([]byte(`{"value": 1}`))
		}
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.URL+"/down", nil).PullCounter(context.Background())
	assert.ErrorContains(t, err, "unexpected status 503")

	_, err = NewHTTP(srv.URL+"/garbage", nil).PullCounter(context.Background())
	assert.ErrorContains(t, err, "decode counter")

	_, err = NewHTTP(srv.URL+"/missing", nil).PullCounter(context.Background())
	assert.ErrorContains(t, err, "decode counter")
}

func TestHTTP_ContextCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewHTTP(srv.URL, nil).PullCounter(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNew(t *testing.T) {
	src, err := New(Options{})
	require.NoError(t, err)
	assert.IsType(t, &Random{}, src)

	src, err = New(Options{Source: SourceHTTP, URL: "http://localhost:1"})
	require.NoError(t, err)
	assert.IsType(t, &HTTP{}, src)

	_, err = New(Options{Source: SourceHTTP})
	assert.ErrorContains(t, err, "url is required")

	_, err = New(Options{Source: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrUnknownSource)
}
