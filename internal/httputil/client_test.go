// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

func TestGetDocument_OK(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><p class="x">hello</p></body></html>`))
	}))
	defer ts.Close()

	c := NewClient(types.HTTPConfig{UserAgent: "test/0.1", Timeout: 5 * time.Second})
	doc, err := c.GetDocument(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "hello", doc.Find("p.x").Text())
	assert.Equal(t, "test/0.1", gotUA)
}

func TestGet_DefaultUserAgent(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	_, err := NewClient(types.HTTPConfig{}).Get(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, defaultUserAgent, gotUA)
}

func TestGet_NonOKIsStatusError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := NewClient(types.HTTPConfig{}).Get(context.Background(), ts.URL)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "no retries")
}

func TestGet_TransportErrorIsNotStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := NewClient(types.HTTPConfig{}).Get(context.Background(), url)
	require.Error(t, err)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestGet_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c := NewClient(types.HTTPConfig{Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Get(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestGet_RateLimiterCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer ts.Close()

	// An exhausted limiter with a long interval makes Wait fail on a short context.
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	limiter.Allow()

	c := NewClient(types.HTTPConfig{}, WithRateLimiter(limiter))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, ts.URL)
	assert.Error(t, err)
}

func TestNewClient_RateCapFromConfig(t *testing.T) {
	c := NewClient(types.HTTPConfig{RequestsPerSecond: 2})
	require.NotNil(t, c.limiter)
	assert.Equal(t, rate.Limit(2), c.limiter.Limit())

	assert.Nil(t, NewClient(types.HTTPConfig{}).limiter)
}

func TestWithHTTPClient(t *testing.T) {
	hc := &http.Client{}
	c := NewClient(types.HTTPConfig{}, WithHTTPClient(hc))
	assert.Same(t, hc, c.httpClient)
}

func TestAllowed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
	}))
	defer ts.Close()

	c := NewClient(types.HTTPConfig{})
	ok, err := c.Allowed(context.Background(), ts.URL+"/?term=VIRUS&size=200")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Allowed(context.Background(), ts.URL+"/private/page")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllowedMissingRobots(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	ok, err := NewClient(types.HTTPConfig{}).Allowed(context.Background(), ts.URL+"/anything")
	require.NoError(t, err)
	assert.True(t, ok)
}
