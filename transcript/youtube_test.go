package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}
	for _, tc := range cases {
		id, ok := ExtractVideoID(tc.url)
		require.True(t, ok, tc.url)
		assert.Equal(t, tc.want, id, tc.url)
	}

	_, ok := ExtractVideoID("https://example.com/watch?v=nope")
	assert.False(t, ok)
}

func TestIsVideoURL(t *testing.T) {
	assert.True(t, IsVideoURL("https://m.youtube.com/watch?v=abc"))
	assert.True(t, IsVideoURL("https://youtu.be/abc"))
	assert.False(t, IsVideoURL("https://vimeo.com/12345"))
}

func TestClean(t *testing.T) {
	in := "so  today [Music] we will look at\n\ncontainers (inaudible) and images"
	assert.Equal(t, "so today we will look at containers and images", Clean(in))
}

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("v"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="2.5">Docker containers let you</text>
  <text start="2.5" dur="3">package an application &amp;amp; its dependencies</text>
</transcript>`))
	}))
	defer ts.Close()

	f := NewFetcher(ts.Client(), nil).WithBaseURL(ts.URL)
	text, err := f.Fetch(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Docker containers let you package an application & its dependencies", text)
}

func TestFetchNoCaptions(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<transcript></transcript>`))
	}))
	defer ts.Close()

	f := NewFetcher(ts.Client(), nil).WithBaseURL(ts.URL)
	_, err := f.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no captions available")
}

func TestFetchEndpointFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer ts.Close()

	f := NewFetcher(ts.Client(), nil).WithBaseURL(ts.URL)
	_, err := f.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.Error(t, err)
}

func TestFetchInvalidURL(t *testing.T) {
	f := NewFetcher(nil, nil)
	_, err := f.Fetch(context.Background(), "https://example.com/not-a-video")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YouTube URL")
}
