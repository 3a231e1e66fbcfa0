package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coscup/sessiongen/internal/source"
)

func pretalxOptions(baseURL string) PretalxOptions {
	return PretalxOptions{
		ClientOptions: ClientOptions{
			BaseURL:    baseURL,
			Timeout:    5 * time.Second,
			UserAgent:  "sessiongen/test",
			RetryCount: 2,
			RetryDelay: time.Millisecond,
		},
		Event:    "coscup-2025",
		State:    "confirmed",
		PageSize: 2,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestPretalxRepository_Submissions(t *testing.T) {
	t.Run("Should follow next links and send query params only once", func(t *testing.T) {
		var srv *httptest.Server
		var queries []string
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/events/coscup-2025/submissions/", r.URL.Path)
			assert.Equal(t, "sessiongen/test", r.Header.Get("User-Agent"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			queries = append(queries, r.URL.RawQuery)
			if r.URL.Query().Get("page") == "2" {
				writeJSON(t, w, map[string]any{"count": 3, "next": nil, "results": []any{
					map[string]any{"code": "CCC333", "title": "Third"},
				}})
				return
			}
			writeJSON(t, w, map[string]any{
				"count": 3,
				"next":  srv.URL + "/api/events/coscup-2025/submissions/?page=2",
				"results": []any{
					map[string]any{
						"code": "AAA111", "title": "First", "speakers": []any{"SPK1"}, "track": 7,
						"slots":   []any{map[string]any{"start": "2025-08-09T09:30:00+08:00", "end": "2025-08-09T10:00:00+08:00", "room": 12}},
						"answers": []any{map[string]any{"question": map[string]any{"id": 57}, "answer": "English"}},
					},
					map[string]any{"code": "BBB222", "title": "Second"},
				},
			})
		}))
		defer srv.Close()

		records, err := NewPretalxRepository(pretalxOptions(srv.URL)).Submissions(t.Context())

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "AAA111", records[0].Code)
		assert.Equal(t, []source.ID{"SPK1"}, records[0].SpeakerCodes)
		require.NotNil(t, records[0].TrackID)
		assert.Equal(t, source.ID("7"), *records[0].TrackID)
		assert.Equal(t, source.ID("12"), *records[0].Slots[0].RoomID)
		answer, ok := records[0].AnswerTo("57")
		assert.True(t, ok)
		assert.Equal(t, "English", answer)
		assert.Equal(t, "CCC333", records[2].Code)

		require.Len(t, queries, 2)
		assert.Contains(t, queries[0], "state=confirmed")
		assert.Contains(t, queries[0], "expand=answers%2Cslots")
		assert.Contains(t, queries[0], "page_size=2")
		assert.Equal(t, "page=2", queries[1])
	})

	t.Run("Should retry server errors and then succeed", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			writeJSON(t, w, map[string]any{"count": 0, "next": nil, "results": []any{}})
		}))
		defer srv.Close()

		records, err := NewPretalxRepository(pretalxOptions(srv.URL)).Submissions(t.Context())

		require.NoError(t, err)
		assert.Empty(t, records)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("Should abort after bounded retries", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewPretalxRepository(pretalxOptions(srv.URL)).Submissions(t.Context())

		var herr *HTTPError
		require.ErrorAs(t, err, &herr)
		assert.Equal(t, http.StatusTooManyRequests, herr.StatusCode)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("Should not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewPretalxRepository(pretalxOptions(srv.URL)).Submissions(t.Context())

		var herr *HTTPError
		require.ErrorAs(t, err, &herr)
		assert.False(t, herr.Retryable())
		assert.Contains(t, herr.Body, "not found")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("Should reject a next link that loops", func(t *testing.T) {
		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, map[string]any{"next": srv.URL + "/api/events/coscup-2025/submissions/?page=2", "results": []any{}})
		}))
		defer srv.Close()

		_, err := NewPretalxRepository(pretalxOptions(srv.URL)).Submissions(t.Context())
		assert.ErrorContains(t, err, "loops")
	})
}

func TestPretalxRepository_Lookups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/events/coscup-2025/speakers/":
			writeJSON(t, w, map[string]any{"next": nil, "results": []any{
				map[string]any{"code": "SPK1", "name": "Alice"},
				map[string]any{"code": "", "name": "Ghost"},
			}})
		case "/api/events/coscup-2025/rooms/":
			writeJSON(t, w, map[string]any{"next": nil, "results": []any{
				map[string]any{"id": 12, "name": map[string]any{"en": "RB101", "zh-tw": "RB101 教室"}},
			}})
		case "/api/events/coscup-2025/tracks/":
			writeJSON(t, w, map[string]any{"next": nil, "results": []any{
				map[string]any{"id": 7, "name": map[string]any{"zh-tw": "Golang"}},
			}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	repo := NewPretalxRepository(pretalxOptions(srv.URL))

	t.Run("Should map speaker codes to names", func(t *testing.T) {
		speakers, err := repo.Speakers(t.Context())

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"SPK1": "Alice"}, speakers)
	})

	t.Run("Should keep localized room and track names", func(t *testing.T) {
		rooms, err := repo.Rooms(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "RB101", rooms["12"].Pick("en", "zh-tw"))

		tracks, err := repo.Tracks(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "Golang", tracks["7"].Pick("zh-tw", "en"))
	})
}

func TestBundleRepository_Fetch(t *testing.T) {
	t.Run("Should download the script body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "const e=JSON.parse(`[]`);")
		}))
		defer srv.Close()

		body, err := NewBundleRepository(srv.URL+"/chunk.js", ClientOptions{RetryCount: 1, Timeout: time.Second}).Fetch(t.Context())

		require.NoError(t, err)
		assert.Equal(t, "const e=JSON.parse(`[]`);", body)
	})

	t.Run("Should stop when the context is canceled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := NewBundleRepository(srv.URL, ClientOptions{RetryCount: 5, RetryDelay: time.Second}).Fetch(ctx)

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
