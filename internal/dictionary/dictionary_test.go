package dictionary

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
)

const craneJSON = `[{"word":"crane","phonetic":"/kɹeɪn/","meanings":[
 {"partOfSpeech":"noun","definitions":[{"definition":"A large, long-necked bird."},{"definition":"A machine for lifting.","example":"The crane lifted the beam."}]},
 {"partOfSpeech":"verb","definitions":[{"definition":"To stretch one's neck."}]}]},
 {"word":"crane","meanings":[]}]`

func newTestClient(url string) *Client {
	c := New(url, 3)
	c.RetryDelay = time.Millisecond
	return c
}

func TestLookup(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(craneJSON))
	}))
	defer srv.Close()

	e, err := newTestClient(srv.URL+"/").Lookup(context.Background(), "CRANE")
	require.NoError(t, err)
	assert.Equal(t, "/crane", path)
	assert.Equal(t, "crane", e.Word)
	assert.Equal(t, "/kɹeɪn/", e.Phonetic)
	require.Len(t, e.Meanings, 2)
	assert.Equal(t, "noun", e.Meanings[0].PartOfSpeech)
	assert.Equal(t, "The crane lifted the beam.", e.Meanings[0].Definitions[1].Example)
}

func TestLookupNotFound(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"404": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"title":"No Definitions Found"}`))
		},
		"empty": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
	} {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				handler(w, r)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Lookup(context.Background(), "zzzzz")
			assert.True(t, errors.Is(err, ErrNotFound), "%v", err)
			assert.EqualValues(t, 1, calls.Load())
		})
	}
}

func TestLookupRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			w.Write([]byte(`not json`))
		default:
			w.Write([]byte(craneJSON))
		}
	}))
	defer srv.Close()

	e, err := newTestClient(srv.URL).Lookup(context.Background(), "crane")
	require.NoError(t, err)
	assert.Equal(t, "crane", e.Word)
	assert.EqualValues(t, 3, calls.Load())
}

func TestLookupGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "crane")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.EqualValues(t, 3, calls.Load())
}
