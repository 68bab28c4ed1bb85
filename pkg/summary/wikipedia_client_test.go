package summary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-recognizer/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWikiServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/rest_v1/page/summary/pizza", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"standard","title":"Pizza","extract":"Pizza is an Italian dish. It has a flat base. It is baked at high temperature."}`))
	})
	mux.HandleFunc("/api/rest_v1/page/summary/mussels", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"disambiguation","title":"Mussels","extract":"Mussels may refer to:"}`))
	})
	mux.HandleFunc("/api/rest_v1/page/summary/pho", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/rest_v1/page/summary/gyoza", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"standard","title":"Gyoza","extract":""}`))
	})
	mux.HandleFunc("/wiki/gyoza", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Gyoza</title></head><body><article>
<h1>Gyoza</h1>
<p>Gyoza are pan-fried dumplings that came to Japan from China. They are usually filled with minced pork and cabbage. Gyoza are often served with a dipping sauce made of soy sauce and vinegar, and they are a popular side dish in ramen shops across the country.</p>
<p>The dish is sometimes boiled instead of fried, and it is common to find frozen gyoza in supermarkets. Many families make them at home on weekends, folding the wrappers by hand into the familiar crescent shape.</p>
</article></body></html>`))
	})
	return httptest.NewServer(mux)
}

func TestFetch_TruncatesToTwoSentences(t *testing.T) {
	srv := newWikiServer(t)
	defer srv.Close()

	text, err := NewClient(srv.URL).Fetch(context.Background(), "pizza")
	require.NoError(t, err)
	assert.Equal(t, "Pizza is an Italian dish. It has a flat base.", text)
}

func TestFetch_ReadabilityFallback(t *testing.T) {
	srv := newWikiServer(t)
	defer srv.Close()

	text, err := NewClient(srv.URL).Fetch(context.Background(), "gyoza")
	require.NoError(t, err)
	assert.Contains(t, text, "pan-fried dumplings")
	assert.NotContains(t, text, "supermarkets")
}

func TestSummarize_Placeholders(t *testing.T) {
	srv := newWikiServer(t)
	defer srv.Close()
	c := NewClient(srv.URL, WithTimeout(2*time.Second))

	assert.Equal(t, "Multiple results found for 'mussels', please be more specific.", c.Summarize(context.Background(), "mussels"))
	assert.Equal(t, "No summary found for 'unknown_xyz'.", c.Summarize(context.Background(), "unknown_xyz"))
	assert.Equal(t, "An error occurred while fetching Wikipedia data.", c.Summarize(context.Background(), "pho"))
}

func TestFetch_ErrorKinds(t *testing.T) {
	srv := newWikiServer(t)
	defer srv.Close()
	c := NewClient(srv.URL)

	_, err := c.Fetch(context.Background(), "mussels")
	assert.ErrorIs(t, err, ErrSummaryAmbiguous)
	assert.ErrorIs(t, err, domain.ErrSummaryUnavailable)

	_, err = c.Fetch(context.Background(), "unknown_xyz")
	assert.ErrorIs(t, err, ErrSummaryNotFound)

	_, err = c.Fetch(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrSummaryNotFound)
}

func TestSummarize_Unreachable(t *testing.T) {
	srv := newWikiServer(t)
	url := srv.URL
	srv.Close()

	got := NewClient(url, WithTimeout(time.Second)).Summarize(context.Background(), "pizza")
	assert.Equal(t, "An error occurred while fetching Wikipedia data.", got)
}

func TestFirstSentences(t *testing.T) {
	assert.Equal(t, "One. Two!", FirstSentences("One. Two! Three?", 2))
	assert.Equal(t, "Version 2.5 is out.", FirstSentences("Version 2.5 is out. Next line.", 1))
	assert.Equal(t, "No terminator", FirstSentences("No terminator", 2))
	assert.Equal(t, "a b", FirstSentences("  a \n\t b ", 2))
	assert.Equal(t, "", FirstSentences("", 2))
	assert.Equal(t, "Only one.", FirstSentences("Only one.", 3))
}
