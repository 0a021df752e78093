package offmeta

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ninesl/offmeta/internal/client"
)

// fakeScryfall serves /cards/search, /cards/{id} and /cards/{id}/rulings from memory.
type fakeScryfall struct {
	server *httptest.Server

	mu          sync.Mutex
	pages       [][]client.Card // page n is pages[n-1]
	alwaysMore  bool
	failPage    int
	failStatus  int
	failBody    string
	cards       map[string]client.Card
	rulings     map[string][]client.Ruling
	delays      map[string]time.Duration // per q value
	searches    int
	queries     []string
	searchPages []int
	orders      []string
	requests    int
}

func newFakeScryfall(t *testing.T) *fakeScryfall {
	t.Helper()
	f := &fakeScryfall{
		cards:   make(map[string]client.Card),
		rulings: make(map[string][]client.Ruling),
		delays:  make(map[string]time.Duration),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeScryfall) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests++

	switch {
	case r.URL.Path == "/cards/search":
		q := r.URL.Query().Get("q")
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		f.searches++
		f.queries = append(f.queries, q)
		f.searchPages = append(f.searchPages, page)
		f.orders = append(f.orders, r.URL.Query().Get("order"))
		delay := f.delays[q]

		if f.failPage != 0 && page == f.failPage {
			status, body := f.failStatus, f.failBody
			f.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
			return
		}

		list := client.List{Object: "list", HasMore: f.alwaysMore || page < len(f.pages)}
		if page >= 1 && page <= len(f.pages) {
			list.Data = f.pages[page-1]
		} else if f.alwaysMore && len(f.pages) > 0 {
			list.Data = f.pages[len(f.pages)-1]
		}
		f.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		writeJSON(w, list)

	case strings.HasSuffix(r.URL.Path, "/rulings"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/cards/"), "/rulings")
		rulings, ok := f.rulings[id]
		failBody := f.failBody
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(failBody))
			return
		}
		writeJSON(w, client.RulingList{Object: "list", Data: rulings})

	case strings.HasPrefix(r.URL.Path, "/cards/"):
		id := strings.TrimPrefix(r.URL.Path, "/cards/")
		card, ok := f.cards[id]
		f.mu.Unlock()
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"object":"error","code":"not_found","status":404,"details":"No card found with the given ID or set code and collector number."}`))
			return
		}
		writeJSON(w, card)

	default:
		f.mu.Unlock()
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeScryfall) setPages(pages ...[]client.Card) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = pages
}

func (f *fakeScryfall) setAlwaysMore(more bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alwaysMore = more
}

func (f *fakeScryfall) setDelay(q string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[q] = d
}

func (f *fakeScryfall) addCard(c client.Card) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards[c.ID] = c
}

func (f *fakeScryfall) addRulings(id string, rulings []client.Ruling) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rulings[id] = rulings
}

func (f *fakeScryfall) failOn(page, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPage, f.failStatus, f.failBody = page, status, body
}

func (f *fakeScryfall) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

func (f *fakeScryfall) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeScryfall) pagesRequested() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.searchPages...)
}

func (f *fakeScryfall) orderParams() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.orders...)
}

func (f *fakeScryfall) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

// testHelper creates an Explorer pointed at a fresh fake API with rate limiting off.
func testHelper(t *testing.T) (*Explorer, *fakeScryfall) {
	t.Helper()
	f := newFakeScryfall(t)
	e, err := NewWithConfig(Config{
		APIURL:          f.server.URL,
		AppUserAgent:    "OffMetaTest/1.0",
		RequestInterval: -1,
		Debounce:        20 * time.Millisecond,
		Logger:          NoopLogger(),
	})
	require.NoError(t, err)
	return e, f
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

// apiCard builds a wire card; rank 0 means unranked.
func apiCard(id, name string, rank int, released string) client.Card {
	c := client.Card{
		ID:         id,
		Object:     "card",
		Name:       name,
		ReleasedAt: released,
		TypeLine:   "Creature — Elf Warrior",
	}
	if rank > 0 {
		c.EDHRecRank = intPtr(rank)
	}
	return c
}

// testCard builds a record for ranking tests; rank 0 means unranked.
func testCard(name string, rank int, released string) *Card {
	c := apiCard(strings.ToLower(name), name, rank, released)
	return &Card{Card: &c}
}

func names(cards []*Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Name
	}
	return out
}

func pageOf(prefix string, n int) []client.Card {
	cards := make([]client.Card, n)
	for i := range cards {
		id := prefix + strconv.Itoa(i)
		cards[i] = apiCard(id, id, i+1, "2020-01-01")
	}
	return cards
}
