package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	path, rawQuery, userAgent, accept string
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, func() []recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		reqs = append(reqs, recorded{r.URL.Path, r.URL.RawQuery, r.UserAgent(), r.Header.Get("Accept")})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), reqs...)
	}
}

func testClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClientWithOptions(ClientOptions{APIURL: url + "/", UserAgent: "Tester/1.0"})
	require.NoError(t, err)
	return c
}

func listPage(w http.ResponseWriter, names []string, hasMore bool) {
	list := List{Object: "list", HasMore: hasMore}
	for _, n := range names {
		list.Data = append(list.Data, Card{ID: n, Name: n})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

func TestNewClientWithOptions(t *testing.T) {
	c, err := NewClientWithOptions(ClientOptions{APIURL: "https://example.test/"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.test", c.BaseURL())
	assert.Equal(t, DefaultUserAgent, c.userAgent)
	assert.Equal(t, DefaultAccept, c.accept)
	assert.Equal(t, requestTimeout, c.client.Timeout)

	c, err = NewClientWithOptions(ClientOptions{})
	require.NoError(t, err)
	assert.Equal(t, APIBaseURL, c.BaseURL())

	_, err = NewClientWithOptions(ClientOptions{ProxyURL: "://nope"})
	assert.ErrorContains(t, err, "invalid proxy URL")

	c, err = NewClientWithOptions(ClientOptions{ProxyURL: "http://proxy.local:8080"})
	require.NoError(t, err)
	transport, ok := c.client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.Proxy)
}

func TestMakeRequest_Headers(t *testing.T) {
	srv, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		listPage(w, []string{"a"}, false)
	})
	c := testClient(t, srv.URL)

	_, err := c.SearchPage(context.Background(), "t%3Aelf", 1)
	require.NoError(t, err)

	got := reqs()
	require.Len(t, got, 1)
	assert.Equal(t, "/cards/search", got[0].path)
	assert.Equal(t, "q=t%3Aelf&page=1", got[0].rawQuery)
	assert.Equal(t, "Tester/1.0", got[0].userAgent)
	assert.Equal(t, DefaultAccept, got[0].accept)
}

func TestMakeRequest_StatusError(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","code":"not_found","status":404,"details":"No cards found."}`))
	})
	c := testClient(t, srv.URL)

	_, err := c.GetCard(context.Background(), "nope")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "not_found", statusErr.Code)
	assert.Equal(t, "No cards found.", statusErr.Details)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "status 404: No cards found.")
}

func TestMakeRequest_StatusErrorWithoutBody(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c := testClient(t, srv.URL)

	_, err := c.GetRulings(context.Background(), "abc")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Empty(t, statusErr.Details)
	assert.Equal(t, "API request failed with status 429", statusErr.Error())
}

func TestMakeRequest_BadJSON(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"object":`))
	})
	c := testClient(t, srv.URL)

	_, err := c.GetCard(context.Background(), "abc")
	assert.ErrorContains(t, err, "failed to parse JSON response")
}

func TestSearchPages(t *testing.T) {
	srv, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		listPage(w, []string{"p" + strconv.Itoa(page)}, page < 3)
	})
	c := testClient(t, srv.URL)

	cards, pages, err := c.SearchPages(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	require.Len(t, cards, 3)
	assert.Equal(t, "p1", cards[0].Name)
	assert.Equal(t, "p3", cards[2].Name)
	assert.Len(t, reqs(), 3)
}

func TestSearchPages_Cap(t *testing.T) {
	srv, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		listPage(w, []string{"a", "b"}, true)
	})
	c := testClient(t, srv.URL)

	cards, pages, err := c.SearchPages(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, pages)
	assert.Len(t, cards, 10)
	assert.Len(t, reqs(), 5)

	_, pages, err = c.SearchPages(context.Background(), "x", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestSearchPages_FailureDiscards(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		listPage(w, []string{"a"}, true)
	})
	c := testClient(t, srv.URL)

	cards, pages, err := c.SearchPages(context.Background(), "x", 5)
	assert.Nil(t, cards)
	assert.Equal(t, 2, pages)
	assert.ErrorContains(t, err, "failed to fetch page 2")
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
}

func TestSearchOrdered(t *testing.T) {
	srv, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		listPage(w, []string{"a", "b"}, true)
	})
	c := testClient(t, srv.URL)

	list, err := c.SearchOrdered(context.Background(), `type:"Legendary Creature"`, "edhrec")
	require.NoError(t, err)
	assert.Len(t, list.Data, 2)

	got := reqs()
	require.Len(t, got, 1)
	assert.Equal(t, "q=type%3A%22Legendary+Creature%22&order=edhrec&page=1", got[0].rawQuery)
}

func TestGetCard_EscapesID(t *testing.T) {
	srv, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Card{ID: "abc", Name: "Sol Ring"})
	})
	c := testClient(t, srv.URL)

	card, err := c.GetCard(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Sol Ring", card.Name)
	assert.Equal(t, "/cards/abc", reqs()[0].path)
}

func TestRateLimiter(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		listPage(w, nil, false)
	})
	c, err := NewClientWithOptions(ClientOptions{APIURL: srv.URL, RequestInterval: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.SearchPage(context.Background(), "x", 1)
		require.NoError(t, err)
	}
	// the first request passes immediately, the next two wait one interval each
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestRateLimiter_CanceledContext(t *testing.T) {
	srv, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		listPage(w, nil, false)
	})
	c := testClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.SearchPage(ctx, "x", 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reqs())
}
