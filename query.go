// Package offmeta finds Magic: The Gathering cards by filter and ranks them by popularity.
//
// Basic Usage:
//
//	filters := offmeta.FilterState{Type: "Creature", Subtypes: "Elf, Warrior"}
//	cards, err := offmeta.Search(filters, offmeta.DefaultRankState())
//
// A search compiles the filters into Scryfall query syntax, fetches up to five
// result pages, keeps the requested popularity percentile by EDHREC rank, and
// sorts what is left. Nothing is cached; every search goes to the API.
//
// Configuration:
//
//	err := offmeta.SetConfig(offmeta.Config{
//		AppUserAgent: "MyApp/1.0",
//	})
//
// Interactive Usage:
//
//	session := explorer.NewSession(offmeta.WithOnChange(render))
//	defer session.Close()
//	session.SetFilters(filters) // debounced search
//	session.SetPercentile(80)   // re-ranks immediately
//
// See https://scryfall.com/docs/syntax for query syntax documentation.
package offmeta

import (
	"context"
	"fmt"
	"time"
)

// RetrieveQuery fetches every page of an already compiled and escaped query,
// up to the configured page cap.
//
// Behavior:
//   - Pages are requested in order starting at 1
//   - Stops when the API reports no more pages or the cap is reached; the cap truncates silently
//   - Any failed page fails the whole retrieval and discards earlier pages
//
// Returns:
//   - []*Card: Records in the order the API returned them
//   - error: *APIError carrying the service's detail, or a context error
func (e *Explorer) RetrieveQuery(ctx context.Context, compiledQuery string) ([]*Card, error) {
	start := time.Now()
	apiCards, pages, err := e.client.SearchPages(ctx, compiledQuery, e.maxPages)
	e.metrics.RecordRetrieval(pages, len(apiCards), time.Since(start), err)
	e.logger.LogRetrieval(ctx, compiledQuery, pages, len(apiCards), err)
	if err != nil {
		return nil, asAPIError(err, GenericErrorMessage)
	}
	return newCards(apiCards), nil
}

// Retrieve compiles the filters and sort state and fetches the raw result set.
func (e *Explorer) Retrieve(ctx context.Context, f FilterState, r RankState) ([]*Card, error) {
	return e.RetrieveQuery(ctx, Compile(f, r))
}

// Rank applies r to a raw result set, recording metrics for the pass.
func (e *Explorer) Rank(ctx context.Context, raw []*Card, r RankState) []*Card {
	ranked := Rank(raw, r)
	e.metrics.RecordRank(len(raw), len(ranked))
	e.logger.LogRank(ctx, r, len(raw), len(ranked))
	return ranked
}

// Search retrieves cards matching f and returns them ranked by r.
//
// Returns:
//   - []*Card: The ranked result set (empty slice if nothing matched the cut)
//   - error: Retrieval errors; ranking itself never fails
func (e *Explorer) Search(ctx context.Context, f FilterState, r RankState) ([]*Card, error) {
	raw, err := e.Retrieve(ctx, f, r)
	if err != nil {
		return nil, err
	}
	return e.Rank(ctx, raw, r), nil
}

// Search retrieves and ranks cards using the package-level Explorer.
//
// Note: Uses global Explorer instance. Initialize with SetConfig() or defaults are used.
func Search(f FilterState, r RankState) ([]*Card, error) {
	return SearchWithContext(context.Background(), f, r)
}

// SearchWithContext is Search with context support.
func SearchWithContext(ctx context.Context, f FilterState, r RankState) ([]*Card, error) {
	e, err := ensureCurrentExplorer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize explorer: %w", err)
	}
	return e.Search(ctx, f, r)
}

// CardByID fetches a single card using the package-level Explorer.
func CardByID(ctx context.Context, id string) (*Card, error) {
	e, err := ensureCurrentExplorer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize explorer: %w", err)
	}
	return e.CardByID(ctx, id)
}
