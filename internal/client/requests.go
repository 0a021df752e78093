package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchPage fetches a single page of the /cards/search endpoint.
// encodedQuery must already be escaped for use as a query parameter value.
func (c *Client) SearchPage(ctx context.Context, encodedQuery string, page int) (*List, error) {
	var list List
	endpoint := "/cards/search?q=" + encodedQuery + "&page=" + strconv.Itoa(page)
	if err := c.makeRequest(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SearchPages searches the Scryfall API and concatenates successive pages starting at page 1.
// It follows pagination while the API reports more pages and fewer than maxPages have been
// fetched; hitting maxPages silently truncates the result.
// Any failed page discards everything fetched so far.
// Returns the cards and the number of page requests made.
func (c *Client) SearchPages(ctx context.Context, encodedQuery string, maxPages int) ([]Card, int, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	var allCards []Card
	page := 1
	for {
		list, err := c.SearchPage(ctx, encodedQuery, page)
		if err != nil {
			return nil, page, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		// Add this page's results
		allCards = append(allCards, list.Data...)

		if !list.HasMore || page >= maxPages {
			return allCards, page, nil
		}
		page++
	}
}

// SearchOrdered fetches the first page of a search with a server-side order parameter,
// e.g. order=edhrec.
func (c *Client) SearchOrdered(ctx context.Context, query, order string) (*List, error) {
	var list List
	endpoint := "/cards/search?q=" + url.QueryEscape(query) + "&order=" + url.QueryEscape(order) + "&page=1"
	if err := c.makeRequest(ctx, endpoint, &list); err != nil {
		return nil, fmt.Errorf("failed to search cards with query '%s': %w", query, err)
	}
	return &list, nil
}

// GetCard fetches a single card by its Scryfall ID.
func (c *Client) GetCard(ctx context.Context, id string) (*Card, error) {
	var card Card
	if err := c.makeRequest(ctx, "/cards/"+url.PathEscape(id), &card); err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}
	return &card, nil
}

// GetRulings fetches the rulings list for a card by its Scryfall ID.
func (c *Client) GetRulings(ctx context.Context, id string) ([]Ruling, error) {
	var list RulingList
	if err := c.makeRequest(ctx, "/cards/"+url.PathEscape(id)+"/rulings", &list); err != nil {
		return nil, fmt.Errorf("failed to get rulings for card %s: %w", id, err)
	}
	return list.Data, nil
}
