package offmeta

import (
	"context"
	"strings"
	"time"
)

// Prices is a card's current market prices plus its TCGplayer purchase link.
// Empty strings mean no price is listed.
type Prices struct {
	USD          string
	USDFoil      string
	USDEtched    string
	EUR          string
	EURFoil      string
	TIX          string
	TCGPlayerURL string
}

func (e *Explorer) detail(ctx context.Context, kind, id string, start time.Time, err error) {
	e.metrics.RecordDetail(kind, time.Since(start), err)
	e.logger.LogDetail(ctx, kind, id, err)
}

// CardByID fetches one card by its Scryfall ID.
func (e *Explorer) CardByID(ctx context.Context, id string) (*Card, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingIdentifier
	}

	start := time.Now()
	apiCard, err := e.client.GetCard(ctx, id)
	e.detail(ctx, "card", id, start, err)
	if err != nil {
		return nil, asAPIError(err, cardErrorMessage)
	}
	return &Card{Card: apiCard}, nil
}

// Rulings fetches the rulings for a card by its Scryfall ID.
func (e *Explorer) Rulings(ctx context.Context, id string) ([]Ruling, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingIdentifier
	}

	start := time.Now()
	rulings, err := e.client.GetRulings(ctx, id)
	e.detail(ctx, "rulings", id, start, err)
	if err != nil {
		return nil, asAPIError(err, rulingsErrorMessage)
	}
	if rulings == nil {
		rulings = []Ruling{}
	}
	return rulings, nil
}

// Prices fetches a card's prices by its Scryfall ID.
func (e *Explorer) Prices(ctx context.Context, id string) (*Prices, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingIdentifier
	}

	start := time.Now()
	apiCard, err := e.client.GetCard(ctx, id)
	e.detail(ctx, "prices", id, start, err)
	if err != nil {
		return nil, asAPIError(err, priceErrorMessage)
	}

	card := &Card{Card: apiCard}
	price := func(currency string) string {
		p, _ := card.Price(currency)
		return p
	}
	tcgURL, _ := card.TCGPlayerURL()
	return &Prices{
		USD:          price("usd"),
		USDFoil:      price("usd_foil"),
		USDEtched:    price("usd_etched"),
		EUR:          price("eur"),
		EURFoil:      price("eur_foil"),
		TIX:          price("tix"),
		TCGPlayerURL: tcgURL,
	}, nil
}

// RelatedByType returns the first page of cards sharing card's primary type,
// most popular first. A card without a type line has no related cards.
func (e *Explorer) RelatedByType(ctx context.Context, card *Card) ([]*Card, error) {
	if card == nil || card.Card == nil {
		return nil, ErrMissingIdentifier
	}
	primary := card.PrimaryType()
	if primary == "" {
		return []*Card{}, nil
	}

	start := time.Now()
	list, err := e.client.SearchOrdered(ctx, `type:"`+primary+`"`, string(SortPopularity))
	e.detail(ctx, "related", card.ID, start, err)
	if err != nil {
		return nil, asAPIError(err, relatedErrorMessage)
	}
	return newCards(list.Data), nil
}
