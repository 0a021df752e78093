package offmeta

import (
	"strings"
	"time"

	"github.com/ninesl/offmeta/internal/client"
)

// Card is a single card record returned by a search.
//
// Fields:
//   - Embeds client.Card containing the card data from Scryfall
//
// Access card fields directly (e.g., card.Name, card.TypeLine).
// Records live only as long as the search that produced them.
type Card struct {
	*client.Card
}

// Ruling is an Oracle ruling or set release note for a card.
type Ruling = client.Ruling

const releaseDateLayout = "2006-01-02"

func newCards(apiCards []client.Card) []*Card {
	cards := make([]*Card, len(apiCards))
	for i := range apiCards {
		cards[i] = &Card{Card: &apiCards[i]}
	}
	return cards
}

// Rank returns the card's EDHREC rank. Lower is more popular.
// ok is false for unranked cards.
func (c *Card) Rank() (rank int, ok bool) {
	if c == nil || c.Card == nil || c.EDHRecRank == nil {
		return 0, false
	}
	return *c.EDHRecRank, true
}

func (c *Card) rankOr(fallback int) int {
	if rank, ok := c.Rank(); ok {
		return rank
	}
	return fallback
}

// DisplayName is the card name, empty for a nil card.
func (c *Card) DisplayName() string {
	if c == nil || c.Card == nil {
		return ""
	}
	return c.Name
}

// ReleaseDate parses released_at. ok is false when it is missing or unparsable.
func (c *Card) ReleaseDate() (date time.Time, ok bool) {
	if c == nil || c.Card == nil || c.ReleasedAt == "" {
		return time.Time{}, false
	}
	date, err := time.Parse(releaseDateLayout, c.ReleasedAt)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func (c *Card) releaseOr(fallback int64) int64 {
	if date, ok := c.ReleaseDate(); ok {
		return date.UnixMilli()
	}
	return fallback
}

// Price returns the price string for a currency key such as "usd", "usd_foil" or "tix".
func (c *Card) Price(currency string) (string, bool) {
	if c == nil || c.Card == nil {
		return "", false
	}
	p, ok := c.Prices[currency]
	if !ok || p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

// PriceUSD returns the non-foil dollar price.
func (c *Card) PriceUSD() (string, bool) {
	return c.Price("usd")
}

// TCGPlayerURL returns the card's TCGplayer purchase link.
func (c *Card) TCGPlayerURL() (string, bool) {
	if c == nil || c.Card == nil {
		return "", false
	}
	u, ok := c.PurchaseURIs["tcgplayer"]
	return u, ok && u != ""
}

// Legality returns the card's status in a format ("legal", "not_legal", "banned", "restricted"),
// or "" when the format is unknown.
func (c *Card) Legality(format string) string {
	if c == nil || c.Card == nil {
		return ""
	}
	return c.Legalities[format]
}

// PrimaryType is the type line before the subtype separator, e.g. "Legendary Creature".
func (c *Card) PrimaryType() string {
	if c == nil || c.Card == nil {
		return ""
	}
	typeLine := c.TypeLine
	if typeLine == "" && len(c.CardFaces) > 0 && c.CardFaces[0].TypeLine != nil {
		typeLine = *c.CardFaces[0].TypeLine
	}
	primary, _, _ := strings.Cut(typeLine, " — ")
	return primary
}
