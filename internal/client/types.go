package client

import (
	"encoding/json"
	"net/url"
)

// A List object represents a requested sequence of other objects (Cards, Rulings, etc).
//
// List objects may be paginated, and also include information about
// issues raised when generating the list.
type List struct {
	//A content type for this object, always
	//  `list`
	Object string `json:"object"`

	//An array of the requested objects, in a specific order.
	Data []Card `json:"data"`

	//True if this List is paginated and there is a page beyond the current page.
	HasMore bool `json:"has_more"`

	//If there is a page beyond the current page, this field will contain a full API URI to that page.
	//NULLABLE
	NextPage *string `json:"next_page"`

	//If this is a list of Card objects, this field will contain
	// the total number of cards found across all pages.
	TotalCards int `json:"total_cards"`

	//An array of human-readable warnings issued when generating
	// this list, as strings. Warnings are non-fatal issues
	// that the API discovered with your input.
	//NULLABLE
	Warnings []string `json:"warnings"`
}

// RulingList is a List whose data array holds Ruling objects.
type RulingList struct {
	Object  string   `json:"object"`
	Data    []Ruling `json:"data"`
	HasMore bool     `json:"has_more"`
}

// Rulings represent Oracle rulings, Wizards of the Coast set release notes, or Scryfall notes for a particular card.
type Ruling struct {
	//A content type for this object, always "ruling"
	Object string `json:"object"`

	//A computer-readable string indicating which company produced this ruling, either wotc or scryfall
	Source string `json:"source"`

	//The date when the ruling or note was published
	PublishedAt string `json:"published_at"`

	//The text of the ruling
	Comment string `json:"comment"`
}

// Error objects are returned by the API whenever a request fails.
type Error struct {
	//A content type for this object, always "error"
	Object string `json:"object"`

	//An integer HTTP status code for this error
	Status int `json:"status"`

	//A computer-friendly string representing the appropriate HTTP status code
	Code string `json:"code"`

	//A human-readable string explaining the error
	Details string `json:"details"`

	//A computer-friendly string that provides additional context for the main error
	//NULLABLE
	Type *string `json:"type"`

	//If your input also generated non-failure warnings, they will be provided as human-readable strings in this array
	//NULLABLE
	Warnings []string `json:"warnings"`
}

// Card objects represent individual Magic: The Gathering cards that players could obtain and add to their collection.
//
// Only the fields read by the search pipeline and the single-card views are decoded.
// Multi-face cards keep their faces in CardFaces; the top-level text fields may be empty for them.
type Card struct {
	// A unique ID for this card in Scryfall's database.
	ID string `json:"id"`

	// A unique ID for this card's oracle identity.
	// NULLABLE
	OracleID *string `json:"oracle_id"`

	// A content type for this object, always card.
	Object string `json:"object"`

	// A link to where you can begin paginating all re/prints for this card on Scryfall's API.
	RulingsURI url.URL `json:"rulings_uri"`

	// A link to this card's permapage on Scryfall's website.
	ScryfallURI url.URL `json:"scryfall_uri"`

	// The name of this card.
	Name string `json:"name"`

	// The card's mana value. Note that some funny cards have fractional mana costs.
	CMC float64 `json:"cmc"`

	// This card's colors, if the overall card has colors defined by the rules.
	// NULLABLE
	Colors []string `json:"colors"`

	// This card's color identity.
	ColorIdentity []string `json:"color_identity"`

	// This card's overall rank/popularity on EDHREC. Not all cards are ranked.
	// NULLABLE
	EDHRecRank *int `json:"edhrec_rank"`

	// An object describing the legality of this card across play formats.
	Legalities map[string]string `json:"legalities"`

	// The mana cost for this card.
	// NULLABLE
	ManaCost *string `json:"mana_cost"`

	// The Oracle text for this card, if any.
	// NULLABLE
	OracleText *string `json:"oracle_text"`

	// This card's power, if any. Note that some cards have powers that are not numeric, such as *.
	// NULLABLE
	Power *string `json:"power"`

	// This card's toughness, if any.
	// NULLABLE
	Toughness *string `json:"toughness"`

	// The type line of this card.
	TypeLine string `json:"type_line"`

	// The flavor text, if any.
	// NULLABLE
	FlavorText *string `json:"flavor_text"`

	// A list of games that this card print is available in, paper, arena, and/or mtgo.
	Games []string `json:"games"`

	// An object listing available imagery for this card.
	// NULLABLE
	ImageURIs map[string]string `json:"image_uris"`

	// An object containing daily price information for this card, including usd, usd_foil, usd_etched, eur, eur_foil, eur_etched, and tix prices, as strings.
	Prices map[string]*string `json:"prices"`

	// An object providing URIs to this card's listing on major marketplaces.
	// NULLABLE
	PurchaseURIs map[string]string `json:"purchase_uris"`

	// This card's rarity. One of common, uncommon, rare, special, mythic, or bonus.
	Rarity string `json:"rarity"`

	// The date this card was first released.
	ReleasedAt string `json:"released_at"`

	// This card's set code.
	Set string `json:"set"`

	// This card's full set name.
	SetName string `json:"set_name"`

	// An array of Card Face objects, if this card is multifaced.
	// NULLABLE
	CardFaces []CardFace `json:"card_faces"`
}

// Multiface cards have a card_faces property containing at least two Card Face objects.
type CardFace struct {
	// The name of this particular face.
	Name string `json:"name"`

	// The mana cost for this face.
	ManaCost string `json:"mana_cost"`

	// The type line of this particular face, if the card is reversible.
	// NULLABLE
	TypeLine *string `json:"type_line"`

	// The Oracle text for this face, if any.
	// NULLABLE
	OracleText *string `json:"oracle_text"`

	// NULLABLE
	Power *string `json:"power"`

	// NULLABLE
	Toughness *string `json:"toughness"`

	// NULLABLE
	ImageURIs map[string]string `json:"image_uris"`
}

// UnmarshalJSON implements custom unmarshalling for Card to handle URL fields
func (c *Card) UnmarshalJSON(data []byte) error {
	type Alias Card
	aux := &struct {
		RulingsURI  string `json:"rulings_uri"`
		ScryfallURI string `json:"scryfall_uri"`
		*Alias
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	var parsed *url.URL

	if parsed, err = url.Parse(aux.RulingsURI); err != nil {
		return err
	}
	c.RulingsURI = *parsed

	if parsed, err = url.Parse(aux.ScryfallURI); err != nil {
		return err
	}
	c.ScryfallURI = *parsed

	return nil
}

// MarshalJSON writes the URL fields back out as strings.
func (c Card) MarshalJSON() ([]byte, error) {
	type Alias Card
	return json.Marshal(&struct {
		RulingsURI  string `json:"rulings_uri"`
		ScryfallURI string `json:"scryfall_uri"`
		Alias
	}{
		RulingsURI:  c.RulingsURI.String(),
		ScryfallURI: c.ScryfallURI.String(),
		Alias:       Alias(c),
	})
}
