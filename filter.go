package offmeta

// SubtypeLogic selects how multiple subtypes are combined.
type SubtypeLogic string

const (
	SubtypeOr  SubtypeLogic = "or"  // Match any listed subtype
	SubtypeAnd SubtypeLogic = "and" // Match every listed subtype
)

// ColorMode selects which color field the color filter applies to.
type ColorMode string

const (
	ColorModeColors   ColorMode = "colors"   // The card's own colors (c>=)
	ColorModeIdentity ColorMode = "identity" // The card's color identity (id>=)
)

// Color is a single-letter Magic color.
type Color string

const (
	White Color = "W"
	Blue  Color = "U"
	Black Color = "B"
	Red   Color = "R"
	Green Color = "G"
)

// Platform is a game a card printing can be available in.
type Platform string

const (
	Paper Platform = "paper"
	MTGO  Platform = "mtgo"
	Arena Platform = "arena"
)

// FilterState is everything a user can filter a card search by.
// The zero value filters nothing; empty fields never contribute to a query.
type FilterState struct {
	Query        string       // free text, matched against name or oracle text
	Type         string       // e.g. "Creature"
	Subtypes     string       // comma separated, e.g. "Elf, Warrior"
	SubtypeLogic SubtypeLogic // defaults to or
	Colors       []Color
	ColorMode    ColorMode // defaults to colors
	Rarity       string    // common, uncommon, rare, mythic
	ManaValue    string    // comparator expression, e.g. "<=2"
	PriceMin     string    // dollars, inclusive
	PriceMax     string    // dollars, inclusive
	Format       string    // legality format, e.g. "commander"
	Availability []Platform
}

// Clone returns a deep copy so callers can keep mutating their own state.
func (f FilterState) Clone() FilterState {
	out := f
	if f.Colors != nil {
		out.Colors = append([]Color(nil), f.Colors...)
	}
	if f.Availability != nil {
		out.Availability = append([]Platform(nil), f.Availability...)
	}
	return out
}
