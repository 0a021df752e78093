package offmeta

import (
	"net/url"
	"strings"
)

// CompileQuery builds the Scryfall search string for a filter and sort state.
//
// Behavior:
//   - Empty fields are omitted; the zero FilterState compiles to ""
//   - Free text matches either the card name or its oracle text
//   - Subtypes are split on commas, trimmed, and grouped in one parenthesized clause
//   - Each availability platform is its own clause, so all must match
//   - Sort is emitted as order:/dir: unless sorting by popularity, which Scryfall can't order by
//
// The result is not escaped; use Compile for the form sent to the API.
func CompileQuery(f FilterState, r RankState) string {
	var clauses []string

	if f.Query != "" {
		clauses = append(clauses, `(name:"`+f.Query+`" or oracle:"`+f.Query+`")`)
	}

	if f.Type != "" {
		clauses = append(clauses, `type:"`+f.Type+`"`)
	}

	if subtypes := splitSubtypes(f.Subtypes); len(subtypes) > 0 {
		parts := make([]string, len(subtypes))
		for i, subtype := range subtypes {
			parts[i] = `t:"` + subtype + `"`
		}
		sep := " or "
		if f.SubtypeLogic == SubtypeAnd {
			sep = " "
		}
		clauses = append(clauses, "("+strings.Join(parts, sep)+")")
	}

	if f.Rarity != "" {
		clauses = append(clauses, "rarity:"+f.Rarity)
	}

	if f.ManaValue != "" {
		clauses = append(clauses, "mv:"+f.ManaValue)
	}

	if len(f.Colors) > 0 {
		var letters strings.Builder
		for _, c := range f.Colors {
			letters.WriteString(string(c))
		}
		field := "c"
		if f.ColorMode == ColorModeIdentity {
			field = "id"
		}
		clauses = append(clauses, field+">="+letters.String())
	}

	if f.PriceMin != "" {
		clauses = append(clauses, "usd>="+f.PriceMin)
	}
	if f.PriceMax != "" {
		clauses = append(clauses, "usd<="+f.PriceMax)
	}

	if f.Format != "" {
		clauses = append(clauses, "legal:"+f.Format)
	}

	for _, platform := range f.Availability {
		if platform == "" {
			continue
		}
		clauses = append(clauses, "game:"+string(platform))
	}

	if order := r.SortKey.orderParam(); order != "" {
		clauses = append(clauses, "order:"+order)
		if dir := r.Direction; dir == Ascending || dir == Descending {
			clauses = append(clauses, "dir:"+string(dir))
		}
	}

	return strings.TrimSpace(strings.Join(clauses, " "))
}

// Compile returns CompileQuery escaped for use as the q parameter of /cards/search.
func Compile(f FilterState, r RankState) string {
	return url.QueryEscape(CompileQuery(f, r))
}

func splitSubtypes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
