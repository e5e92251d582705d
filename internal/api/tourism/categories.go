package tourism

import (
	_ "embed"
	"strings"
)

// The catalog of place categories the agent may select from. Selections
// outside this list are discarded before the places search.
//
//go:embed categories.txt
var categoriesFile string

// CategoryCatalog returns the allowed categories in file order.
func CategoryCatalog() []string {
	lines := strings.Split(strings.TrimSpace(categoriesFile), "\n")
	catalog := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			catalog = append(catalog, line)
		}
	}
	return catalog
}

func catalogSet() map[string]bool {
	set := map[string]bool{}
	for _, c := range CategoryCatalog() {
		set[c] = true
	}
	return set
}

// keywordCategories is the fallback mapping used when the model is
// unavailable: a few broad interest keywords map onto catalog categories.
var keywordCategories = map[string][]string{
	"montaña":    {"hiking_area", "national_park", "campground"},
	"mountain":   {"hiking_area", "national_park", "campground"},
	"naturaleza": {"park", "national_park", "hiking_area"},
	"nature":     {"park", "national_park", "hiking_area"},
	"playa":      {"tourist_attraction", "restaurant", "bar"},
	"beach":      {"tourist_attraction", "restaurant", "bar"},
	"cultura":    {"museum", "art_gallery", "historical_landmark"},
	"culture":    {"museum", "art_gallery", "historical_landmark"},
	"historia":   {"historical_landmark", "museum", "church"},
	"history":    {"historical_landmark", "museum", "church"},
	"comida":     {"restaurant", "cafe", "market"},
	"food":       {"restaurant", "cafe", "market"},
	"aventura":   {"hiking_area", "amusement_park", "campground"},
	"adventure":  {"hiking_area", "amusement_park", "campground"},
	"fiesta":     {"night_club", "bar"},
	"nightlife":  {"night_club", "bar"},
	"compras":    {"shopping_mall", "market"},
	"shopping":   {"shopping_mall", "market"},
	"relax":      {"spa", "park", "cafe"},
	"deporte":    {"stadium", "park"},
	"sport":      {"stadium", "park"},
	"familia":    {"zoo", "aquarium", "amusement_park"},
	"family":     {"zoo", "aquarium", "amusement_park"},
}

// fallbackCategories maps interests to catalog categories without the model.
// Unknown interests fall back to general sightseeing.
func fallbackCategories(interests []string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(cats []string) {
		for _, c := range cats {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	for _, interest := range interests {
		if cats, ok := keywordCategories[strings.ToLower(strings.TrimSpace(interest))]; ok {
			add(cats)
		}
	}
	if len(out) == 0 {
		add([]string{"tourist_attraction", "park", "restaurant"})
	}
	return out
}
