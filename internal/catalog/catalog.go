// Package catalog loads the city's cultural-facility inventory and answers
// name, category and proximity lookups over it.
package catalog

import (
	"regexp"
	"strings"

	"github.com/jvilanova/biciruta/internal/geo"
)

// PointOfInterest is one cultural facility. Name is unique after
// normalization; Category comes from keyword matching on the name.
type PointOfInterest struct {
	Name       string         `json:"name"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Category   string         `json:"category"`
	InfoLink   string         `json:"info_link,omitempty"`
}

// POIWithDistance pairs a catalog entry with its distance from a query point.
type POIWithDistance struct {
	PointOfInterest
	DistanceKm float64 `json:"distance_km"`
}

// leadingIndex matches inventory prefixes such as "12 - " that some source
// rows carry in front of the facility name.
var leadingIndex = regexp.MustCompile(`^\d+\s*-\s*`)

// NormalizeName strips inventory prefixes and surrounding whitespace.
func NormalizeName(raw string) string {
	return strings.TrimSpace(leadingIndex.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// Facility names are Spanish or Valencian; categories follow the wording
// the city uses for them. Order matters: the first category whose keywords
// match wins.
var categoryOrder = []string{
	"Museos",
	"Teatros y Salas de Concierto",
	"Bibliotecas y Archivos",
	"Monumentos y Palacios",
	"Galerías y Exposiciones",
	"Fundaciones y Centros Culturales",
}

var categoryKeywords = map[string][]string{
	"Museos": {
		"museo", "museu", "oceanogràfic", "hemisfèric", "muma", "muvim",
		"l'iber", "corpus", "prehistoria", "etnología", "ciencias naturales",
		"ciencias", "fallero",
	},
	"Teatros y Salas de Concierto": {
		"teatro", "teatre", "auditori", "música", "arts escèniques", "flumen",
		"olympia", "principal", "talia", "musical", "escalante",
		"palau de la música", "sala",
	},
	"Bibliotecas y Archivos": {
		"biblioteca", "arxiu", "hemeroteca", "lectura", "documentación",
	},
	"Monumentos y Palacios": {
		"palau", "palacio", "llotja", "lonja", "església", "iglesia",
		"catedral", "monestir", "monasterio", "torres", "portal", "ermita",
		"basílica", "almodí", "almudín", "cripta", "refugio antiaéreo",
		"cementerio", "ateneo", "casino",
	},
	"Galerías y Exposiciones": {
		"galería", "galeria", "sala exposiciones", "exposición",
		"centre d'art", "atarazanas", "atarazanes", "ivam", "caixaforum",
		"beneficencia", "la nau",
	},
	"Fundaciones y Centros Culturales": {
		"centre cultural", "centro cultural", "fundació", "fundación",
		"instituto", "institució", "casa de la cultura", "las naves",
		"rambleta", "nou d'octubre",
	},
}

// Categorize maps a facility name to a category, or "" when no keyword
// matches. Uncategorized rows are not part of the cultural catalog.
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, category := range categoryOrder {
		for _, kw := range categoryKeywords[category] {
			if strings.Contains(lower, kw) {
				return category
			}
		}
	}
	return ""
}

// Categories lists the known categories in display order.
func Categories() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}
