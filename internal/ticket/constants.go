package ticket

import "strings"

// danishMonths maps the month abbreviations printed on DSB tickets to month
// numbers. Loaded once, never mutated.
var danishMonths = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4,
	"maj": 5, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "okt": 10, "nov": 11, "dec": 12,
}

// trainTypes lists the DSB service types in match order. InterCityLyn must
// come before InterCity so the alternation does not truncate it.
var trainTypes = []string{"InterCityLyn", "InterCity", "Regionaltog", "Lyn"}

// Canonical travel class labels
const (
	ClassFirst  = "1. klasse"
	ClassSecond = "2. klasse"
)

// parseDanishMonth converts a Danish month abbreviation to its month number.
func parseDanishMonth(abbr string) (int, bool) {
	m, ok := danishMonths[strings.ToLower(abbr)]
	return m, ok
}
