package ticket

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseError indicates that ticket text could not be obtained or was empty.
// Missing individual fields are never errors; they stay absent on the record.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Station names end in one of a small set of suffixes (H for hovedbanegård,
// St. for station, M for metro). The character class is Unicode-aware so
// names like "København H" match.
const (
	monthAlt    = `jan|feb|mar|apr|maj|jun|jul|aug|sep|okt|nov|dec`
	stationExpr = `([\p{L}\d\s]+?(?:H|St\.|M))`
)

var (
	// "14.nov. 13:15"
	departureRe = regexp.MustCompile(`(?i)(\d{1,2})\.(` + monthAlt + `)\.\s+(\d{1,2}):(\d{2})`)

	// booking timestamp "14.10.25 09:31", source of the two-digit year
	bookingRe = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{2})\s+(\d{2}):(\d{2})`)

	// one itinerary row: departure, origin, destination, arrival
	journeyRowRe = regexp.MustCompile(`(?i)(\d{1,2})\.(` + monthAlt + `)\.\s+(\d{1,2}):(\d{2})\s+` +
		stationExpr + `\s+` + stationExpr +
		`\s+\d{1,2}\.(` + monthAlt + `)\.\s+(\d{1,2}):(\d{2})`)

	fromLabelRe = regexp.MustCompile(`(?i)Fra:\s+` + stationExpr + `(?:\s|$)`)
	toLabelRe   = regexp.MustCompile(`(?i)Til:\s+` + stationExpr + `(?:\s|$|,)`)
	routeRe     = regexp.MustCompile(`(?i)` + stationExpr + `\s*-\s*` + stationExpr)

	clockRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

	trainRe = regexp.MustCompile(`(?i)(` + strings.Join(trainTypes, "|") + `)\s+(\d+)`)

	wagonLabelRe = regexp.MustCompile(`Vognnr\.?\s+(\d+)`)
	seatLabelRe  = regexp.MustCompile(`Pladsnr\.?\s+(\d+)`)

	classRe = regexp.MustCompile(`(?i)(DSB 1'|DSB 2'|1\. klasse|2\. klasse)`)
	priceRe = regexp.MustCompile(`(\d+)\s*kr\.`)
)

// Engine extracts journey records from normalized ticket text. The zero
// value is not usable; construct with NewEngine.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine using the real clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Extract runs every field strategy over the text and returns the resulting
// record. Each field is write-once: the first strategy that finds a value
// wins and later fallbacks for the same field are skipped.
func (e *Engine) Extract(text string) (*JourneyRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Reason: "document contains no extractable text"}
	}

	rec := &JourneyRecord{}
	now := e.now()

	e.extractDeparture(text, rec, now)
	e.extractStations(text, rec)
	e.extractArrivalFallback(text, rec)
	e.extractTrain(text, rec)
	e.extractSeating(text, rec)
	e.extractClass(text, rec)
	e.extractPrice(text, rec)

	return rec, nil
}

// extractDeparture finds the first "<day>.<month-abbr>. <hh>:<mm>" token and
// sets departure date and time together. The year is not printed next to the
// journey date, so it is inferred; see resolveYear.
func (e *Engine) extractDeparture(text string, rec *JourneyRecord, now time.Time) {
	m := departureRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	month, ok := parseDanishMonth(m[2])
	if !ok {
		return
	}
	rec.DepartureDate = &Date{
		Day:   atoi(m[1]),
		Month: month,
		Year:  resolveYear(text, month, now),
	}
	rec.DepartureTime = &Clock{Hour: atoi(m[3]), Minute: atoi(m[4])}
}

// resolveYear guesses the journey year. When a booking timestamp
// "dd.mm.yy hh:mm" is present its year is used as the baseline; a journey
// month earlier than the current month rolls the year forward by one when the
// baseline is the current year (a December booking for a January journey).
// Without a booking timestamp the current year is the baseline with the same
// roll rule. This is a best-effort guess and can misclassify journeys booked
// far in advance or far in the past.
func resolveYear(text string, month int, now time.Time) int {
	if m := bookingRe.FindStringSubmatch(text); m != nil {
		year := 2000 + atoi(m[3])
		if month < int(now.Month()) && year == now.Year() {
			year++
		}
		return year
	}
	year := now.Year()
	if month < int(now.Month()) {
		year++
	}
	return year
}

// extractStations tries three tiers in priority order and stops at the first
// match:
//
//  1. a full itinerary row, which also yields the arrival time
//  2. explicit "Fra:" / "Til:" labels
//  3. an "<origin> - <destination>" route line
//
// When no tier matches, both stations stay absent.
func (e *Engine) extractStations(text string, rec *JourneyRecord) {
	if m := journeyRowRe.FindStringSubmatch(text); m != nil {
		rec.FromStation = strings.TrimSpace(m[5])
		rec.ToStation = strings.TrimSpace(m[6])
		rec.ArrivalTime = &Clock{Hour: atoi(m[8]), Minute: atoi(m[9])}
		return
	}

	fromM := fromLabelRe.FindStringSubmatch(text)
	toM := toLabelRe.FindStringSubmatch(text)
	if fromM != nil && toM != nil {
		rec.FromStation = strings.TrimSpace(fromM[1])
		rec.ToStation = strings.TrimSpace(toM[1])
		return
	}

	if m := routeRe.FindStringSubmatch(text); m != nil {
		rec.FromStation = strings.TrimSpace(m[1])
		rec.ToStation = strings.TrimSpace(m[2])
	}
}

// extractArrivalFallback takes the second "<h>:<mm>" occurrence in document
// order as the arrival time, assuming the first is the departure. Purely
// positional: any earlier stray time-like token shifts the result.
func (e *Engine) extractArrivalFallback(text string, rec *JourneyRecord) {
	if rec.ArrivalTime != nil {
		return
	}
	times := clockRe.FindAllStringSubmatch(text, -1)
	if len(times) >= 2 {
		rec.ArrivalTime = &Clock{Hour: atoi(times[1][1]), Minute: atoi(times[1][2])}
	}
}

// extractTrain finds "<service type> <digits>" and sets type and number
// together.
func (e *Engine) extractTrain(text string, rec *JourneyRecord) {
	if m := trainRe.FindStringSubmatch(text); m != nil {
		rec.TrainType = m[1]
		rec.TrainNumber = m[2]
	}
}

// extractSeating first looks for the seating columns of the itinerary table
// ("InterCityLyn 42 91 22" is wagon 91, seat 22), then falls back to the
// labelled "Vognnr." and "Pladsnr." fields independently.
func (e *Engine) extractSeating(text string, rec *JourneyRecord) {
	if rec.TrainType != "" && rec.TrainNumber != "" {
		expr := fmt.Sprintf(`(?i)%s\s+%s\s+(\d+)\s+(\d+)`,
			regexp.QuoteMeta(rec.TrainType), regexp.QuoteMeta(rec.TrainNumber))
		if re, err := regexp.Compile(expr); err == nil {
			if m := re.FindStringSubmatch(text); m != nil {
				rec.Wagon = m[1]
				rec.Seat = m[2]
			}
		}
	}

	if rec.Wagon == "" {
		if m := wagonLabelRe.FindStringSubmatch(text); m != nil {
			rec.Wagon = m[1]
		}
	}
	if rec.Seat == "" {
		if m := seatLabelRe.FindStringSubmatch(text); m != nil {
			rec.Seat = m[1]
		}
	}
}

// extractClass normalizes any class marker containing "1" to first class and
// everything else to second class.
func (e *Engine) extractClass(text string, rec *JourneyRecord) {
	m := classRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	if strings.Contains(m[1], "1") {
		rec.TravelClass = ClassFirst
	} else {
		rec.TravelClass = ClassSecond
	}
}

// extractPrice takes the first "<digits> kr." occurrence.
func (e *Engine) extractPrice(text string, rec *JourneyRecord) {
	if m := priceRe.FindStringSubmatch(text); m != nil {
		rec.Price = m[1]
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
