// Package calendar renders a complete journey record as an iCalendar event.
package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/dsb-tools/billet2ics/internal/ticket"
)

const (
	productID     = "-//DSB Transport//example.com//"
	eventCategory = "Travel"
	uidPrefix     = "dsb-rejse-"
	uidDomain     = "@example.com"

	// Tickets print wall-clock times for this zone; the serialized event
	// carries UTC instants.
	sourceTimezone = "Europe/Copenhagen"
)

// GenerationError indicates that an event was requested for a record that is
// missing required fields.
type GenerationError struct {
	MissingFields []string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf(
		"insufficient ticket information to create calendar event, missing: %s",
		strings.Join(e.MissingFields, ", "))
}

// Compose renders the record as a single VEVENT inside a VCALENDAR and
// returns the serialized bytes. now is used only for DTSTAMP.
//
// The arrival is assumed to fall on the same calendar day as the departure;
// an overnight journey produces an end time before the start time. The UID is
// derived from the departure date alone, so two journeys on the same day get
// the same UID.
func Compose(rec *ticket.JourneyRecord, now time.Time) ([]byte, error) {
	if missing := rec.MissingFields(); len(missing) > 0 {
		return nil, &GenerationError{MissingFields: missing}
	}

	loc, err := time.LoadLocation(sourceTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", sourceTimezone, err)
	}

	d := rec.DepartureDate
	start := time.Date(d.Year, time.Month(d.Month), d.Day,
		rec.DepartureTime.Hour, rec.DepartureTime.Minute, 0, 0, loc)
	end := time.Date(d.Year, time.Month(d.Month), d.Day,
		rec.ArrivalTime.Hour, rec.ArrivalTime.Minute, 0, 0, loc)

	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetVersion("2.0")

	event := cal.AddEvent(uidPrefix + start.Format("20060102") + uidDomain)
	event.SetDtStampTime(now.UTC())
	event.SetStartAt(start.UTC())
	event.SetEndAt(end.UTC())
	event.SetSummary(fmt.Sprintf("DSB Rejse – %s → %s", rec.FromStation, rec.ToStation))
	event.SetLocation(fmt.Sprintf("%s til %s", rec.FromStation, rec.ToStation))
	event.SetDescription(Description(rec))
	event.SetProperty(ics.ComponentPropertyCategories, eventCategory)

	return []byte(cal.Serialize()), nil
}

// Description joins the optional enrichment fields that are present, in a
// fixed order, comma-separated.
func Description(rec *ticket.JourneyRecord) string {
	var parts []string
	if rec.TrainType != "" && rec.TrainNumber != "" {
		parts = append(parts, fmt.Sprintf("%s %s", rec.TrainType, rec.TrainNumber))
	}
	if rec.Wagon != "" {
		parts = append(parts, fmt.Sprintf("vogn %s", rec.Wagon))
	}
	if rec.Seat != "" {
		parts = append(parts, fmt.Sprintf("plads %s", rec.Seat))
	}
	if rec.TravelClass != "" {
		parts = append(parts, rec.TravelClass)
	}
	if rec.Price != "" {
		parts = append(parts, fmt.Sprintf("pris %s kr.", rec.Price))
	}
	return strings.Join(parts, ", ")
}
