package ticket

import "fmt"

// Date is a calendar date as printed on a ticket
type Date struct {
	Day   int
	Month int
	Year  int
}

// Clock is a 24-hour wall-clock time
type Clock struct {
	Hour   int
	Minute int
}

// JourneyRecord holds the information extracted from a single ticket. All
// fields are optional; empty strings and nil pointers mean the field was not
// found in the document.
type JourneyRecord struct {
	FromStation   string
	ToStation     string
	DepartureDate *Date
	DepartureTime *Clock
	ArrivalTime   *Clock
	TrainType     string
	TrainNumber   string
	Wagon         string
	Seat          string
	TravelClass   string
	Price         string
}

// IsComplete reports whether the record carries the minimum information for
// calendar generation.
func (r *JourneyRecord) IsComplete() bool {
	return len(r.MissingFields()) == 0
}

// MissingFields returns the names of the required fields that are absent.
func (r *JourneyRecord) MissingFields() []string {
	var missing []string
	if r.FromStation == "" {
		missing = append(missing, "from_station")
	}
	if r.ToStation == "" {
		missing = append(missing, "to_station")
	}
	if r.DepartureDate == nil {
		missing = append(missing, "departure_date")
	}
	if r.DepartureTime == nil {
		missing = append(missing, "departure_time")
	}
	if r.ArrivalTime == nil {
		missing = append(missing, "arrival_time")
	}
	return missing
}

// ToMap converts the record to the key-value interchange form used by the
// JSON API. Absent fields are nil, dates are [day, month, year] and times
// are [hour, minute].
func (r *JourneyRecord) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"from_station":   nilIfEmpty(r.FromStation),
		"to_station":     nilIfEmpty(r.ToStation),
		"departure_date": nil,
		"departure_time": nil,
		"arrival_time":   nil,
		"train_type":     nilIfEmpty(r.TrainType),
		"train_number":   nilIfEmpty(r.TrainNumber),
		"wagon":          nilIfEmpty(r.Wagon),
		"seat":           nilIfEmpty(r.Seat),
		"class":          nilIfEmpty(r.TravelClass),
		"price":          nilIfEmpty(r.Price),
	}
	if r.DepartureDate != nil {
		m["departure_date"] = []int{r.DepartureDate.Day, r.DepartureDate.Month, r.DepartureDate.Year}
	}
	if r.DepartureTime != nil {
		m["departure_time"] = []int{r.DepartureTime.Hour, r.DepartureTime.Minute}
	}
	if r.ArrivalTime != nil {
		m["arrival_time"] = []int{r.ArrivalTime.Hour, r.ArrivalTime.Minute}
	}
	return m
}

// FormattedDeparture returns "yyyy-mm-dd hh:mm", or "" when date or time is
// absent.
func (r *JourneyRecord) FormattedDeparture() string {
	if r.DepartureDate == nil || r.DepartureTime == nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d",
		r.DepartureDate.Year, r.DepartureDate.Month, r.DepartureDate.Day,
		r.DepartureTime.Hour, r.DepartureTime.Minute)
}

// FormattedArrival returns "hh:mm", or "" when the arrival time is absent.
func (r *JourneyRecord) FormattedArrival() string {
	if r.ArrivalTime == nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", r.ArrivalTime.Hour, r.ArrivalTime.Minute)
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
