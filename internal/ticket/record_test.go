package ticket

import (
	"reflect"
	"testing"
)

func completeRecord() *JourneyRecord {
	return &JourneyRecord{
		FromStation:   "Aarhus H",
		ToStation:     "København H",
		DepartureDate: &Date{Day: 14, Month: 11, Year: 2025},
		DepartureTime: &Clock{Hour: 13, Minute: 15},
		ArrivalTime:   &Clock{Hour: 16, Minute: 6},
		TrainType:     "InterCityLyn",
		TrainNumber:   "42",
		Wagon:         "91",
		Seat:          "22",
		TravelClass:   ClassFirst,
		Price:         "30",
	}
}

func TestMissingFields(t *testing.T) {
	rec := completeRecord()
	if got := rec.MissingFields(); len(got) != 0 {
		t.Errorf("MissingFields() = %v, want none", got)
	}

	rec.ToStation = ""
	rec.ArrivalTime = nil
	want := []string{"to_station", "arrival_time"}
	if got := rec.MissingFields(); !reflect.DeepEqual(got, want) {
		t.Errorf("MissingFields() = %v, want %v", got, want)
	}
	if rec.IsComplete() {
		t.Errorf("IsComplete() = true for record missing fields")
	}

	empty := &JourneyRecord{}
	if got := empty.MissingFields(); len(got) != 5 {
		t.Errorf("MissingFields() on empty record = %v, want all five", got)
	}
}

func TestToMap(t *testing.T) {
	m := completeRecord().ToMap()

	keys := []string{
		"from_station", "to_station", "departure_date", "departure_time",
		"arrival_time", "train_type", "train_number", "wagon", "seat",
		"class", "price",
	}
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			t.Errorf("ToMap() missing key %q", k)
		}
	}
	if len(m) != len(keys) {
		t.Errorf("ToMap() has %d keys, want %d", len(m), len(keys))
	}

	if got := m["departure_date"]; !reflect.DeepEqual(got, []int{14, 11, 2025}) {
		t.Errorf("departure_date = %v, want [14 11 2025]", got)
	}
	if got := m["arrival_time"]; !reflect.DeepEqual(got, []int{16, 6}) {
		t.Errorf("arrival_time = %v, want [16 6]", got)
	}
	if got := m["class"]; got != ClassFirst {
		t.Errorf("class = %v, want %q", got, ClassFirst)
	}

	empty := (&JourneyRecord{}).ToMap()
	if empty["from_station"] != nil || empty["departure_date"] != nil {
		t.Errorf("empty record must map absent fields to nil, got %v", empty)
	}
}

func TestFormattedHelpers(t *testing.T) {
	rec := completeRecord()
	if got := rec.FormattedDeparture(); got != "2025-11-14 13:15" {
		t.Errorf("FormattedDeparture() = %q, want %q", got, "2025-11-14 13:15")
	}
	if got := rec.FormattedArrival(); got != "16:06" {
		t.Errorf("FormattedArrival() = %q, want %q", got, "16:06")
	}

	empty := &JourneyRecord{}
	if got := empty.FormattedDeparture(); got != "" {
		t.Errorf("FormattedDeparture() on empty record = %q, want empty", got)
	}
	if got := empty.FormattedArrival(); got != "" {
		t.Errorf("FormattedArrival() on empty record = %q, want empty", got)
	}
}
