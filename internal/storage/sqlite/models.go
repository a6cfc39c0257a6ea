package sqlite

import "time"

// Conversion statuses
const (
	StatusConverted  = "converted"
	StatusIncomplete = "incomplete"
)

// ConversionRecord represents one completed ticket conversion
type ConversionRecord struct {
	ID          string    `json:"id"`
	SourceFile  string    `json:"source_file"`
	FromStation string    `json:"from_station"`
	ToStation   string    `json:"to_station"`
	Departure   time.Time `json:"departure"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
