// Package converter wires the PDF text extractor, the extraction engine and
// the event composer into one conversion flow.
package converter

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dsb-tools/billet2ics/internal/calendar"
	"github.com/dsb-tools/billet2ics/internal/pdftext"
	"github.com/dsb-tools/billet2ics/internal/storage/sqlite"
	"github.com/dsb-tools/billet2ics/internal/ticket"
	"github.com/dsb-tools/billet2ics/pkg/logger"
)

// Service converts ticket PDFs into journey records and calendar events
type Service struct {
	engine  *ticket.Engine
	pdf     *pdftext.Extractor
	history *sqlite.ConversionStorage // nil when history storage is disabled
	logger  *logger.Logger
}

// NewService creates a new conversion service. history may be nil.
func NewService(engine *ticket.Engine, pdf *pdftext.Extractor, history *sqlite.ConversionStorage, log *logger.Logger) *Service {
	return &Service{
		engine:  engine,
		pdf:     pdf,
		history: history,
		logger:  log.Named("converter"),
	}
}

// ExtractFromPDF pulls the text out of the PDF and runs the extraction
// engine over it. A failing PDF read surfaces as a ticket.ParseError, per
// the collaborator contract.
func (s *Service) ExtractFromPDF(path string) (*ticket.JourneyRecord, error) {
	pages, err := s.pdf.Pages(path)
	if err != nil {
		return nil, &ticket.ParseError{Reason: "failed to read ticket document", Err: err}
	}

	text := strings.Join(pages, "\n")
	rec, err := s.engine.Extract(text)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket extracted",
		logger.String("from", rec.FromStation),
		logger.String("to", rec.ToStation),
		logger.String("departure", rec.FormattedDeparture()),
		logger.Bool("complete", rec.IsComplete()),
	)
	return rec, nil
}

// ComposeICS renders the record as calendar bytes and returns them together
// with a suggested download filename. A successful conversion is written to
// the history storage when one is configured.
func (s *Service) ComposeICS(rec *ticket.JourneyRecord, sourceName string) ([]byte, string, error) {
	data, err := calendar.Compose(rec, time.Now())
	if err != nil {
		return nil, "", err
	}

	s.recordConversion(rec, sourceName)
	return data, OutputFilename(rec), nil
}

// RecentConversions returns the latest entries from the history storage.
func (s *Service) RecentConversions(limit int) ([]*sqlite.ConversionRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.GetRecentConversions(limit)
}

// OutputFilename derives the download name from the departure timestamp,
// e.g. "DSB_Rejse_2025-11-14_13-15.ics".
func OutputFilename(rec *ticket.JourneyRecord) string {
	departure := rec.FormattedDeparture()
	if departure == "" {
		return "DSB_Rejse.ics"
	}
	departure = strings.ReplaceAll(departure, " ", "_")
	departure = strings.ReplaceAll(departure, ":", "-")
	return fmt.Sprintf("DSB_Rejse_%s.ics", departure)
}

func (s *Service) recordConversion(rec *ticket.JourneyRecord, sourceName string) {
	if s.history == nil {
		return
	}

	d := rec.DepartureDate
	t := rec.DepartureTime
	record := &sqlite.ConversionRecord{
		ID:          uuid.New().String(),
		SourceFile:  sourceName,
		FromStation: rec.FromStation,
		ToStation:   rec.ToStation,
		Departure:   time.Date(d.Year, time.Month(d.Month), d.Day, t.Hour, t.Minute, 0, 0, time.UTC),
		Status:      sqlite.StatusConverted,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.history.StoreConversion(record); err != nil {
		// History is best-effort; the conversion itself already succeeded.
		s.logger.Warn("failed to record conversion", logger.Error(err))
	}
}
