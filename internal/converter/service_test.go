package converter

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dsb-tools/billet2ics/internal/pdftext"
	"github.com/dsb-tools/billet2ics/internal/ticket"
	"github.com/dsb-tools/billet2ics/pkg/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "json"})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	return NewService(ticket.NewEngine(), pdftext.NewExtractor(log), nil, log)
}

func TestExtractFromPDFUnreadableFile(t *testing.T) {
	service := newTestService(t)

	_, err := service.ExtractFromPDF(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("ExtractFromPDF() expected error for missing file")
	}
	// A failing document read is a parse failure, not a crash.
	var parseErr *ticket.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error = %T, want *ticket.ParseError", err)
	}
}

func TestOutputFilename(t *testing.T) {
	rec := &ticket.JourneyRecord{
		DepartureDate: &ticket.Date{Day: 14, Month: 11, Year: 2025},
		DepartureTime: &ticket.Clock{Hour: 13, Minute: 15},
	}
	if got := OutputFilename(rec); got != "DSB_Rejse_2025-11-14_13-15.ics" {
		t.Errorf("OutputFilename() = %q", got)
	}

	if got := OutputFilename(&ticket.JourneyRecord{}); got != "DSB_Rejse.ics" {
		t.Errorf("OutputFilename() on empty record = %q", got)
	}
}

func TestComposeICSIncompleteRecord(t *testing.T) {
	service := newTestService(t)

	data, _, err := service.ComposeICS(&ticket.JourneyRecord{}, "Billet.pdf")
	if err == nil {
		t.Fatal("ComposeICS() expected error for incomplete record")
	}
	if data != nil {
		t.Errorf("ComposeICS() returned bytes alongside error")
	}
}

func TestRecentConversionsWithoutStorage(t *testing.T) {
	service := newTestService(t)

	records, err := service.RecentConversions(10)
	if err != nil {
		t.Fatalf("RecentConversions() error = %v", err)
	}
	if records != nil {
		t.Errorf("RecentConversions() = %v, want nil when storage is disabled", records)
	}
}
