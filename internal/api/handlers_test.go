package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dsb-tools/billet2ics/internal/config"
	"github.com/dsb-tools/billet2ics/internal/converter"
	"github.com/dsb-tools/billet2ics/internal/pdftext"
	"github.com/dsb-tools/billet2ics/internal/ticket"
	"github.com/dsb-tools/billet2ics/pkg/logger"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	log, err := logger.New(logger.Config{Level: "error", Format: "json"})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	cfg := config.Default()
	service := converter.NewService(ticket.NewEngine(), pdftext.NewExtractor(log), nil, log)
	return NewRouter(service, cfg, log).Routes()
}

func decodeJSON(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.NewDecoder(body).Decode(&m); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return m
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestGetHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeJSON(t, rr.Body)
	if body["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", body["status"])
	}
	if body["service"] != serviceName {
		t.Errorf("service field = %v", body["service"])
	}
}

func TestConvertWithoutFile(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	body := decodeJSON(t, rr.Body)
	if body["error"] != "No file provided" {
		t.Errorf("error field = %v", body["error"])
	}
}

func TestConvertRejectsNonPDF(t *testing.T) {
	router := newTestRouter(t)

	buf, contentType := multipartUpload(t, "billet.txt", []byte("not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", buf)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	body := decodeJSON(t, rr.Body)
	if body["error"] != "Invalid file type" {
		t.Errorf("error field = %v", body["error"])
	}
}

func TestConvertUnparsablePDF(t *testing.T) {
	router := newTestRouter(t)

	// Right extension, not a PDF: the document reader fails and the failure
	// surfaces as a parsing error, not a crash.
	buf, contentType := multipartUpload(t, "billet.pdf", []byte("this is not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", buf)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	body := decodeJSON(t, rr.Body)
	if body["error"] != "Parsing error" {
		t.Errorf("error field = %v", body["error"])
	}
}

func TestGetRecentConversionsWithoutStorage(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversions", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeJSON(t, rr.Body)
	if body["count"] != float64(0) {
		t.Errorf("count = %v, want 0", body["count"])
	}
}

func TestGetRecentConversionsInvalidLimit(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversions?limit=abc", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
