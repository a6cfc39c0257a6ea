package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dsb-tools/billet2ics/internal/calendar"
	"github.com/dsb-tools/billet2ics/internal/config"
	"github.com/dsb-tools/billet2ics/internal/converter"
	"github.com/dsb-tools/billet2ics/internal/storage/sqlite"
	"github.com/dsb-tools/billet2ics/internal/ticket"
	"github.com/dsb-tools/billet2ics/pkg/logger"
)

const (
	serviceName    = "DSB Ticket to ICS Converter"
	serviceVersion = "1.0.0"

	defaultHistoryLimit = 50
)

// Handler contains the HTTP handlers for the API
type Handler struct {
	service *converter.Service
	config  *config.Config
	logger  *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(service *converter.Service, config *config.Config, logger *logger.Logger) *Handler {
	return &Handler{
		service: service,
		config:  config,
		logger:  logger.Named("api-handler"),
	}
}

// GetHealth handles the health check endpoint
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ConvertTicket accepts a multipart PDF upload and responds with either the
// extracted record as JSON (format=json) or an ICS file download (default).
func (h *Handler) ConvertTicket(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "File too large",
				fmt.Sprintf("Maximum file size is %dMB", h.config.Server.MaxUploadMB))
			return
		}
		h.writeError(w, http.StatusBadRequest, "No file provided", "Please upload a PDF file")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.writeError(w, http.StatusBadRequest, "No file selected", "Please select a file to upload")
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		h.writeError(w, http.StatusBadRequest, "Invalid file type", "Only PDF files are allowed")
		return
	}

	format := strings.ToLower(r.FormValue("format"))
	if format == "" {
		format = "ics"
	}

	tempPath, err := h.saveUpload(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "File too large",
				fmt.Sprintf("Maximum file size is %dMB", h.config.Server.MaxUploadMB))
			return
		}
		h.logger.Error("failed to save upload", logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Internal server error",
			"An unexpected error occurred. Please try again.")
		return
	}
	defer os.Remove(tempPath)

	rec, err := h.service.ExtractFromPDF(tempPath)
	if err != nil {
		var parseErr *ticket.ParseError
		if errors.As(err, &parseErr) {
			h.writeError(w, http.StatusUnprocessableEntity, "Parsing error",
				fmt.Sprintf("Failed to parse ticket PDF: %v", parseErr))
			return
		}
		h.logger.Error("unexpected extraction error", logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Internal server error",
			"An unexpected error occurred. Please try again.")
		return
	}

	if !rec.IsComplete() {
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":          "Incomplete ticket information",
			"message":        "Could not extract all required information from the PDF",
			"extracted_data": rec.ToMap(),
		})
		return
	}

	if format == "json" {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    rec.ToMap(),
			"formatted": map[string]interface{}{
				"from":      rec.FromStation,
				"to":        rec.ToStation,
				"departure": rec.FormattedDeparture(),
				"arrival":   rec.FormattedArrival(),
				"train":     formattedTrain(rec),
			},
		})
		return
	}

	data, filename, err := h.service.ComposeICS(rec, header.Filename)
	if err != nil {
		var genErr *calendar.GenerationError
		if errors.As(err, &genErr) {
			h.writeError(w, http.StatusInternalServerError, "Calendar generation error",
				fmt.Sprintf("Failed to generate calendar: %v", genErr))
			return
		}
		h.logger.Error("failed to compose calendar", logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Internal server error",
			"An unexpected error occurred. Please try again.")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetRecentConversions returns the latest conversion history entries
func (h *Handler) GetRecentConversions(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.writeError(w, http.StatusBadRequest, "Invalid limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.service.RecentConversions(limit)
	if err != nil {
		h.logger.Error("failed to load conversion history", logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Internal server error",
			"Failed to load conversion history")
		return
	}
	if records == nil {
		// Storage disabled or empty; respond with an empty list, not null.
		records = []*sqlite.ConversionRecord{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(records),
		"conversions": records,
	})
}

// saveUpload copies the uploaded file to a temporary path for the PDF reader,
// which needs a seekable file on disk.
func (h *Handler) saveUpload(file io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "billet2ics-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return tmp.Name(), nil
}

func formattedTrain(rec *ticket.JourneyRecord) interface{} {
	if rec.TrainType == "" || rec.TrainNumber == "" {
		return nil
	}
	return fmt.Sprintf("%s %s", rec.TrainType, rec.TrainNumber)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", logger.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, errLabel, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error":   errLabel,
		"message": message,
	})
}
