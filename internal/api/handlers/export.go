package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
)

// ExportHandler handles HTTP requests for file exports.
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler with the provided service dependency.
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Transactions handles GET requests to download every transaction of the caller as CSV.
// The file is UTF-8 with a byte order mark so spreadsheet tools detect the encoding.
//
// Endpoint: GET /api/export/transaction
// Response: 200 OK with text/csv attachment named 股票交易记录_YYYY-MM-DD.csv
// Error: 500 Internal Server Error if the transactions cannot be read
func (h *ExportHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	count, err := h.exportService.Export(r.Context(), currentUser(r).ID, &buf)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToExport)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", service.ContentDisposition(h.exportService.Filename(time.Now())))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Error("failed to write export", "error", err)
		return
	}

	logging.FromContext(r.Context()).Info("exported transactions", "rows", count)
}
