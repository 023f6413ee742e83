package handlers

import (
	"net/http"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/period"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
	"github.com/ndewijer/Trade-Journal-Backend/internal/validation"
)

// AnalysisHandler handles HTTP requests for tag statistics and period reports.
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler with the provided service dependency.
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// Tags handles GET requests for the all-time statistics of every buy and sell reason tag.
//
// Endpoint: GET /api/analysis/tag?sort=tag|count|avgHoldingDays|totalProfit|totalTrades|winTrades|winRate&order=asc|desc
// Response: 200 OK with TagAnalysis, by count descending by default
// Error: 400 Bad Request if the sort column is unknown
// Error: 500 Internal Server Error if the transactions cannot be read
func (h *AnalysisHandler) Tags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	order := service.ParseSortOrder(q.Get("order"), service.Descending)

	analysis, err := h.analysisService.GetTagAnalysis(r.Context(), currentUser(r).ID, q.Get("sort"), order)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToBuildReport)
		return
	}

	response.RespondJSON(w, http.StatusOK, analysis)
}

// Period handles GET requests for the report of the week or month containing date.
// Sells in the window are profited against their lot even when it was bought earlier.
//
// Endpoint: GET /api/analysis/period?period=week|month&date=YYYY-MM-DD
// Response: 200 OK with PeriodReport; period defaults to month and date to today
// Error: 400 Bad Request if period or date is invalid
// Error: 500 Internal Server Error if the report cannot be built
func (h *AnalysisHandler) Period(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p, err := period.Parse(q.Get("period"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPeriod.Error(), err.Error())
		return
	}

	var ref time.Time
	if raw := q.Get("date"); raw != "" {
		if ref, err = validation.ParseDate(raw, h.analysisService.Location()); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid date", err.Error())
			return
		}
	}

	report, err := h.analysisService.GetPeriodReport(r.Context(), currentUser(r).ID, p, ref)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToBuildReport)
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}
