package server

import (
	"net/http"

	"github.com/dansutton/folio/internal/interfaces"
)

// parsePerformanceRange reads optional from/to query parameters.
func parsePerformanceRange(w http.ResponseWriter, r *http.Request) (interfaces.PerformanceRange, bool) {
	var pr interfaces.PerformanceRange

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, "invalid from date", "validation_error")
		return pr, false
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, "invalid to date", "validation_error")
		return pr, false
	}

	pr.From = from
	pr.To = to
	return pr, true
}

// handlePortfolioSummary handles GET /api/investments/portfolio/summary.
func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID, ok := resolveUser(w, r)
	if !ok {
		return
	}

	summary, err := s.app.InvestmentService.GetSummary(r.Context(), userID)
	if err != nil {
		writeInvestmentError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   summary,
	})
}

// handlePortfolioAllocation handles GET /api/investments/portfolio/allocation.
func (s *Server) handlePortfolioAllocation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID, ok := resolveUser(w, r)
	if !ok {
		return
	}

	buckets, err := s.app.InvestmentService.GetAllocation(r.Context(), userID)
	if err != nil {
		writeInvestmentError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   buckets,
	})
}

// handlePortfolioPerformance handles GET /api/investments/portfolio/performance.
func (s *Server) handlePortfolioPerformance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID, ok := resolveUser(w, r)
	if !ok {
		return
	}

	pr, ok := parsePerformanceRange(w, r)
	if !ok {
		return
	}

	points, err := s.app.InvestmentService.GetPerformance(r.Context(), userID, pr)
	if err != nil {
		writeInvestmentError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   points,
	})
}

// handlePortfolioPerformanceChart handles GET /api/investments/portfolio/performance/chart.
// Responds with a rendered PNG rather than JSON.
func (s *Server) handlePortfolioPerformanceChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID, ok := resolveUser(w, r)
	if !ok {
		return
	}

	pr, ok := parsePerformanceRange(w, r)
	if !ok {
		return
	}

	png, err := s.app.InvestmentService.RenderPerformanceChart(r.Context(), userID, pr)
	if err != nil {
		writeInvestmentError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
