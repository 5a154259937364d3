package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dansutton/folio/internal/common"
	"github.com/dansutton/folio/internal/interfaces"
	"github.com/dansutton/folio/internal/services/investment"
)

// resolveUser returns the authenticated user's ID, or writes a 401 and
// returns false when no identity is present.
func resolveUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := common.ResolveUserID(r.Context())
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}

// writeInvestmentError maps service errors to HTTP responses.
func writeInvestmentError(w http.ResponseWriter, err error) {
	var verr *investment.ValidationError
	switch {
	case errors.Is(err, interfaces.ErrHoldingNotFound):
		WriteErrorWithCode(w, http.StatusNotFound, "holding not found", "holding_not_found")
	case errors.Is(err, interfaces.ErrTransactionNotFound):
		WriteErrorWithCode(w, http.StatusNotFound, "transaction not found", "transaction_not_found")
	case errors.Is(err, investment.ErrInsufficientShares):
		WriteErrorWithCode(w, http.StatusBadRequest, "cannot sell more shares than held", "insufficient_shares")
	case errors.As(err, &verr):
		WriteErrorWithCode(w, http.StatusBadRequest, verr.Error(), "validation_error")
	case errors.Is(err, investment.ErrDeleteFailed):
		WriteErrorWithCode(w, http.StatusInternalServerError, "failed to delete transaction", "delete_failed")
	default:
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// handleInvestments handles /api/investments (GET list, POST create).
func (s *Server) handleInvestments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleInvestmentList(w, r)
	case http.MethodPost:
		s.handleInvestmentCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleInvestmentList(w http.ResponseWriter, r *http.Request) {
	userID, ok := resolveUser(w, r)
	if !ok {
		return
	}

	q := interfaces.HoldingQuery{
		AssetClass: r.URL.Query().Get("asset_class"),
		Type:       r.URL.Query().Get("type"),
		SortBy:     r.URL.Query().Get("sort"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Offset = n
		}
	}

	views, err := s.app.InvestmentService.ListHoldings(r.Context(), userID, q)
	if err != nil {
		writeInvestmentError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   views,
	})
}

func (s *Server) handleInvestmentCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := resolveUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Name          string  `json:"name"`
		Ticker        string  `json:"ticker"`
		AssetClass    string  `json:"asset_class"`
		Type          string  `json:"type"`
		Shares        float64 `json:"shares"`
		PurchasePrice float64 `json:"purchase_price"`
		CurrentPrice  float64 `json:"current_price"`
		PurchaseDate  string  `json:"purchase_date"`
		AccountID     string  `json:"account_id"`
		Currency      string  `json:"currency"`
		Sector        string  `json:"sector"`
		Region        string  `json:"region"`
		Notes         string  `json:"notes"`
		DividendYield float64 `json:"dividend_yield"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, "invalid purchase_date", "validation_error")
		return
	}

	view, err := s.app.InvestmentService.CreateHolding(r.Context(), userID, interfaces.CreateHoldingRequest{
		Name:          req.Name,
		Ticker:        req.Ticker,
		AssetClass:    req.AssetClass,
		Type:          req.Type,
		Shares:        req.Shares,
		PurchasePrice: req.PurchasePrice,
		CurrentPrice:  req.CurrentPrice,
		PurchaseDate:  purchaseDate,
		AccountID:     req.AccountID,
		Currency:      req.Currency,
		Sector:        req.Sector,
		Region:        req.Region,
		Notes:         req.Notes,
		DividendYield: req.DividendYield,
	})
	if err != nil {
		writeInvestmentError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "ok",
		"data":   view,
	})
}

// handleInvestmentByID handles /api/investments/{id} (GET, PUT, DELETE).
func (s *Server) handleInvestmentByID(w http.ResponseWriter, r *http.Request, holdingID string) {
	userID, ok := resolveUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		view, err := s.app.InvestmentService.GetHolding(r.Context(), userID, holdingID)
		if err != nil {
			writeInvestmentError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"data":   view,
		})

	case http.MethodPut:
		var req struct {
			Name          *string  `json:"name"`
			Ticker        *string  `json:"ticker"`
			AssetClass    *string  `json:"asset_class"`
			Type          *string  `json:"type"`
			CurrentPrice  *float64 `json:"current_price"`
			Currency      *string  `json:"currency"`
			Sector        *string  `json:"sector"`
			Region        *string  `json:"region"`
			Notes         *string  `json:"notes"`
			DividendYield *float64 `json:"dividend_yield"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}

		view, err := s.app.InvestmentService.UpdateHolding(r.Context(), userID, holdingID, interfaces.UpdateHoldingRequest{
			Name:          req.Name,
			Ticker:        req.Ticker,
			AssetClass:    req.AssetClass,
			Type:          req.Type,
			CurrentPrice:  req.CurrentPrice,
			Currency:      req.Currency,
			Sector:        req.Sector,
			Region:        req.Region,
			Notes:         req.Notes,
			DividendYield: req.DividendYield,
		})
		if err != nil {
			writeInvestmentError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"data":   view,
		})

	case http.MethodDelete:
		if err := s.app.InvestmentService.DeleteHolding(r.Context(), userID, holdingID); err != nil {
			writeInvestmentError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
		})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleTransactions handles /api/investments/{id}/transactions (GET, POST).
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request, holdingID string) {
	userID, ok := resolveUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		txs, err := s.app.InvestmentService.ListTransactions(r.Context(), userID, holdingID)
		if err != nil {
			writeInvestmentError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"data":   txs,
		})

	case http.MethodPost:
		var req struct {
			Type   string   `json:"type"`
			Shares *float64 `json:"shares"`
			Price  *float64 `json:"price"`
			Amount *float64 `json:"amount"`
			Date   string   `json:"date"`
			Notes  string   `json:"notes"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}

		date, err := parseDate(req.Date)
		if err != nil {
			WriteErrorWithCode(w, http.StatusBadRequest, "invalid date", "validation_error")
			return
		}

		tx, err := s.app.InvestmentService.RecordTransaction(r.Context(), userID, holdingID, interfaces.RecordTransactionRequest{
			Type:   req.Type,
			Shares: req.Shares,
			Price:  req.Price,
			Amount: req.Amount,
			Date:   date,
			Notes:  req.Notes,
		})
		if err != nil {
			writeInvestmentError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"status": "ok",
			"data":   tx,
		})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleTransactionByID handles /api/investments/{id}/transactions/{txId} (DELETE).
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request, holdingID, txID string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	userID, ok := resolveUser(w, r)
	if !ok {
		return
	}

	if err := s.app.InvestmentService.DeleteTransaction(r.Context(), userID, holdingID, txID); err != nil {
		writeInvestmentError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

// handleInvestmentReturns handles GET /api/investments/{id}/returns.
func (s *Server) handleInvestmentReturns(w http.ResponseWriter, r *http.Request, holdingID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID, ok := resolveUser(w, r)
	if !ok {
		return
	}

	returns, err := s.app.InvestmentService.GetReturns(r.Context(), userID, holdingID)
	if err != nil {
		writeInvestmentError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   returns,
	})
}
