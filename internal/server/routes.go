package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dansutton/folio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Investments and portfolio analytics
	mux.HandleFunc("/api/investments/", s.routeInvestments)
	mux.HandleFunc("/api/investments", s.handleInvestments)
}

// routeInvestments dispatches /api/investments/{id}/* to the appropriate handler.
func (s *Server) routeInvestments(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/investments/")
	if path == "" {
		s.handleInvestments(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	holdingID := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	// "portfolio" is a reserved segment, never a holding ID.
	if holdingID == "portfolio" {
		s.routePortfolio(w, r, subpath)
		return
	}

	switch subpath {
	case "":
		s.handleInvestmentByID(w, r, holdingID)
	case "transactions":
		s.handleTransactions(w, r, holdingID)
	case "returns":
		s.handleInvestmentReturns(w, r, holdingID)
	default:
		if strings.HasPrefix(subpath, "transactions/") {
			txID := strings.TrimPrefix(subpath, "transactions/")
			s.handleTransactionByID(w, r, holdingID, txID)
			return
		}
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routePortfolio dispatches /api/investments/portfolio/* aggregate endpoints.
func (s *Server) routePortfolio(w http.ResponseWriter, r *http.Request, subpath string) {
	switch subpath {
	case "summary":
		s.handlePortfolioSummary(w, r)
	case "allocation":
		s.handlePortfolioAllocation(w, r)
	case "performance":
		s.handlePortfolioPerformance(w, r)
	case "performance/chart":
		s.handlePortfolioPerformanceChart(w, r)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
