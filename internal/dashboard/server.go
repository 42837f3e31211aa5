package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/zombor/finance-dashboard/internal/advice"
	"github.com/zombor/finance-dashboard/internal/bill"
	"github.com/zombor/finance-dashboard/internal/finance"
)

// Server handles HTTP requests for the dashboard
type Server struct {
	session *bill.Session
	ledger  *finance.Ledger
	advisor advice.Advisor
	mux     *http.ServeMux
}

// NewServer creates a new Server with default mux. advisor may be nil, in
// which case the advice endpoints report they are unavailable.
func NewServer(session *bill.Session, ledger *finance.Ledger, advisor advice.Advisor) *Server {
	return NewServerWithMux(session, ledger, advisor, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(session *bill.Session, ledger *finance.Ledger, advisor advice.Advisor, mux *http.ServeMux) *Server {
	s := &Server{
		session: session,
		ledger:  ledger,
		advisor: advisor,
		mux:     mux,
	}
	s.registerRoutes()
	return s
}

// corsMiddleware adds CORS headers to responses and answers preflights
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// registerRoutes registers all routes on the server's mux
func (s *Server) registerRoutes() {
	// Bill scanning
	s.mux.HandleFunc("GET /api/scans/current", s.handleScanState)
	s.mux.HandleFunc("POST /api/scans/current/save", s.handleSaveScan)
	s.mux.HandleFunc("POST /api/scans", s.handleUploadScan)

	// Camera
	s.mux.HandleFunc("POST /api/camera/capture", s.handleCapture)
	s.mux.HandleFunc("POST /api/camera", s.handleOpenCamera)
	s.mux.HandleFunc("DELETE /api/camera", s.handleCloseCamera)

	// Transactions
	s.mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	s.mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	s.mux.HandleFunc("POST /api/transactions", s.handleAddTransaction)
	s.mux.HandleFunc("GET /api/categories", s.handleCategories)

	// Summaries
	s.mux.HandleFunc("GET /api/summary/monthly", s.handleMonthlySpending)
	s.mux.HandleFunc("GET /api/summary/categories", s.handleCategorySpending)
	s.mux.HandleFunc("POST /api/summary/budgets", s.handleCompareBudgets)
	s.mux.HandleFunc("GET /api/summary", s.handleSummary)
	s.mux.HandleFunc("GET /api/recommendations", s.handleRecommendations)

	// Advisor
	s.mux.HandleFunc("POST /api/advice/insight", s.handleInsight)
	s.mux.HandleFunc("POST /api/advice/plan", s.handlePlan)
	s.mux.HandleFunc("POST /api/chat", s.handleChat)

	// Static HTML interface (register last as it's the catch-all)
	s.mux.HandleFunc("GET /index.html", s.handleIndex)
	s.mux.HandleFunc("GET /", s.handleIndex)
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, s)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	corsMiddleware(s.mux).ServeHTTP(w, r)
}
