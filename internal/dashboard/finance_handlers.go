package dashboard

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zombor/finance-dashboard/internal/advice"
	"github.com/zombor/finance-dashboard/internal/finance"
)

// handleListTransactions returns every transaction, newest first
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.List())
}

// handleAddTransaction records a new transaction
func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req finance.NewTransaction
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := s.ledger.Add(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Info("Transaction added", "id", tx.ID, "type", tx.Kind, "category", tx.Category, "amount", tx.Amount.String())
	writeJSON(w, http.StatusCreated, tx)
}

// handleDeleteTransaction removes a transaction
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.Remove(id); err != nil {
		if errors.Is(err, finance.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		slog.Error("Error removing transaction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCategories returns the categories a transaction can be filed under
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, finance.Categories)
}

// handleSummary returns balance, income and expenses
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, finance.Summarize(s.ledger.List()))
}

// handleMonthlySpending returns expenses per month
func (s *Server) handleMonthlySpending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, finance.MonthlySpending(s.ledger.List()))
}

// handleCategorySpending returns expenses per category
func (s *Server) handleCategorySpending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, finance.CategorySpending(s.ledger.List()))
}

// handleCompareBudgets compares spending with the submitted budgets
func (s *Server) handleCompareBudgets(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Budgets []finance.Budget `json:"budgets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, finance.CompareBudgets(s.ledger.List(), req.Budgets))
}

// handleRecommendations returns the rule-based budget advice
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	txs := s.ledger.List()
	writeJSON(w, http.StatusOK, finance.Recommend(txs, finance.Summarize(txs).Income))
}

// requireAdvisor reports 503 when no advisor is configured
func (s *Server) requireAdvisor(w http.ResponseWriter) bool {
	if s.advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "AI advisor is not configured. Set a Gemini API key or choose the ollama advisor.")
		return false
	}
	return true
}

// handleInsight asks the advisor for an insight on recent transactions
func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdvisor(w) {
		return
	}
	txs := s.ledger.List()
	if len(txs) == 0 {
		writeError(w, http.StatusBadRequest, "Add a transaction first.")
		return
	}

	insight, err := s.advisor.Insight(r.Context(), advice.NewSnapshot(txs))
	if err != nil {
		slog.Error("Error getting AI insight", "error", err)
		writeError(w, http.StatusBadGateway, "Unable to generate insights. Please check your API key and try again.")
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

// handlePlan asks the advisor for a budget plan
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdvisor(w) {
		return
	}

	plan, err := s.advisor.Plan(r.Context(), advice.NewSnapshot(s.ledger.List()))
	if err != nil {
		slog.Error("Error generating budget plan", "error", err)
		writeError(w, http.StatusBadGateway, "Unable to generate a budget plan. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// handleChat answers an assistant question. Model failures come back as an
// apologetic reply rather than an HTTP error.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdvisor(w) {
		return
	}

	var req struct {
		History []advice.Message `json:"history"`
		Message string           `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "A message is required")
		return
	}

	reply, err := s.advisor.Chat(r.Context(), advice.NewSnapshot(s.ledger.List()), req.History, req.Message)
	if err != nil {
		slog.Error("Error calling advisor", "error", err)
		reply = advice.ErrorReply(err)
	}
	writeJSON(w, http.StatusOK, advice.Message{Role: advice.RoleAssistant, Content: reply})
}
