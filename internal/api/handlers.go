package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/Raghucharan16/Market-Alerts/internal/database"
	"github.com/Raghucharan16/Market-Alerts/internal/models"
	"github.com/Raghucharan16/Market-Alerts/internal/quote"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db       *database.DB
	resolver quote.SymbolResolver
}

// NewHandler creates a new Handler
func NewHandler(db *database.DB, resolver quote.SymbolResolver) *Handler {
	return &Handler{
		db:       db,
		resolver: resolver,
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetStocks handles GET /api/v1/stocks
func (h *Handler) GetStocks(w http.ResponseWriter, r *http.Request) {
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		id, err := strconv.Atoi(userID)
		if err != nil {
			http.Error(w, "invalid user_id", http.StatusBadRequest)
			return
		}
		stocks, err := h.db.GetStocksByUser(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, stocks)
		return
	}

	stocks, err := h.db.GetActiveStocks()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, stocks)
}

// AddStock handles POST /api/v1/stocks
func (h *Handler) AddStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          int    `json:"user_id"`
		Symbol          string `json:"symbol"`
		BuyPrice        string `json:"atp_price"`
		ProfitThreshold string `json:"profit_threshold"`
		LossThreshold   string `json:"loss_threshold"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	buyPrice, err := decimal.NewFromString(req.BuyPrice)
	if err != nil || !buyPrice.IsPositive() {
		http.Error(w, "atp_price must be a positive number", http.StatusBadRequest)
		return
	}
	profit, err := decimal.NewFromString(req.ProfitThreshold)
	if err != nil || !profit.IsPositive() {
		http.Error(w, "profit_threshold must be a positive number", http.StatusBadRequest)
		return
	}
	loss, err := decimal.NewFromString(req.LossThreshold)
	if err != nil || !loss.IsPositive() {
		http.Error(w, "loss_threshold must be a positive number", http.StatusBadRequest)
		return
	}

	stock := &models.StockWatch{
		UserID:          req.UserID,
		Symbol:          req.Symbol,
		BuyPrice:        buyPrice,
		ProfitThreshold: profit,
		LossThreshold:   loss,
		IsActive:        true,
	}
	if err := h.db.CreateStock(stock); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, stock)
}

// RemoveStock handles DELETE /api/v1/stocks/{id}
func (h *Handler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid stock id", http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteStock(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleStock handles POST /api/v1/stocks/{id}/toggle
func (h *Handler) ToggleStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid stock id", http.StatusBadRequest)
		return
	}

	stock, err := h.db.GetStockByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err := h.db.SetStockActive(id, !stock.IsActive); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	stock.IsActive = !stock.IsActive
	respondJSON(w, http.StatusOK, stock)
}

// GetAlerts handles GET /api/v1/alerts
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	alerts, err := h.db.GetRecentAlerts(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

// AcknowledgeAlert handles POST /api/v1/alerts/{token}/acknowledge
func (h *Handler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	if err := h.db.AcknowledgeAlert(token); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	alert, err := h.db.GetAlertByToken(token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, alert)
}

// SearchSymbol handles GET /api/v1/search?q= — a thin proxy to the symbol
// resolver so the dashboard never talks to the upstream search API directly
func (h *Handler) SearchSymbol(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}

	symbol, err := h.resolver.Search(r.Context(), query)
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"symbol": nil})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"symbol": symbol})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
