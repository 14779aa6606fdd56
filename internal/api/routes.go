package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Dashboard routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/stocks", handler.GetStocks).Methods("GET")
	api.HandleFunc("/stocks", handler.AddStock).Methods("POST")
	api.HandleFunc("/stocks/{id}", handler.RemoveStock).Methods("DELETE")
	api.HandleFunc("/stocks/{id}/toggle", handler.ToggleStock).Methods("POST")
	api.HandleFunc("/alerts", handler.GetAlerts).Methods("GET")
	api.HandleFunc("/alerts/{token}/acknowledge", handler.AcknowledgeAlert).Methods("POST")
	api.HandleFunc("/search", handler.SearchSymbol).Methods("GET")

	return r
}
