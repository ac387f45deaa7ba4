/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    These functions decode the incoming request, resolve item keys once at
    the boundary, call the game.Engine and return JSON responses.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Does the item exist?)
    - Translating game errors into HTTP status codes
    - Thread safety is the Engine's job; handlers hold no locks
*/

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/everforgeworks/wave-idle/internal/game"
	"github.com/gorilla/mux"
)

// Request DTOs

type PurchaseRequest struct {
	Item string `json:"item"` // Composite key, e.g. "trigger-0", "1-2-3", "reset-1"
}

type CreditRequest struct {
	Amount float64 `json:"amount"`
}

// IncomeResponse is the computed income vector plus its total.
type IncomeResponse struct {
	Generators []float64 `json:"generators"`
	Total      float64   `json:"total"`
	Average    float64   `json:"average"` // Rolling 5s average from the statistics
}

type SecretResponse struct {
	Clicks int `json:"clicks"`
}

type CreditResponse struct {
	Credited float64 `json:"credited"`
}

// Handlers binds the REST endpoints to one engine.
type Handlers struct {
	Engine *game.Engine
}

// NewRouter wires every endpoint, including the websocket, onto a gorilla/mux router.
func NewRouter(engine *game.Engine, hub *Hub) *mux.Router {
	h := &Handlers{Engine: engine}
	r := mux.NewRouter()

	// Information Endpoints
	r.HandleFunc("/api/state", h.HandleGetState).Methods(http.MethodGet)
	r.HandleFunc("/api/income", h.HandleGetIncome).Methods(http.MethodGet)
	r.HandleFunc("/api/news", h.HandleGetNews).Methods(http.MethodGet)

	// Action Endpoints
	r.HandleFunc("/api/purchase", h.HandlePurchase).Methods(http.MethodPost)
	r.HandleFunc("/api/generators/{index:[0-9]+}/buy", h.HandleBuyGenerator).Methods(http.MethodPost)
	r.HandleFunc("/api/reset/{tier:[0-9]+}", h.HandleReset).Methods(http.MethodPost)
	r.HandleFunc("/api/secondary", h.HandleCreditSecondary).Methods(http.MethodPost)
	r.HandleFunc("/api/secret", h.HandleSecretClick).Methods(http.MethodPost)

	// Real-Time WebSocket Endpoint
	if hub != nil {
		r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(hub, w, r)
		})
	}
	return r
}

// HandleGetState returns the full read-only snapshot.
func (h *Handlers) HandleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.Snapshot())
}

// HandleGetIncome returns the per-generator income vector.
func (h *Handlers) HandleGetIncome(w http.ResponseWriter, r *http.Request) {
	vec := h.Engine.IncomeVector()
	total := 0.0
	for _, v := range vec {
		total += v
	}
	writeJSON(w, http.StatusOK, IncomeResponse{
		Generators: vec,
		Total:      total,
		Average:    h.Engine.State().Stats.IncomePerSecond,
	})
}

// HandleGetNews returns the latest notifications. ?limit=N caps the count.
func (h *Handlers) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.Engine.News().Recent(limit))
}

// HandlePurchase buys any item addressed by its composite key.
func (h *Handlers) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ref, err := game.ParseItemRef(req.Item)
	if err != nil {
		log.Printf("API: %v", err)
		writeError(w, err)
		return
	}
	h.purchase(w, ref)
}

// HandleBuyGenerator is the shortcut for one generator unit.
func (h *Handlers) HandleBuyGenerator(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])
	h.purchase(w, game.GeneratorRef(index))
}

func (h *Handlers) purchase(w http.ResponseWriter, ref game.ItemRef) {
	receipt, err := h.Engine.Purchase(ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// HandleReset performs a prestige reset of the tier in the path.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	tier, _ := strconv.Atoi(mux.Vars(r)["tier"])
	if tier < 1 || tier > game.ResetTiers {
		http.Error(w, "Unknown reset tier", http.StatusNotFound)
		return
	}
	report, err := h.Engine.PerformReset(tier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleCreditSecondary is the entry point of the external secondary-resource mechanism.
func (h *Handlers) HandleCreditSecondary(w http.ResponseWriter, r *http.Request) {
	var req CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	credited, err := h.Engine.CreditSecondary(req.Amount)
	if err != nil {
		if !errors.Is(err, game.ErrNonFiniteComputation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CreditResponse{Credited: credited})
}

// HandleSecretClick counts a click towards the hidden achievement.
func (h *Handlers) HandleSecretClick(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SecretResponse{Clicks: h.Engine.RecordSecretClick()})
}

// statusFor maps the game error taxonomy onto HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrAlreadyPurchased):
		return http.StatusConflict
	case errors.Is(err, game.ErrInsufficientResource):
		return http.StatusPaymentRequired
	case errors.Is(err, game.ErrInvalidItem):
		return http.StatusNotFound
	default:
		// ErrResetFailed, ErrNonFiniteComputation and anything unexpected.
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("API: encode response: %v", err)
	}
}
