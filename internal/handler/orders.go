package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
	"github.com/sweetnothings-bakery/super-receptionist/internal/service"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
)

// OrderHandler handles order bookkeeping endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *logger.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(svc *service.OrderService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/v1/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create order", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int64(0)
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.ParseInt(l, 10, 64); err == nil {
			limit = parsed
		}
	}

	orders, err := h.service.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// Get handles GET /api/v1/orders/{orderID}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Details handles GET /api/v1/orders/{orderID}/details
func (h *OrderHandler) Details(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	details, err := h.service.Details(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to get order details", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if details == nil {
		details = []model.OrderDetail{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"details": details})
}

// Summaries handles GET /api/v1/orders/summaries?start=...&end=...
func (h *OrderHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateParam(r, "start", time.Now().UTC().AddDate(0, 0, -30))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date")
		return
	}
	end, err := parseDateParam(r, "end", time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date")
		return
	}

	summaries, err := h.service.Summaries(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if summaries == nil {
		summaries = []model.OrderSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"summaries": summaries})
}

func parseDateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", value)
}
