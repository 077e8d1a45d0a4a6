// Package rest публикует операции точки продаж как JSON HTTP API.
package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
	"github.com/jcoffer921/jay-donuts-od/internal/service/pos"
)

// Handler отображает HTTP-запросы на прикладной сервис.
type Handler struct {
	svc    *pos.Service
	logger *log.Entry
}

// NewHandler конструирует обработчик API.
func NewHandler(svc *pos.Service, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "rest")
	}
	return &Handler{svc: svc, logger: logger}
}

// Register привязывает маршруты API к мультиплексору.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.placeOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/{code}", h.getOrder)
	mux.HandleFunc("DELETE /api/orders/{code}", h.cancelOrder)
	mux.HandleFunc("GET /api/orders/{code}/receipt", h.receipt)

	mux.HandleFunc("GET /api/menu", h.listMenu)
	mux.HandleFunc("POST /api/menu", h.addMenuItem)
	mux.HandleFunc("PUT /api/menu/{id}", h.updateMenuItem)
	mux.HandleFunc("DELETE /api/menu/{id}", h.removeMenuItem)
}

type selectionPayload struct {
	MenuItemID int64            `json:"menu_item_id"`
	Qty        int32            `json:"qty"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
}

type placeOrderRequest struct {
	Selections []selectionPayload `json:"selections"`
}

type orderLinePayload struct {
	MenuItemID int64           `json:"menu_item_id"`
	Name       string          `json:"name"`
	Qty        int32           `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type orderPayload struct {
	ID              int64              `json:"id"`
	TransactionCode string             `json:"transaction_code"`
	PlacedAt        string             `json:"placed_at"`
	Total           decimal.Decimal    `json:"total"`
	Lines           []orderLinePayload `json:"lines,omitempty"`
}

type menuItemPayload struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Active   bool            `json:"active"`
}

type errorPayload struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	selections := make([]pos.Selection, 0, len(req.Selections))
	for _, sel := range req.Selections {
		selections = append(selections, pos.Selection{
			MenuItemID: sel.MenuItemID,
			Qty:        sel.Qty,
			UnitPrice:  sel.UnitPrice,
		})
	}

	order, err := h.svc.PlaceOrder(r.Context(), selections)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toOrderPayload(order, true))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	payload := make([]orderPayload, 0, len(orders))
	for _, order := range orders {
		payload = append(payload, toOrderPayload(order, false))
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.GetOrder(r.Context(), r.PathValue("code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderPayload(order, true))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelOrder(r.Context(), r.PathValue("code")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.Receipt(r.Context(), r.PathValue("code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Menu(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	payload := make([]menuItemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, toMenuItemPayload(item))
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) addMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemPayload
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.svc.AddMenuItem(r.Context(), domain.MenuItem{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Active:   req.Active,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toMenuItemPayload(item))
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorStatus(w, r, http.StatusBadRequest, "invalid menu item id")
		return
	}

	var req menuItemPayload
	if !h.decode(w, r, &req) {
		return
	}

	item := domain.MenuItem{
		ID:       id,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Active:   req.Active,
	}
	if err := h.svc.UpdateMenuItem(r.Context(), item); err != nil {
		h.writeError(w, r, err)
		return
	}

	// Ответ собирается из хранилища, а не из тела запроса.
	stored, err := h.svc.MenuItem(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toMenuItemPayload(stored))
}

func (h *Handler) removeMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeErrorStatus(w, r, http.StatusBadRequest, "invalid menu item id")
		return
	}

	if err := h.svc.RemoveMenuItem(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toOrderPayload(order domain.Order, withLines bool) orderPayload {
	payload := orderPayload{
		ID:              order.ID,
		TransactionCode: order.TransactionCode,
		PlacedAt:        order.PlacedAt.Format(time.RFC3339),
		Total:           order.Total(),
	}
	if !withLines {
		return payload
	}

	payload.Lines = make([]orderLinePayload, 0, len(order.Lines))
	for i := range order.Lines {
		line := &order.Lines[i]
		payload.Lines = append(payload.Lines, orderLinePayload{
			MenuItemID: line.Item.ID,
			Name:       line.Item.Name,
			Qty:        line.Qty,
			UnitPrice:  line.UnitPrice,
			LineTotal:  line.LineTotal(),
		})
	}
	return payload
}

func toMenuItemPayload(item domain.MenuItem) menuItemPayload {
	return menuItemPayload{
		ID:       item.ID,
		Name:     item.Name,
		Category: item.Category,
		Price:    item.Price,
		Active:   item.Active,
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.writeErrorStatus(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Внутренние детали наружу не уходят, полная ошибка — в лог.
		h.logger.WithError(err).WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": RequestIDFromContext(r.Context()),
		}).Error("request failed")
		message = "internal error"
	}
	h.writeErrorStatus(w, r, status, message)
}

func (h *Handler) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, status, errorPayload{
		Error:     message,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Warn("failed to encode response")
	}
}

// statusForError переводит доменные ошибки в HTTP-статусы.
func statusForError(err error) int {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsDuplicateTransactionCode(err), errors.Is(err, domain.ErrMenuItemInUse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyBasket),
		errors.Is(err, domain.ErrTransactionCodeRequired),
		errors.Is(err, domain.ErrMenuItemReference),
		errors.Is(err, domain.ErrLineItemRequired),
		errors.Is(err, domain.ErrLineQtyInvalid),
		errors.Is(err, domain.ErrLinePriceInvalid),
		errors.Is(err, domain.ErrMenuNameRequired),
		errors.Is(err, domain.ErrMenuCategoryRequired),
		errors.Is(err, domain.ErrMenuPriceInvalid):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
