package sale

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresgp/comcrm/internal/commission"
	"github.com/andresgp/comcrm/internal/currency"
	"github.com/andresgp/comcrm/internal/sale"
)

type Handler struct {
	svc      *sale.Service
	validate *validator.Validate
}

func NewHandler(svc *sale.Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

type splitDTO struct {
	Participant string          `json:"participant" validate:"required"`
	Percent     decimal.Decimal `json:"percent" validate:"required"`
}

type createSaleRequest struct {
	Property string          `json:"property" validate:"required"`
	Client   string          `json:"client" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"required"`
	Currency currency.Code   `json:"currency" validate:"required,oneof=USD DOP EUR MXN"`
	SaleDate string          `json:"sale_date" validate:"required"`
	Splits   []splitDTO      `json:"splits" validate:"required,min=1,dive"`
}

type saleResponse struct {
	ID           uuid.UUID       `json:"id"`
	Property     string          `json:"property"`
	Client       string          `json:"client"`
	Price        decimal.Decimal `json:"price"`
	Currency     currency.Code   `json:"currency"`
	PriceDisplay string          `json:"price_display"`
	SaleDate     string          `json:"sale_date"`
	CreatedAt    time.Time       `json:"created_at"`
}

type createSaleResponse struct {
	Sale        saleResponse `json:"sale"`
	Commissions []uuid.UUID  `json:"commission_ids"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	saleDate, err := commission.ParsePaymentDate(req.SaleDate)
	if err != nil {
		http.Error(w, "invalid sale_date", http.StatusUnprocessableEntity)
		return
	}

	splits := make([]sale.SplitParams, len(req.Splits))
	for i, s := range req.Splits {
		splits[i] = sale.SplitParams{
			Participant: s.Participant,
			Percent:     s.Percent,
		}
	}

	sl, commissions, err := h.svc.Create(r.Context(), sale.CreateParams{
		Property: req.Property,
		Client:   req.Client,
		Price:    req.Price,
		Currency: req.Currency,
		SaleDate: saleDate,
		Splits:   splits,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ids := make([]uuid.UUID, len(commissions))
	for i, c := range commissions {
		ids[i] = c.ID
	}

	writeJSON(w, http.StatusCreated, createSaleResponse{
		Sale:        toResponse(sl),
		Commissions: ids,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := sale.ListFilter{}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	sales, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]saleResponse, len(sales))
	for i, sl := range sales {
		resp[i] = toResponse(sl)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	sl, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			http.Error(w, "sale not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(sl))
}

func toResponse(sl *sale.Sale) saleResponse {
	return saleResponse{
		ID:           sl.ID,
		Property:     sl.Property,
		Client:       sl.Client,
		Price:        sl.Price,
		Currency:     sl.Currency,
		PriceDisplay: currency.Format(sl.Price, sl.Currency),
		SaleDate:     sl.SaleDate.Format(time.DateOnly),
		CreatedAt:    sl.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
