package commission

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresgp/comcrm/internal/commission"
)

// uploader abstracts the receipt storage client.
type uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
}

type Handler struct {
	svc      *commission.Service
	receipts uploader
}

func NewHandler(svc *commission.Service, receipts uploader) *Handler {
	return &Handler{svc: svc, receipts: receipts}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/payments", h.history)
	r.Post("/{id}/payments", h.applyPayment)
	r.Get("/{id}/suggest", h.suggest)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := commission.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		st := commission.Status(s)
		filter.Status = &st
	}

	if s := r.URL.Query().Get("sale_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid sale_id", http.StatusBadRequest)
			return
		}

		filter.SaleID = &id
	}

	cs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(cs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, commission.ErrNotFound) {
			http.Error(w, "commission not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	order := commission.OrderRecorded
	if r.URL.Query().Get("order") == "date" {
		order = commission.OrderDate
	}

	events, err := h.svc.History(r.Context(), id, order)
	if err != nil {
		if errors.Is(err, commission.ErrNotFound) {
			http.Error(w, "commission not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toPaymentList(events))
}

type applyPaymentResponse struct {
	Commission commissionResponse `json:"commission"`
	Warning    string             `json:"warning,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// applyPayment accepts a multipart form: amount, type, date, note, and an
// optional receipt file. The receipt is uploaded first; if that fails the
// payment still goes through without a reference and the response carries a
// warning.
func (h *Handler) applyPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	amount, err := decimal.NewFromString(r.FormValue("amount"))
	if err != nil {
		writePaymentError(w, commission.ErrInvalidAmount)
		return
	}

	date, err := commission.ParsePaymentDate(r.FormValue("date"))
	if err != nil {
		writePaymentError(w, commission.ErrInvalidDate)
		return
	}

	paymentType := commission.PaymentType(r.FormValue("type"))
	if paymentType != commission.PaymentTotal {
		paymentType = commission.PaymentPartial
	}

	req := commission.PaymentRequest{
		Amount: amount,
		Type:   paymentType,
		Date:   date,
		Note:   r.FormValue("note"),
	}

	var warning string

	if file, header, err := r.FormFile("receipt"); err == nil {
		defer file.Close()

		ref, err := h.receipts.Upload(r.Context(), header.Filename, file)
		if err != nil {
			slog.Warn("receipt upload failed, applying payment without receipt",
				"commission_id", id, "error", err)

			warning = commission.ErrUploadFailed.Error()
		} else {
			req.ReceiptRef = ref
		}
	}

	updated, err := h.svc.ApplyPayment(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, commission.ErrNotFound):
			http.Error(w, "commission not found", http.StatusNotFound)
		case errors.Is(err, commission.ErrInvalidAmount),
			errors.Is(err, commission.ErrInvalidDate),
			errors.Is(err, commission.ErrAmountExceedsBalance):
			writePaymentError(w, err)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusCreated, applyPaymentResponse{
		Commission: toResponse(updated),
		Warning:    warning,
	})
}

type suggestResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	percent, err := strconv.ParseInt(r.URL.Query().Get("percent"), 10, 64)
	if err != nil || percent < 0 || percent > 100 {
		http.Error(w, "percent must be between 0 and 100", http.StatusBadRequest)
		return
	}

	amount, err := h.svc.Suggest(r.Context(), id, percent)
	if err != nil {
		if errors.Is(err, commission.ErrNotFound) {
			http.Error(w, "commission not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{Amount: amount})
}

// paymentErrorCode maps applier errors to stable machine-readable codes.
func paymentErrorCode(err error) string {
	switch {
	case errors.Is(err, commission.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, commission.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, commission.ErrAmountExceedsBalance):
		return "amount_exceeds_balance"
	}

	return "invalid_payment"
}

func writePaymentError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error: err.Error(),
		Code:  paymentErrorCode(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
