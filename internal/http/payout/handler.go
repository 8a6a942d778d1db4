package payout

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresgp/comcrm/internal/payout"
)

type Handler struct {
	svc *payout.Service
}

func NewHandler(svc *payout.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/import", h.importStatement)
}

type appliedDTO struct {
	CommissionID uuid.UUID       `json:"commission_id"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Status       string          `json:"status"`
}

type failedDTO struct {
	CommissionID uuid.UUID       `json:"commission_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Error        string          `json:"error"`
}

type importResponse struct {
	Applied []appliedDTO `json:"applied"`
	Failed  []failedDTO  `json:"failed"`
}

func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing statement file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.svc.ImportStatement(r.Context(), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := importResponse{
		Applied: make([]appliedDTO, len(result.Applied)),
		Failed:  make([]failedDTO, len(result.Failed)),
	}

	for i, c := range result.Applied {
		resp.Applied[i] = appliedDTO{
			CommissionID: c.ID,
			PaidAmount:   c.PaidAmount,
			Status:       string(c.Status),
		}
	}

	for i, f := range result.Failed {
		resp.Failed[i] = failedDTO{
			CommissionID: f.Row.CommissionID,
			Amount:       f.Row.Amount,
			Date:         f.Row.Date.Format(time.DateOnly),
			Error:        f.Err.Error(),
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
