package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresgp/comcrm/internal/commission"
	"github.com/andresgp/comcrm/internal/currency"
)

type commissionResponse struct {
	ID                 uuid.UUID          `json:"id"`
	SaleID             uuid.UUID          `json:"sale_id"`
	Participant        string             `json:"participant"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	PaidAmount         decimal.Decimal    `json:"paid_amount"`
	Outstanding        decimal.Decimal    `json:"outstanding"`
	Currency           currency.Code      `json:"currency"`
	Status             commission.Status  `json:"status"`
	TotalDisplay       string             `json:"total_display"`
	OutstandingDisplay string             `json:"outstanding_display"`
	History            []paymentResponse  `json:"history,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          *time.Time         `json:"updated_at,omitempty"`
}

type paymentResponse struct {
	ID         uuid.UUID              `json:"id"`
	Amount     decimal.Decimal        `json:"amount"`
	Type       commission.PaymentType `json:"type"`
	Date       string                 `json:"date"`
	Note       string                 `json:"note,omitempty"`
	ReceiptRef string                 `json:"receipt_ref,omitempty"`
	RecordedAt time.Time              `json:"recorded_at"`
}

func toResponse(c *commission.Commission) commissionResponse {
	outstanding := commission.Outstanding(c)

	return commissionResponse{
		ID:                 c.ID,
		SaleID:             c.SaleID,
		Participant:        c.Participant,
		TotalAmount:        c.TotalAmount,
		PaidAmount:         c.PaidAmount,
		Outstanding:        outstanding,
		Currency:           c.Currency,
		Status:             c.Status,
		TotalDisplay:       currency.Format(c.TotalAmount, c.Currency),
		OutstandingDisplay: currency.Format(outstanding, c.Currency),
		History:            toPaymentList(c.History),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func toResponseList(cs []*commission.Commission) []commissionResponse {
	resp := make([]commissionResponse, len(cs))
	for i, c := range cs {
		resp[i] = toResponse(c)
	}

	return resp
}

func toPaymentResponse(e commission.PaymentEvent) paymentResponse {
	return paymentResponse{
		ID:         e.ID,
		Amount:     e.Amount,
		Type:       e.Type,
		Date:       e.Date.Format(time.DateOnly),
		Note:       e.Note,
		ReceiptRef: e.ReceiptRef,
		RecordedAt: e.RecordedAt,
	}
}

func toPaymentList(events []commission.PaymentEvent) []paymentResponse {
	resp := make([]paymentResponse, len(events))
	for i, e := range events {
		resp[i] = toPaymentResponse(e)
	}

	return resp
}
