package commission_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/andresgp/comcrm/internal/commission"
	"github.com/andresgp/comcrm/internal/currency"
	commissionHandler "github.com/andresgp/comcrm/internal/http/commission"
)

type stubUploader struct {
	ref      string
	err      error
	called   bool
	filename string
}

func (u *stubUploader) Upload(_ context.Context, filename string, _ io.Reader) (string, error) {
	u.called = true
	u.filename = filename

	return u.ref, u.err
}

func storedCommission(total string) commission.Commission {
	return commission.Commission{
		ID:          uuid.New(),
		SaleID:      uuid.New(),
		Participant: "Ana Liriano",
		TotalAmount: decimal.RequireFromString(total),
		PaidAmount:  decimal.Zero,
		Currency:    currency.DOP,
		Status:      commission.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

// paymentForm builds the multipart body applyPayment expects, with an
// attached receipt file.
func paymentForm(t *testing.T, amount, date string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	require.NoError(t, form.WriteField("amount", amount))
	require.NoError(t, form.WriteField("type", "partial"))
	require.NoError(t, form.WriteField("date", date))
	require.NoError(t, form.WriteField("note", "transferencia"))

	part, err := form.CreateFormFile("receipt", "recibo.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 stub"))
	require.NoError(t, err)

	require.NoError(t, form.Close())

	return body, form.FormDataContentType()
}

func newPaymentServer(t *testing.T, repo commission.Repository, receipts *stubUploader) *httptest.Server {
	t.Helper()

	h := commissionHandler.NewHandler(commission.NewService(repo), receipts)

	r := chi.NewRouter()
	r.Route("/commissions", h.Routes)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server
}

func postPayment(t *testing.T, server *httptest.Server, id uuid.UUID, body *bytes.Buffer, contentType string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, server.URL+"/commissions/"+id.String()+"/payments", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestHandler_ApplyPayment_ReceiptUploadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := commission.NewMockRepository(ctrl)
	ptx := commission.NewMockPaymentTx(ctrl)

	stored := storedCommission("1000.00")

	var recorded commission.PaymentEvent

	repo.EXPECT().BeginPayment(gomock.Any(), stored.ID).Return(ptx, nil)
	ptx.EXPECT().Commission(gomock.Any()).Return(&stored, nil)
	ptx.EXPECT().
		AppendEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *commission.PaymentEvent) error {
			event.ID = uuid.New()
			recorded = *event
			return nil
		})
	ptx.EXPECT().SetPaid(gomock.Any(), gomock.Any(), commission.StatusPartial).Return(nil)
	ptx.EXPECT().Commit().Return(nil)
	ptx.EXPECT().Rollback().Return(nil)

	receipts := &stubUploader{err: errors.New("storage unavailable")}
	server := newPaymentServer(t, repo, receipts)

	body, contentType := paymentForm(t, "250.00", time.Now().UTC().Format(time.DateOnly))
	resp := postPayment(t, server, stored.ID, body, contentType)

	// The payment goes through without a reference and the response warns.
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got struct {
		Commission struct {
			PaidAmount  decimal.Decimal `json:"paid_amount"`
			Outstanding decimal.Decimal `json:"outstanding"`
		} `json:"commission"`
		Warning string `json:"warning"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, commission.ErrUploadFailed.Error(), got.Warning)
	assert.True(t, got.Commission.PaidAmount.Equal(decimal.RequireFromString("250.00")))
	assert.True(t, got.Commission.Outstanding.Equal(decimal.RequireFromString("750.00")))

	assert.True(t, receipts.called)
	assert.Equal(t, "recibo.pdf", receipts.filename)
	assert.Empty(t, recorded.ReceiptRef)
}

func TestHandler_ApplyPayment_ReceiptUploaded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := commission.NewMockRepository(ctrl)
	ptx := commission.NewMockPaymentTx(ctrl)

	stored := storedCommission("1000.00")

	var recorded commission.PaymentEvent

	repo.EXPECT().BeginPayment(gomock.Any(), stored.ID).Return(ptx, nil)
	ptx.EXPECT().Commission(gomock.Any()).Return(&stored, nil)
	ptx.EXPECT().
		AppendEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *commission.PaymentEvent) error {
			event.ID = uuid.New()
			recorded = *event
			return nil
		})
	ptx.EXPECT().SetPaid(gomock.Any(), gomock.Any(), commission.StatusPartial).Return(nil)
	ptx.EXPECT().Commit().Return(nil)
	ptx.EXPECT().Rollback().Return(nil)

	receipts := &stubUploader{ref: "receipts/abc123.pdf"}
	server := newPaymentServer(t, repo, receipts)

	body, contentType := paymentForm(t, "250.00", time.Now().UTC().Format(time.DateOnly))
	resp := postPayment(t, server, stored.ID, body, contentType)

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got struct {
		Warning string `json:"warning"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Empty(t, got.Warning)
	assert.Equal(t, "receipts/abc123.pdf", recorded.ReceiptRef)
}

func TestHandler_ApplyPayment_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := commission.NewMockRepository(ctrl)
	ptx := commission.NewMockPaymentTx(ctrl)

	stored := storedCommission("100.00")

	repo.EXPECT().BeginPayment(gomock.Any(), stored.ID).Return(ptx, nil)
	ptx.EXPECT().Commission(gomock.Any()).Return(&stored, nil)
	ptx.EXPECT().Rollback().Return(nil)

	receipts := &stubUploader{ref: "receipts/abc123.pdf"}
	server := newPaymentServer(t, repo, receipts)

	body, contentType := paymentForm(t, "150.00", time.Now().UTC().Format(time.DateOnly))
	resp := postPayment(t, server, stored.ID, body, contentType)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var got struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, "amount_exceeds_balance", got.Code)
	assert.Equal(t, commission.ErrAmountExceedsBalance.Error(), got.Error)
}
