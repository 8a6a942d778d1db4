package receipt_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresgp/comcrm/internal/receipt"
)

func TestService_Upload(t *testing.T) {
	var gotAuth, gotFilename string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/files", r.URL.Path)

		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		gotFilename = header.Filename

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"ref": "receipts/abc123.pdf"})
	}))
	defer server.Close()

	svc := receipt.NewService(server.URL, "secret-token")

	ref, err := svc.Upload(context.Background(), "recibo pago #42.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "receipts/abc123.pdf", ref)
	assert.Equal(t, "Token secret-token", gotAuth)
	assert.Equal(t, "recibo_pago__42.pdf", gotFilename)
}

func TestService_Upload_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := receipt.NewService(server.URL, "")

	_, err := svc.Upload(context.Background(), "recibo.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}

func TestService_Upload_MissingRef(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	svc := receipt.NewService(server.URL, "")

	_, err := svc.Upload(context.Background(), "recibo.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}
