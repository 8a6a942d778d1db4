// Package receipt uploads proof-of-payment files to the external file-storage
// service and hands back the reference that gets attached to a payment event.
package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// Service is a thin client for the file-storage API. Upload failures are the
// caller's business to degrade on; this client just reports them.
type Service struct {
	client   *http.Client
	baseURL  string
	apiToken string
}

func NewService(baseURL, apiToken string) *Service {
	return &Service{
		client:   &http.Client{Timeout: 30 * time.Second},
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiToken: apiToken,
	}
}

type uploadResponse struct {
	Ref string `json:"ref"`
}

// Upload sends the file and returns the storage reference to record on the
// payment event.
func (s *Service) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	body := &strings.Builder{}

	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile("file", sanitizeFilename(filename))
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("reading receipt: %w", err)
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/files", strings.NewReader(body.String()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())

	if s.apiToken != "" {
		req.Header.Set("Authorization", "Token "+s.apiToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status code %d uploading receipt", resp.StatusCode)
	}

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}

	if ur.Ref == "" {
		return "", fmt.Errorf("upload response missing ref")
	}

	return ur.Ref, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)

	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}

		return '_'
	}, base)
}
