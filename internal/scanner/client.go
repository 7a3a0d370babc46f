package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPValidator posts decoded codes to the backend's /scan-ticket
// endpoint. Every failure mode maps to a failed Result; the pipeline
// never retries on its own.
type HTTPValidator struct {
	url        string
	deviceKey  string
	httpClient *http.Client
	log        *zap.Logger
}

func NewHTTPValidator(url, deviceKey string, log *zap.Logger) *HTTPValidator {
	return &HTTPValidator{
		url:        url,
		deviceKey:  deviceKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.With(zap.String("component", "scan_validator")),
	}
}

type scanRequest struct {
	QRCode    string `json:"qrCode"`
	ScannerID string `json:"scannerId"`
}

type scanReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (v *HTTPValidator) Validate(ctx context.Context, qrCode, scannerID string) (bool, string) {
	body, err := json.Marshal(scanRequest{QRCode: qrCode, ScannerID: scannerID})
	if err != nil {
		return false, "Validation failed, try again"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return false, "Validation failed, try again"
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Scanner-ID", scannerID)
	req.Header.Set("X-Scanner-Key", v.deviceKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.log.Error("Scan validation request failed", zap.Error(err))
		return false, "Network error, ticket not validated"
	}
	defer resp.Body.Close()

	var reply scanReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		v.log.Error("Scan validation reply unreadable",
			zap.Error(err),
			zap.Int("status", resp.StatusCode),
		)
		return false, "Unexpected server reply, ticket not validated"
	}

	return reply.Success, reply.Message
}
