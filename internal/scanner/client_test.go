package scanner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestHTTPValidatorPostsCodeAndCredentials(t *testing.T) {
	var got scanRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.Header.Get("X-Scanner-ID") != "scanner-1" || r.Header.Get("X-Scanner-Key") != "device-key" {
			t.Errorf("scanner credentials not sent")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(scanReply{Success: true, Message: "Ticket valid, entry granted"})
	}))
	defer srv.Close()

	v := NewHTTPValidator(srv.URL, "device-key", zap.NewNop())
	ok, msg := v.Validate(context.Background(), "QR_abc", "scanner-1")
	if !ok || msg != "Ticket valid, entry granted" {
		t.Fatalf("validate = %v %q", ok, msg)
	}
	if got.QRCode != "QR_abc" || got.ScannerID != "scanner-1" {
		t.Fatalf("request body = %+v", got)
	}
}

func TestHTTPValidatorPassesThroughRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(scanReply{Success: false, Message: "Ticket already used"})
	}))
	defer srv.Close()

	v := NewHTTPValidator(srv.URL, "device-key", zap.NewNop())
	ok, msg := v.Validate(context.Background(), "QR_abc", "scanner-1")
	if ok || msg != "Ticket already used" {
		t.Fatalf("validate = %v %q, want rejection passed through", ok, msg)
	}
}

func TestHTTPValidatorNetworkFailureIsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	v := NewHTTPValidator(url, "device-key", zap.NewNop())
	ok, msg := v.Validate(context.Background(), "QR_abc", "scanner-1")
	if ok {
		t.Fatalf("unreachable backend validated a ticket")
	}
	if msg != "Network error, ticket not validated" {
		t.Fatalf("message = %q", msg)
	}
}

func TestHTTPValidatorGarbledReplyIsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>internal error"))
	}))
	defer srv.Close()

	v := NewHTTPValidator(srv.URL, "device-key", zap.NewNop())
	ok, msg := v.Validate(context.Background(), "QR_abc", "scanner-1")
	if ok {
		t.Fatalf("garbled reply validated a ticket")
	}
	if msg != "Unexpected server reply, ticket not validated" {
		t.Fatalf("message = %q", msg)
	}
}
