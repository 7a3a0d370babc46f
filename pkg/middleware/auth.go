package middleware

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sokoni/internal/data/repository"
	"sokoni/pkg/utils"
)

// Identity middleware: every user-facing route requires the caller's id.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				utils.ResponseUnauthorized(w, "Missing X-User-ID header")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ScannerAuth middleware: redemption devices authenticate with their
// registered id and device key.
func ScannerAuth(scanners repository.ScannerRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scannerID := r.Header.Get("X-Scanner-ID")
			deviceKey := r.Header.Get("X-Scanner-Key")
			if scannerID == "" || deviceKey == "" {
				utils.ResponseUnauthorized(w, "Missing scanner credentials")
				return
			}

			scanner, err := scanners.FindByID(r.Context(), scannerID)
			if err != nil {
				logger.Error("Scanner lookup failed", zap.Error(err), zap.String("scanner_id", scannerID))
				utils.ResponseInternalError(w, "Scanner lookup failed")
				return
			}
			if scanner == nil {
				utils.ResponseUnauthorized(w, "Unknown scanner")
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(scanner.KeyHash), []byte(deviceKey)); err != nil {
				logger.Warn("Scanner key mismatch", zap.String("scanner_id", scannerID))
				utils.ResponseUnauthorized(w, "Invalid scanner key")
				return
			}

			ctx := utils.SetScannerContext(r.Context(), scannerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
