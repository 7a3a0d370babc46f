package utils

import (
	"context"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	ScannerIDKey contextKey = "scanner_id"
)

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", false
	}

	return userID, true
}

func SetUserContext(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetScannerIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(ScannerIDKey)
	if val == nil {
		return "", false
	}

	scannerID, ok := val.(string)
	return scannerID, ok && scannerID != ""
}

func SetScannerContext(ctx context.Context, scannerID string) context.Context {
	return context.WithValue(ctx, ScannerIDKey, scannerID)
}
