package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUIDString() string {
	return uuid.New().String()
}

// ==================== QR CODE ====================

// GenerateQRCode produces a redemption code for a ticket. The token is
// random, never derived from ticket fields.
func GenerateQRCode() string {
	return fmt.Sprintf("QR_%s", uuid.New().String())
}

// ==================== ORDER REFERENCE ====================

// GenerateOrderRef creates a unique order reference with timestamp
func GenerateOrderRef(prefix string) string {
	now := time.Now()

	// Format: PREFIX-YYYYMMDD-HHMMSS-RANDOM
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("%s-%s-%s-%s", prefix, datePart, timePart, randomPart)
}
