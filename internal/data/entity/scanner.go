package entity

// Scanner is a registered redemption device. KeyHash is a bcrypt hash of
// the device key presented on /scan-ticket calls.
type Scanner struct {
	BaseSimple
	Name    string `json:"name"`
	EventID string `json:"eventId,omitempty"`
	KeyHash string `json:"keyHash"`
}
