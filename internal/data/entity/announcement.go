package entity

import (
	"time"
)

// Announcement is community-wide. expiresAt is optional; an expired
// announcement is filtered out of streams but kept in the store.
type Announcement struct {
	BaseSimple
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	ReadBy    []string   `json:"readBy"`
}

// ReadByUser reports whether userID has read the announcement.
func (a *Announcement) ReadByUser(userID string) bool {
	for _, id := range a.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Expired reports whether the announcement has lapsed at the given time.
func (a *Announcement) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && !a.ExpiresAt.After(now)
}
