package entity

import (
	"encoding/json"
	"time"
)

type Event struct {
	Base
	HostID      string         `json:"hostId"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Venue       string         `json:"venue,omitempty"`
	StartsAt    time.Time      `json:"startsAt"`
	Comments    []EventComment `json:"comments,omitempty"`
}

// EventComment elements are append-only on the event document. Older
// clients wrote each comment as a bare string; newer ones as a structured
// record. Both shapes decode into the canonical struct here, at the
// storage boundary, so the variant never leaks further.
type EventComment struct {
	AuthorID   string    `json:"authorId,omitempty"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}

func (c *EventComment) UnmarshalJSON(data []byte) error {
	// legacy shape: the whole comment is one string
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		*c = EventComment{AuthorName: "Unknown", Text: legacy}
		return nil
	}

	type structured EventComment
	var rec structured
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*c = EventComment(rec)
	if c.AuthorName == "" {
		c.AuthorName = "Unknown"
	}
	return nil
}
