package entity

// Rating is one user's score for a service listing, at most one per
// user and service.
type Rating struct {
	BaseSimple
	ServiceID string  `json:"serviceId"`
	UserID    string  `json:"userId"`
	Score     float64 `json:"score"`
	Comment   string  `json:"comment,omitempty"`
}

// RatedListing is a service snapshot merged with its live rating mean.
type RatedListing struct {
	Service       ServiceListing `json:"service"`
	AverageRating float64        `json:"averageRating"`
	RatingCount   int            `json:"ratingCount"`
}

// AverageScore computes the arithmetic mean of the given ratings.
func AverageScore(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r.Score
	}
	return sum / float64(len(ratings))
}
