package models

// Preference records a user's watched/liked/rating/review state for a
// single media item. At most one row exists per (user_id, media_id).
// Rating travels as a string, like the media rating field.
type Preference struct {
	Watched bool   `json:"watched"`
	Liked   bool   `json:"liked"`
	Rating  string `json:"rating"`
	Review  string `json:"review"`
	UserID  int64  `json:"user_id"`
	MediaID string `json:"media_id"`
}

// ReviewRequest is the request body for posting a review.
type ReviewRequest struct {
	MediaID string `json:"media_id"`
	Review  string `json:"review"`
}

// RatingRequest is the request body for posting a rating.
type RatingRequest struct {
	MediaID string  `json:"media_id"`
	Rating  float64 `json:"rating"`
}

// MediaIDRequest is the request body for favorite and watchlist mutations.
type MediaIDRequest struct {
	ID string `json:"id"`
}

// AggregateRating is the average user rating for a media item.
type AggregateRating struct {
	MediaID string  `json:"media_id"`
	Rating  float64 `json:"rating"`
	Votes   int     `json:"votes"`
}
