package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"media-catalog-service/internal/models"
)

// PreferenceRepository handles database operations for per-user,
// per-media preference rows. Every mutation is a single atomic upsert
// keyed on the (user_id, media_id) primary key, so concurrent requests
// for the same pair serialize at the database row and a mutation never
// touches fields other than its own.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new PreferenceRepository.
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// SetLiked upserts the liked flag, leaving other fields untouched.
func (r *PreferenceRepository) SetLiked(ctx context.Context, userID int64, mediaID string, liked bool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, media_id, liked)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, media_id)
		DO UPDATE SET liked = EXCLUDED.liked, updated_at = NOW()
	`, userID, mediaID, liked)
	if err != nil {
		return fmt.Errorf("upsert liked: %w", err)
	}
	return nil
}

// SetWatched upserts the watched flag, leaving other fields untouched.
func (r *PreferenceRepository) SetWatched(ctx context.Context, userID int64, mediaID string, watched bool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, media_id, watched)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, media_id)
		DO UPDATE SET watched = EXCLUDED.watched, updated_at = NOW()
	`, userID, mediaID, watched)
	if err != nil {
		return fmt.Errorf("upsert watched: %w", err)
	}
	return nil
}

// SetRating upserts the rating value, leaving other fields untouched.
func (r *PreferenceRepository) SetRating(ctx context.Context, userID int64, mediaID string, rating float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, media_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, media_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = NOW()
	`, userID, mediaID, rating)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// SetReview upserts the review text, leaving other fields untouched.
func (r *PreferenceRepository) SetReview(ctx context.Context, userID int64, mediaID string, review string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, media_id, review)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, media_id)
		DO UPDATE SET review = EXCLUDED.review, updated_at = NOW()
	`, userID, mediaID, review)
	if err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}
	return nil
}

// Get returns the preference row for a (user, media) pair. Callers
// distinguish a missing row via sql.ErrNoRows.
func (r *PreferenceRepository) Get(ctx context.Context, userID int64, mediaID string) (*models.Preference, error) {
	var p models.Preference
	var rating float64
	err := r.db.QueryRowContext(ctx, `
		SELECT watched, liked, rating, review, user_id, media_id
		FROM preferences WHERE user_id = $1 AND media_id = $2
	`, userID, mediaID).Scan(&p.Watched, &p.Liked, &rating, &p.Review, &p.UserID, &p.MediaID)
	if err != nil {
		return nil, err
	}
	p.Rating = strconv.FormatFloat(rating, 'f', -1, 64)
	return &p, nil
}

// GetLikedMedia returns the full media records the user has liked.
func (r *PreferenceRepository) GetLikedMedia(ctx context.Context, userID int64) ([]models.Media, error) {
	return r.mediaByFlag(ctx, userID, "liked")
}

// GetWatchedMedia returns the full media records the user has watched.
func (r *PreferenceRepository) GetWatchedMedia(ctx context.Context, userID int64) ([]models.Media, error) {
	return r.mediaByFlag(ctx, userID, "watched")
}

func (r *PreferenceRepository) mediaByFlag(ctx context.Context, userID int64, flag string) ([]models.Media, error) {
	// flag is one of the fixed column names above, never user input.
	query := fmt.Sprintf(`
		SELECT %s FROM media m
		INNER JOIN preferences p ON p.media_id = m.id
		WHERE p.user_id = $1 AND p.%s = TRUE
		ORDER BY m.id
	`, prefixedMediaColumns("m"), flag)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query %s media: %w", flag, err)
	}
	return collectMedia(rows)
}

// AverageRating returns the mean of the nonzero user ratings for a media
// item together with the number of votes. A media item nobody has rated
// yields zero votes and a zero average.
func (r *PreferenceRepository) AverageRating(ctx context.Context, mediaID string) (*models.AggregateRating, error) {
	agg := models.AggregateRating{MediaID: mediaID}
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM preferences WHERE media_id = $1 AND rating > 0
	`, mediaID).Scan(&agg.Rating, &agg.Votes)
	if err != nil {
		return nil, fmt.Errorf("aggregate rating: %w", err)
	}
	return &agg, nil
}

func prefixedMediaColumns(alias string) string {
	return fmt.Sprintf(
		"%[1]s.id, %[1]s.name, %[1]s.media_type, %[1]s.year, %[1]s.link, %[1]s.genres, %[1]s.rating, %[1]s.running_time, %[1]s.summary, %[1]s.certificate",
		alias)
}
