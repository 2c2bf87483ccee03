package repository

import (
	"context"
	"database/sql"
	"fmt"

	"media-catalog-service/internal/models"
)

// InterestRow is one media item the user has interacted with, carrying
// the signals the recommender scores on.
type InterestRow struct {
	Genres  string
	Liked   bool
	Watched bool
	Rating  float64
}

// RecommendationRepository fetches the rows the recommender scores:
// the user's interaction history and the candidate media pool.
type RecommendationRepository struct {
	db *sql.DB
}

// NewRecommendationRepository creates a new RecommendationRepository.
func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// GetUserInterests returns the genres and signals of every media item
// the user has liked, watched, rated or reviewed.
func (r *RecommendationRepository) GetUserInterests(ctx context.Context, userID int64) ([]InterestRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.genres, p.liked, p.watched, p.rating
		FROM preferences p
		INNER JOIN media m ON m.id = p.media_id
		WHERE p.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user interests: %w", err)
	}
	defer rows.Close()

	var interests []InterestRow
	for rows.Next() {
		var row InterestRow
		if err := rows.Scan(&row.Genres, &row.Liked, &row.Watched, &row.Rating); err != nil {
			return nil, fmt.Errorf("scan interest row: %w", err)
		}
		interests = append(interests, row)
	}
	return interests, rows.Err()
}

// GetCandidatesForUser returns catalog items the user has no preference
// row for, ordered by catalog rating as a stable starting order.
func (r *RecommendationRepository) GetCandidatesForUser(ctx context.Context, userID int64) ([]models.Media, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM media m
		WHERE NOT EXISTS (
			SELECT 1 FROM preferences p
			WHERE p.user_id = $1 AND p.media_id = m.id
		)
		ORDER BY m.rating DESC, m.id
	`, prefixedMediaColumns("m")), userID)
	if err != nil {
		return nil, fmt.Errorf("query candidate media: %w", err)
	}
	return collectMedia(rows)
}

// GetMediaGenres returns the delimited genres column of one media item.
// Callers distinguish a missing item via sql.ErrNoRows.
func (r *RecommendationRepository) GetMediaGenres(ctx context.Context, mediaID string) (string, error) {
	var genres string
	err := r.db.QueryRowContext(ctx,
		`SELECT genres FROM media WHERE id = $1`, mediaID).Scan(&genres)
	if err != nil {
		return "", err
	}
	return genres, nil
}

// GetCandidatesByType returns catalog items of the given media type,
// excluding the source item itself.
func (r *RecommendationRepository) GetCandidatesByType(ctx context.Context, mediaType, excludeID string) ([]models.Media, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM media m
		WHERE m.media_type = $1 AND m.id <> $2
		ORDER BY m.rating DESC, m.id
	`, prefixedMediaColumns("m")), mediaType, excludeID)
	if err != nil {
		return nil, fmt.Errorf("query candidates by type: %w", err)
	}
	return collectMedia(rows)
}
