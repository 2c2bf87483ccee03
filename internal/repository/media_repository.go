package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"media-catalog-service/internal/models"
)

const mediaColumns = "id, name, media_type, year, link, genres, rating, running_time, summary, certificate"

// MediaRepository handles database operations for the media catalog.
type MediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func scanMedia(s interface{ Scan(...any) error }) (models.Media, error) {
	var m models.Media
	var rating, runningTime float64
	err := s.Scan(
		&m.ID, &m.Name, &m.MediaType, &m.Year, &m.Link, &m.Genres,
		&rating, &runningTime, &m.Summary, &m.Certificate,
	)
	if err != nil {
		return models.Media{}, err
	}
	m.Rating = strconv.FormatFloat(rating, 'f', -1, 64)
	m.RunningTime = strconv.FormatFloat(runningTime, 'f', -1, 64)
	return m, nil
}

func collectMedia(rows *sql.Rows) ([]models.Media, error) {
	defer rows.Close()

	items := make([]models.Media, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media row: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// GetAll returns every catalog row, ordered by id.
func (r *MediaRepository) GetAll(ctx context.Context) ([]models.Media, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM media ORDER BY id`, mediaColumns))
	if err != nil {
		return nil, fmt.Errorf("query all media: %w", err)
	}
	return collectMedia(rows)
}

// GetByID returns a single catalog item.
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM media WHERE id = $1`, mediaColumns), id)
	m, err := scanMedia(row)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Count returns the total number of catalog rows.
func (r *MediaRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count media: %w", err)
	}
	return n, nil
}

// Page returns a contiguous slice of the catalog plus the total row count.
func (r *MediaRepository) Page(ctx context.Context, limit, offset int) (*models.MediaPage, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM media ORDER BY id LIMIT $1 OFFSET $2`, mediaColumns),
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query media page: %w", err)
	}

	items, err := collectMedia(rows)
	if err != nil {
		return nil, err
	}
	return &models.MediaPage{Movies: items, Count: total}, nil
}

// Search returns catalog rows whose name contains the query string,
// case-insensitively, plus the total match count before pagination.
func (r *MediaRepository) Search(ctx context.Context, query string, limit, offset int) (*models.MediaPage, error) {
	pattern := "%" + query + "%"

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM media WHERE name ILIKE $1`, pattern).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM media WHERE name ILIKE $1 ORDER BY id LIMIT $2 OFFSET $3`,
		mediaColumns), pattern, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query search results: %w", err)
	}

	items, err := collectMedia(rows)
	if err != nil {
		return nil, err
	}
	return &models.MediaPage{Movies: items, Count: total}, nil
}

// AdvancedSearch returns catalog rows matching the supplied filters plus
// the total match count. Nil filters do not constrain the result.
func (r *MediaRepository) AdvancedSearch(ctx context.Context, req models.AdvancedSearchRequest, limit, offset int) (*models.MediaPage, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	addCondition := func(clause string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(clause, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Name != nil {
		addCondition("name ILIKE $%d", "%"+*req.Name+"%")
	}
	if req.MediaType != nil {
		addCondition("media_type = $%d", *req.MediaType)
	}
	if req.Genre != nil {
		addCondition("genres ILIKE $%d", "%"+*req.Genre+"%")
	}
	if req.MinYear != nil {
		addCondition("year >= $%d", *req.MinYear)
	}
	if req.MaxYear != nil {
		addCondition("year <= $%d", *req.MaxYear)
	}
	if req.MinRate != nil {
		addCondition("rating >= $%d", *req.MinRate)
	}
	if req.MaxRate != nil {
		addCondition("rating <= $%d", *req.MaxRate)
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM media WHERE %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count filtered results: %w", err)
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM media WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		mediaColumns, whereClause, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("query filtered results: %w", err)
	}

	items, err := collectMedia(rows)
	if err != nil {
		return nil, err
	}
	return &models.MediaPage{Movies: items, Count: total}, nil
}
