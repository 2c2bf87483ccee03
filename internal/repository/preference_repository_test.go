package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockPrefRepo(t *testing.T) (*PreferenceRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewPreferenceRepository(db), mock, func() { _ = db.Close() }
}

// Each mutation must be a single upsert statement that only assigns its
// own column, so setting one field can never clobber another.
func TestSetLikedUpsertsOnlyLikedColumn(t *testing.T) {
	repo, mock, cleanup := newMockPrefRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO preferences (user_id, media_id, liked) VALUES ($1, $2, $3) ON CONFLICT (user_id, media_id) DO UPDATE SET liked = EXCLUDED.liked, updated_at = NOW()`)).
		WithArgs(int64(1), "42", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetLiked(context.Background(), 1, "42", true); err != nil {
		t.Fatalf("SetLiked: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSetWatchedUpsertsOnlyWatchedColumn(t *testing.T) {
	repo, mock, cleanup := newMockPrefRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO preferences (user_id, media_id, watched) VALUES ($1, $2, $3) ON CONFLICT (user_id, media_id) DO UPDATE SET watched = EXCLUDED.watched, updated_at = NOW()`)).
		WithArgs(int64(1), "42", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetWatched(context.Background(), 1, "42", false); err != nil {
		t.Fatalf("SetWatched: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSetRatingUpsertsOnlyRatingColumn(t *testing.T) {
	repo, mock, cleanup := newMockPrefRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO preferences (user_id, media_id, rating) VALUES ($1, $2, $3) ON CONFLICT (user_id, media_id) DO UPDATE SET rating = EXCLUDED.rating, updated_at = NOW()`)).
		WithArgs(int64(9), "42", 4.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetRating(context.Background(), 9, "42", 4); err != nil {
		t.Fatalf("SetRating: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSetReviewUpsertsOnlyReviewColumn(t *testing.T) {
	repo, mock, cleanup := newMockPrefRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO preferences (user_id, media_id, review) VALUES ($1, $2, $3) ON CONFLICT (user_id, media_id) DO UPDATE SET review = EXCLUDED.review, updated_at = NOW()`)).
		WithArgs(int64(9), "42", "great").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetReview(context.Background(), 9, "42", "great"); err != nil {
		t.Fatalf("SetReview: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGetLikedMediaJoinsFullRecords(t *testing.T) {
	repo, mock, cleanup := newMockPrefRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(
		`INNER JOIN preferences p ON p.media_id = m.id WHERE p.user_id = $1 AND p.liked = TRUE`)).
		WithArgs(int64(1)).
		WillReturnRows(mediaRows().
			AddRow("42", "Liked Movie", "movie", 2005, "", "Drama", 8.0, 120, "", "PG"))

	items, err := repo.GetLikedMedia(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetLikedMedia: %v", err)
	}
	if len(items) != 1 || items[0].ID != "42" {
		t.Fatalf("expected media 42, got %+v", items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestAverageRatingSkipsUnrated(t *testing.T) {
	repo, mock, cleanup := newMockPrefRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM preferences WHERE media_id = $1 AND rating > 0`)).
		WithArgs("42").
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(4.5, 2))

	agg, err := repo.AverageRating(context.Background(), "42")
	if err != nil {
		t.Fatalf("AverageRating: %v", err)
	}
	if agg.Rating != 4.5 || agg.Votes != 2 {
		t.Fatalf("expected avg 4.5 over 2 votes, got %+v", agg)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
