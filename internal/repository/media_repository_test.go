package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"media-catalog-service/internal/models"
)

func newMockRepo(t *testing.T) (*MediaRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewMediaRepository(db), mock, func() { _ = db.Close() }
}

func mediaRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "media_type", "year", "link", "genres",
		"rating", "running_time", "summary", "certificate",
	})
}

func TestSearchReturnsRowsAndTotal(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM media WHERE name ILIKE $1`)).
		WithArgs("%shaw%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE name ILIKE $1 ORDER BY id LIMIT $2 OFFSET $3`)).
		WithArgs("%shaw%", 50, 0).
		WillReturnRows(mediaRows().
			AddRow("0111161", "The Shawshank Redemption", "movie", 1994, "http://example.com/1", "Drama", 9.3, 142, "Two imprisoned men.", "R").
			AddRow("0111162", "Shaw Brothers", "movie", 1980, "http://example.com/2", "Action", 7.1, 100, "", "PG"))

	page, err := repo.Search(context.Background(), "shaw", 50, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if page.Count != 2 {
		t.Fatalf("expected count 2, got %d", page.Count)
	}
	if len(page.Movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(page.Movies))
	}
	if page.Movies[0].Rating != "9.3" {
		t.Fatalf("expected rating serialized as string 9.3, got %q", page.Movies[0].Rating)
	}
	if page.Movies[0].RunningTime != "142" {
		t.Fatalf("expected running_time serialized as string 142, got %q", page.Movies[0].RunningTime)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestAdvancedSearchWithoutFiltersIsUnconstrained(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	// No filters supplied: the WHERE clause degenerates to 1=1 so the
	// result set matches the unfiltered catalog listing.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM media WHERE 1=1`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE 1=1 ORDER BY id LIMIT $1 OFFSET $2`)).
		WithArgs(50, 0).
		WillReturnRows(mediaRows().
			AddRow("1", "A", "movie", 2000, "", "", 5, 90, "", "").
			AddRow("2", "B", "movie", 2001, "", "", 6, 95, "", "").
			AddRow("3", "C", "tv show", 2002, "", "", 7, 45, "", ""))

	page, err := repo.AdvancedSearch(context.Background(), advReq(), 50, 0)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}
	if page.Count != 3 || len(page.Movies) != 3 {
		t.Fatalf("expected full catalog, got count=%d len=%d", page.Count, len(page.Movies))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestAdvancedSearchBindsSuppliedFiltersInOrder(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	name := "shaw"
	minYear := 1990
	maxRate := 9.5
	req := advReq()
	req.Name = &name
	req.MinYear = &minYear
	req.MaxRate = &maxRate

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM media WHERE 1=1 AND name ILIKE $1 AND year >= $2 AND rating <= $3`)).
		WithArgs("%shaw%", 1990, 9.5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(regexp.QuoteMeta(`AND name ILIKE $1 AND year >= $2 AND rating <= $3 ORDER BY id LIMIT $4 OFFSET $5`)).
		WithArgs("%shaw%", 1990, 9.5, 10, 0).
		WillReturnRows(mediaRows().
			AddRow("0111161", "The Shawshank Redemption", "movie", 1994, "", "Drama", 9.3, 142, "", "R"))

	page, err := repo.AdvancedSearch(context.Background(), req, 10, 0)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}
	if page.Count != 1 || len(page.Movies) != 1 {
		t.Fatalf("expected a single match, got count=%d len=%d", page.Count, len(page.Movies))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPageReturnsTotalCount(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM media`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(250))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM media ORDER BY id LIMIT $1 OFFSET $2`)).
		WithArgs(100, 200).
		WillReturnRows(mediaRows().
			AddRow("x1", "Tail 1", "movie", 2010, "", "", 6, 90, "", "").
			AddRow("x2", "Tail 2", "movie", 2011, "", "", 6, 90, "", ""))

	page, err := repo.Page(context.Background(), 100, 200)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if page.Count != 250 {
		t.Fatalf("expected total 250, got %d", page.Count)
	}
	if len(page.Movies) != 2 {
		t.Fatalf("expected the final partial page of 2, got %d", len(page.Movies))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGetByIDMissingRow(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM media WHERE id = $1`)).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	if err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func advReq() models.AdvancedSearchRequest {
	return models.AdvancedSearchRequest{}
}
