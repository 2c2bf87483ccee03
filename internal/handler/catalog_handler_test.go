package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v3"

	"media-catalog-service/internal/models"
	"media-catalog-service/internal/repository"
	"media-catalog-service/internal/service"
)

func newCatalogApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)

	svc := service.NewCatalogService(repository.NewMediaRepository(db), nil)
	h := NewCatalogHandler(svc)

	app := fiber.New()
	app.Get("/movies", h.ListAll)
	app.Post("/search", h.Search)
	app.Post("/advSearch", h.AdvancedSearch)
	app.Get("/pages", h.Pages)
	app.Get("/movieCount", h.Count)
	return app, mock
}

func catalogRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "media_type", "year", "link", "genres",
		"rating", "running_time", "summary", "certificate",
	})
}

func TestListAllReturnsMediaArray(t *testing.T) {
	app, mock := newCatalogApp(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM media ORDER BY id`)).
		WillReturnRows(catalogRows().
			AddRow("1", "First", "movie", 1999, "", "Drama", 7.5, 120, "", "PG").
			AddRow("2", "Second", "tv show", 2005, "", "Comedy", 8.1, 45, "", "PG-13"))

	resp := doRequest(t, app, jsonRequest(t, http.MethodGet, "/movies", nil))
	mustStatus(t, resp, http.StatusOK)

	var items []models.Media
	decodeJSON(t, resp, &items)
	if len(items) != 2 {
		t.Fatalf("expected 2 media, got %d", len(items))
	}
	if items[1].MediaType != "tv show" {
		t.Fatalf("expected mediaType 'tv show', got %q", items[1].MediaType)
	}
}

func TestSearchAppliesDefaultPagination(t *testing.T) {
	app, mock := newCatalogApp(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM media WHERE name ILIKE $1`)).
		WithArgs("%first%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// Omitted limit/offset fall back to 50/0.
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY id LIMIT $2 OFFSET $3`)).
		WithArgs("%first%", 50, 0).
		WillReturnRows(catalogRows().
			AddRow("1", "First", "movie", 1999, "", "Drama", 7.5, 120, "", "PG"))

	resp := doRequest(t, app, jsonRequest(t, http.MethodPost, "/search",
		map[string]string{"searchContents": "first"}))
	mustStatus(t, resp, http.StatusOK)

	var page models.MediaPage
	decodeJSON(t, resp, &page)
	if page.Count != 1 || len(page.Movies) != 1 {
		t.Fatalf("expected one match, got count=%d len=%d", page.Count, len(page.Movies))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSearchMalformedBody(t *testing.T) {
	app, _ := newCatalogApp(t)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp := doRequest(t, app, req)
	mustStatus(t, resp, http.StatusBadRequest)
}

func TestPagesUsesQueryParams(t *testing.T) {
	app, mock := newCatalogApp(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM media`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $1 OFFSET $2`)).
		WithArgs(10, 20).
		WillReturnRows(catalogRows().
			AddRow("21", "Row 21", "movie", 2010, "", "", 6.0, 100, "", ""))

	resp := doRequest(t, app, jsonRequest(t, http.MethodGet, "/pages?limit=10&offset=20", nil))
	mustStatus(t, resp, http.StatusOK)

	var page models.MediaPage
	decodeJSON(t, resp, &page)
	if page.Count != 42 {
		t.Fatalf("expected total 42, got %d", page.Count)
	}
}

func TestMovieCountReturnsBareInteger(t *testing.T) {
	app, mock := newCatalogApp(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM media`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1234))

	resp := doRequest(t, app, jsonRequest(t, http.MethodGet, "/movieCount", nil))
	mustStatus(t, resp, http.StatusOK)

	if body := readBody(t, resp); body != "1234" {
		t.Fatalf("expected bare integer 1234, got %q", body)
	}
}

func TestAdvancedSearchPassesFilters(t *testing.T) {
	app, mock := newCatalogApp(t)

	mock.ExpectQuery(regexp.QuoteMeta(`AND media_type = $1 AND rating >= $2`)).
		WithArgs("movie", 8.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY id LIMIT $3 OFFSET $4`)).
		WithArgs("movie", 8.0, 50, 0).
		WillReturnRows(catalogRows().
			AddRow("1", "Great", "movie", 2000, "", "Drama", 9.0, 120, "", "R"))

	resp := doRequest(t, app, jsonRequest(t, http.MethodPost, "/advSearch",
		map[string]any{"mediaType": "movie", "minRate": 8.0}))
	mustStatus(t, resp, http.StatusOK)

	var page models.MediaPage
	decodeJSON(t, resp, &page)
	if page.Count != 1 {
		t.Fatalf("expected count 1, got %d", page.Count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
