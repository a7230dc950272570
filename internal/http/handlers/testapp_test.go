package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"libris/internal/http/handlers"
	"libris/internal/repos"
)

// Minimal app setup mirroring the API wiring in cmd/libris.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// OpenDB seeds a demo catalog; tests want an empty library
	if _, err := db.Exec(`DELETE FROM loans; DELETE FROM books; DELETE FROM members;`); err != nil {
		t.Fatal(err)
	}

	deps := handlers.NewDeps(db)
	app := fiber.New()
	app.Use(requestid.New())

	app.Get("/schema", deps.MetaHandler.Schema)

	api := app.Group("/api")
	api.Get("/books", deps.BookHandler.List)
	api.Post("/books", deps.BookHandler.Create)
	api.Put("/books/:id", deps.BookHandler.Update)
	api.Delete("/books/:id", deps.BookHandler.Delete)
	api.Get("/books/:id/availability", deps.BookHandler.Availability)
	api.Get("/members", deps.MemberHandler.List)
	api.Post("/members", deps.MemberHandler.Create)
	api.Put("/members/:id", deps.MemberHandler.Update)
	api.Delete("/members/:id", deps.MemberHandler.Delete)
	api.Get("/loans", deps.LoanHandler.List)
	api.Post("/loans/borrow", deps.LoanHandler.Borrow)
	api.Post("/loans/:id/return", deps.LoanHandler.Return)
	api.Get("/stats", deps.StatsHandler.Summary)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	b, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(b, out); err != nil {
		t.Fatalf("decode %q: %v", b, err)
	}
}
