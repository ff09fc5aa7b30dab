package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db}
	adminHandler := &AdminHandler{DB: db, JWTSecret: jwtSecret}

	authMW := AuthMiddleware(jwtSecret)

	// Public: reporting, browsing, claiming.
	mux.HandleFunc("GET /items", itemsHandler.List)
	mux.HandleFunc("POST /items", itemsHandler.Create)
	mux.HandleFunc("GET /items/{id}", itemsHandler.Get)
	mux.HandleFunc("POST /items/{id}/claims", itemsHandler.Claim)
	mux.HandleFunc("GET /items/{id}/photo", itemsHandler.GetPhoto)

	// Public: authentication bootstrap.
	mux.HandleFunc("POST /admin/register", adminHandler.Register)
	mux.HandleFunc("POST /admin/login", adminHandler.Login)

	// Admin: triage.
	mux.Handle("PATCH /items/{id}", authMW(http.HandlerFunc(adminHandler.PatchItem)))
	mux.Handle("PUT /items/{id}/photo", authMW(http.HandlerFunc(itemsHandler.UploadPhoto)))
	mux.Handle("GET /admin/items", authMW(http.HandlerFunc(adminHandler.ListPending)))

	// Liveness.
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}
