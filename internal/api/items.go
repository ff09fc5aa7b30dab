package api

import (
	"database/sql"
	"net/http"

	"github.com/mulagohealth/mlaf/internal/imaging"
	"github.com/mulagohealth/mlaf/internal/model"
	"github.com/mulagohealth/mlaf/internal/store"
)

// Bounds on list responses. Callers filter client-side for approved items.
const (
	maxRecentItems  = 200
	maxPendingItems = 500
)

// ItemsHandler handles the public item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// List handles GET /items: the latest items across all statuses.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListRecent(r.Context(), h.DB, maxRecentItems)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []*model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /items: an anonymous finder reports an item.
// The item starts out pending until an admin reviews it.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, req.normalize())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Claim handles POST /items/{id}/claims: an anonymous visitor asserts
// ownership. Claims accumulate; admins adjudicate them later by marking
// the item claimed.
func (h *ItemsHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := req.claimantName()
	if name == "" || req.Contact == "" {
		jsonError(w, http.StatusBadRequest, "name and contact required")
		return
	}

	claim, err := store.AppendClaim(r.Context(), h.DB, r.PathValue("id"), name, req.Contact, req.Note)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to submit claim")
		return
	}
	if claim == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusCreated, claim)
}

// UploadPhoto handles PUT /items/{id}/photo.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := store.SetItemPhoto(r.Context(), h.DB, r.PathValue("id"), result.Data, result.MIME)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /items/{id}/photo.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetItemPhoto(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
