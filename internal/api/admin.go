package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mulagohealth/mlaf/internal/auth"
	"github.com/mulagohealth/mlaf/internal/model"
	"github.com/mulagohealth/mlaf/internal/store"
)

// AdminHandler handles authentication and the admin-only item endpoints.
type AdminHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// patchItemRequest carries the allowed PATCH fields. Pointer fields
// distinguish "absent" from "set to empty". Note is not an item field;
// together with status it decides whether an audit entry is recorded.
type patchItemRequest struct {
	Status         *string `json:"status"`
	Name           *string `json:"name"`
	Category       *string `json:"category"`
	Location       *string `json:"location"`
	Description    *string `json:"description"`
	Image          *string `json:"image"`
	ClaimedBy      *string `json:"claimedBy"`
	ClaimedContact *string `json:"claimedContact"`
	Note           string  `json:"note"`
}

// Login handles POST /admin/login. Unknown usernames and wrong passwords
// produce the same response so callers cannot probe for accounts.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "username and password required")
		return
	}

	admin, err := store.GetAdminByUsername(r.Context(), h.DB, req.Username)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if admin == nil || !auth.CheckPassword(admin.PasswordHash, req.Password) {
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, admin.ID, admin.Username)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("admin logged in", "username", admin.Username)
	jsonResponse(w, http.StatusOK, tokenResponse{Token: token})
}

// Register handles POST /admin/register. This is a one-time bootstrap:
// it succeeds only while no admin exists, and is permanently locked
// afterwards.
func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" {
		jsonError(w, http.StatusBadRequest, "username required")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	admin, err := store.CreateFirstAdmin(r.Context(), h.DB, req.Username, hash)
	if errors.Is(err, store.ErrAdminExists) {
		jsonError(w, http.StatusForbidden, "registration is closed")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, admin.ID, admin.Username)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("admin registered", "username", admin.Username)
	jsonResponse(w, http.StatusCreated, tokenResponse{Token: token})
}

// ListPending handles GET /admin/items: the review queue.
func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListPending(r.Context(), h.DB, maxPendingItems)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list pending items")
		return
	}
	if items == nil {
		items = []*model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// PatchItem handles PATCH /items/{id}. Any valid status may be set from
// any current status; admins use this to revert mistakes. An audit entry
// is appended iff the body carries a status or a note.
func (h *AdminHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req patchItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// An empty status is treated as absent, not as a transition.
	if req.Status != nil && *req.Status == "" {
		req.Status = nil
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if req.Name != nil && *req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name cannot be empty")
		return
	}

	item, err := store.PatchItem(r.Context(), h.DB, r.PathValue("id"), store.ItemPatch{
		Status:         req.Status,
		Name:           req.Name,
		Category:       req.Category,
		Location:       req.Location,
		Description:    req.Description,
		Image:          req.Image,
		ClaimedBy:      req.ClaimedBy,
		ClaimedContact: req.ClaimedContact,
		Note:           req.Note,
		AdminID:        claims.AdminID,
		AdminUsername:  claims.Username,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}
