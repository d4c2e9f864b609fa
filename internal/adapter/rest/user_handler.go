package rest

import (
	"context"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	filter := domain.UserFilter{PageRequest: req, Type: domain.AccountType(r.URL.Query().Get("type"))}

	page, err := h.Users.GetUsers(r.Context(), CallerFrom(r.Context()), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toUserResponse))
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	h.getUser(w, r, "")
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	h.getUser(w, r, chi.URLParam(r, "username"))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, username string) {
	profile, err := h.Users.GetUser(r.Context(), CallerFrom(r.Context()), username)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	user, err := h.Users.UpdateUser(r.Context(), CallerFrom(r.Context()), req.toInput())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.DeleteUser(r.Context(), CallerFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) FollowOrUnfollowUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Follows.ToggleFollow(r.Context(), CallerFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	h.listEdges(w, r, h.Follows.ListFollowers)
}

func (h *Handler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	h.listEdges(w, r, h.Follows.ListFollowing)
}

func (h *Handler) listEdges(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID string, req domain.PageRequest) (domain.Page[domain.PublicProfile], error)) {
	req, err := pageRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page, err := list(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toPublicProfileResponse))
}
