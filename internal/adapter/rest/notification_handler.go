package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetUserNotifications(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page, err := h.Notifications.GetUserNotifications(r.Context(), CallerFrom(r.Context()), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationsResponse{
		pageResponse: toPageResponse(page.Page, toNotificationResponse),
		UnreadCount:  page.UnreadCount,
	})
}

func (h *Handler) MarkNotificationAsRead(w http.ResponseWriter, r *http.Request) {
	res := h.Notifications.MarkNotificationAsRead(r.Context(), chi.URLParam(r, "id"), CallerFrom(r.Context()))
	writeJSON(w, http.StatusOK, toResultResponse(res))
}

func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := h.Notifications.MarkAllAsRead(r.Context(), req, CallerFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toResultResponse(res))
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	view, err := h.Wallets.GetWallet(r.Context(), CallerFrom(r.Context()), r.URL.Query().Get("walletId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(view))
}

func (h *Handler) AddBankInformation(w http.ResponseWriter, r *http.Request) {
	var req bankInformationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	view, err := h.Wallets.AddBankInformation(r.Context(), CallerFrom(r.Context()), req.toInput())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(view))
}
