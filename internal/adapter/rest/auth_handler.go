package rest

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
)

func (h *Handler) respondTokens(w http.ResponseWriter, r *http.Request, status int, tokens *usecase.TokenPair, err error) {
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, status, toTokenResponse(tokens))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	tokens, err := h.Accounts.Register(r.Context(), req.toInput())
	h.respondTokens(w, r, http.StatusCreated, tokens, err)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	tokens, err := h.Accounts.Login(r.Context(), req.Identifier, req.Password)
	h.respondTokens(w, r, http.StatusOK, tokens, err)
}

func (h *Handler) RegisterBySocialMedia(w http.ResponseWriter, r *http.Request) {
	var req socialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	tokens, err := h.Accounts.RegisterBySocialMedia(r.Context(), req.Provider, req.AccessToken)
	h.respondTokens(w, r, http.StatusOK, tokens, err)
}

func (h *Handler) LoginBySocialMedia(w http.ResponseWriter, r *http.Request) {
	var req socialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	tokens, err := h.Accounts.LoginBySocialMedia(r.Context(), req.Provider, req.AccessToken)
	h.respondTokens(w, r, http.StatusOK, tokens, err)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req identifierRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toResultResponse(h.Accounts.ForgotPassword(r.Context(), req.Identifier, requestMeta(r))))
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := h.Accounts.ResetPassword(r.Context(), req.Code, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toResultResponse(res))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := h.Accounts.ChangePassword(r.Context(), CallerFrom(r.Context()), req.OldPassword, req.NewPassword)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toResultResponse(res))
}

func (h *Handler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	res, err := h.Accounts.CheckUsername(r.Context(), r.URL.Query().Get("username"), CallerFrom(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toResultResponse(res))
}

func (h *Handler) GenerateOtp(w http.ResponseWriter, r *http.Request) {
	var req identifierRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := h.OTP.GenerateOtp(r.Context(), req.Identifier, requestMeta(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toResultResponse(res))
}

func (h *Handler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	identifier, err := h.OTP.Verify(r.Context(), req.Code)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyOTPResponse{
		resultResponse: resultResponse{Success: true, Message: "Code verified"},
		Identifier:     identifier,
	})
}
