package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

const maxBodyBytes = 20 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps a domain error kind to its HTTP status.
func statusFor(err error) int {
	switch domain.Kind(err) {
	case domain.ErrInvalidInput:
		return http.StatusBadRequest
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrForbidden:
		return http.StatusForbidden
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError answers with the error's message, except for internal errors
// whose details stay in the log.
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("Request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		msg = "internal server error"
	} else {
		msg = publicMessage(err)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// publicMessage drops the "<kind>: " prefix the domain errors carry.
func publicMessage(err error) string {
	msg := err.Error()
	if kind := domain.Kind(err); kind != nil {
		if trimmed, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
			return trimmed
		}
	}
	return msg
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Invalidf("request body is too large")
		}
		return domain.Invalidf("invalid request body")
	}
	return nil
}

func queryInt(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, domain.Invalidf("%s must be a positive integer", name)
	}
	return n, nil
}

// pageRequest reads page, take and keyword from the query string.
func pageRequest(r *http.Request) (domain.PageRequest, error) {
	page, err := queryInt(r, "page")
	if err != nil {
		return domain.PageRequest{}, err
	}
	take, err := queryInt(r, "take")
	if err != nil {
		return domain.PageRequest{}, err
	}
	return domain.PageRequest{
		Page:    page,
		Take:    take,
		Keyword: r.URL.Query().Get("keyword"),
	}.Normalize(), nil
}

// queryList accepts both repeated and comma-separated values.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
