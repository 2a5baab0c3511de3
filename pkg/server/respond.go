package server

import (
	"encoding/json"
	"errors"
	"net/http"

	derrors "github.com/matzehuels/magdock/pkg/errors"
	"github.com/matzehuels/magdock/pkg/session"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	if errors.Is(err, session.ErrExpired) {
		return http.StatusGone
	}
	switch derrors.GetCode(err) {
	case derrors.ErrCodeInvalidInput, derrors.ErrCodeInvalidFormat,
		derrors.ErrCodeInvalidViewport, derrors.ErrCodeInvalidManifest,
		derrors.ErrCodeInvalidBounce:
		return http.StatusBadRequest
	}
	if derrors.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(derrors.GetCode(err))
	msg := derrors.UserMessage(err)
	switch {
	case errors.Is(err, session.ErrExpired):
		code, msg = "SESSION_EXPIRED", "session expired"
	case status == http.StatusInternalServerError:
		s.logger.Error("handler failed", "path", r.URL.Path, "err", err)
		if code == "" {
			code = string(derrors.ErrCodeInternal)
		}
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
