package server

import (
	stderrors "errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/matzehuels/treetable/pkg/dnd/gesture"
	terrors "github.com/matzehuels/treetable/pkg/errors"
)

// problem is an RFC 7807 error body.
type problem struct {
	Title  string       `json:"title"`
	Status int          `json:"status"`
	Code   terrors.Code `json:"code,omitempty"`
	Detail string       `json:"detail,omitempty"`
}

// respondJSON marshals before writing headers so an encoding failure still
// produces a clean 500.
func respondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		respondProblem(w, http.StatusInternalServerError, terrors.ErrCodeInternal, "failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func respondProblem(w http.ResponseWriter, status int, code terrors.Code, detail string) {
	payload, _ := json.Marshal(problem{
		Title:  http.StatusText(status),
		Status: status,
		Code:   code,
		Detail: detail,
	})
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// respondError maps an error to a status code and writes a problem body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondProblem(w, status, code, "internal server error")
		return
	}
	respondProblem(w, status, code, terrors.UserMessage(err))
}

func statusFor(err error) (int, terrors.Code) {
	switch {
	case stderrors.Is(err, gesture.ErrNoGesture):
		return http.StatusConflict, terrors.ErrCodeIllegalMove
	case stderrors.Is(err, gesture.ErrUnknownSource):
		return http.StatusNotFound, terrors.ErrCodeNotFound
	case terrors.IsValidation(err):
		return http.StatusBadRequest, terrors.GetCode(err)
	}
	switch code := terrors.GetCode(err); code {
	case terrors.ErrCodeNotFound, terrors.ErrCodeFileNotFound:
		return http.StatusNotFound, code
	case terrors.ErrCodeIllegalMove:
		return http.StatusConflict, code
	case terrors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType, code
	}
	return http.StatusInternalServerError, terrors.ErrCodeInternal
}

// decode reads a JSON body into dst and runs its validation.
func decode(w http.ResponseWriter, r *http.Request, dst interface{ Validate() error }) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	if err := dst.Validate(); err != nil {
		return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "invalid request")
	}
	return nil
}
