package interfaces

import (
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/logger"
)

const maxBodyBytes = 1 << 20

type RespondJSONFunc func(w http.ResponseWriter, status int, payload interface{})
type RespondErrorFunc func(w http.ResponseWriter, status int, message string, errors ...[]string)

// responder carries the injected response writers shared by every handler.
type responder struct {
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func newResponder(respondJSON RespondJSONFunc, respondError RespondErrorFunc) responder {
	if respondJSON == nil {
		panic("RespondJSON function must not be nil")
	}
	if respondError == nil {
		panic("RespondError function must not be nil")
	}
	return responder{respondJSON: respondJSON, respondError: respondError}
}

// requireUser answers 401 and returns false when the request carries no
// authenticated user.
func (h responder) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

func (h responder) decodePayload(w http.ResponseWriter, r *http.Request) (domain.Payload, bool) {
	payload, err := domain.DecodePayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.respondServiceError(w, r, err)
		return nil, false
	}
	return payload, true
}

// respondServiceError maps an error kind to its status. Internal failures are
// logged with their cause; the caller only ever sees the kind's message.
func (h responder) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := financeErrors.KindOf(err)
	status := kind.Status()
	if status >= http.StatusInternalServerError {
		log := logger.FromContext(r.Context())
		log.Error().
			Err(err).
			Str("kind", kind.String()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("finance request failed")
	}
	h.respondError(w, status, financeErrors.PublicMessage(err))
}

func (h responder) respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
