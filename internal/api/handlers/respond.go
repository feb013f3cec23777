package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	middleware "github.com/markdave123-py/joba/internal/api/middlewares"
	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/repositories"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto HTTP statuses and emits the
// client-safe detail. The wrapped cause only goes to the log.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	if kind, ok := errs.KindOf(err); ok {
		switch kind {
		case errs.KindValidation:
			status = http.StatusBadRequest
		case errs.KindAuthentication:
			status = http.StatusUnauthorized
		case errs.KindNotFound:
			status = http.StatusNotFound
		case errs.KindConflict:
			status = http.StatusConflict
		case errs.KindRemoteTimeout:
			status = http.StatusGatewayTimeout
		}
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"detail": errs.Detail(err)})
}

// decodeBody decodes and validates a JSON request body.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Validation("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); ok {
			return nil
		}
		return errs.Validation("invalid request body: " + err.Error())
	}
	return nil
}

// currentUserID pulls the authenticated identity attached by the auth
// middleware.
func currentUserID(r *http.Request) (string, error) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		return "", errs.Authentication("could not validate credentials")
	}
	return id, nil
}

// listOptions reads the shared pagination and status query parameters.
func listOptions(r *http.Request) repositories.ListOptions {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return repositories.ListOptions{
		Page:    page,
		PerPage: perPage,
		Status:  q.Get("status"),
	}
}
