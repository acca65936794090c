package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/service"
)

// Error keys understood by existing API clients.
const (
	KeyIDExists   = "idexists"
	KeyIDNull     = "idnull"
	KeyIDInvalid  = "idinvalid"
	KeyIDNotFound = "idnotfound"
	KeyValidation = "validation"
	KeyNotFound   = "notfound"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error      string `json:"error"`
	ErrorKey   string `json:"errorKey,omitempty"`
	EntityName string `json:"entityName,omitempty"`
	Field      string `json:"field,omitempty"`
}

// respondError maps a service error onto a status code and error body.
// Unexpected errors are logged and reported as 500 without detail.
func respondError(c echo.Context, log zerolog.Logger, entity string, err error) error {
	body := errorBody{Error: err.Error(), EntityName: entity}
	status := http.StatusBadRequest
	var verr *model.ValidationError
	switch {
	case errors.Is(err, service.ErrIDAlreadyExists):
		body.Error = "A new " + entity + " cannot already have an ID"
		body.ErrorKey = KeyIDExists
	case errors.Is(err, service.ErrIDNull):
		body.ErrorKey = KeyIDNull
	case errors.Is(err, service.ErrIDInvalid):
		body.ErrorKey = KeyIDInvalid
	case errors.Is(err, service.ErrIDNotFound):
		body.ErrorKey = KeyIDNotFound
	case errors.As(err, &verr):
		body.ErrorKey = KeyValidation
		body.Field = verr.Field
	case errors.Is(err, service.ErrValidationFailed):
		body.ErrorKey = KeyValidation
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		body.ErrorKey = KeyNotFound
	case errors.Is(err, service.ErrLoginExists):
		status = http.StatusConflict
		body.EntityName = "user"
		body.ErrorKey = "userexists"
	case errors.Is(err, service.ErrBadCredentials):
		status = http.StatusUnauthorized
		body.EntityName = ""
	default:
		log.Error().Err(err).Str("entity", entity).Msg("request failed")
		status = http.StatusInternalServerError
		body = errorBody{Error: "internal server error"}
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorBody{Error: msg})
}
