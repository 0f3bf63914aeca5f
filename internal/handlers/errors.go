package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/justsurfingit/nextstep-web/internal/apiclient"
	"github.com/justsurfingit/nextstep-web/internal/services"
)

var errBadID = errors.New("invalid id")

// failureStatus picks the HTTP status for a page rendered with an error.
// Backend 4xx pass through, backend 5xx and transport failures become 502,
// and local validation failures are 400.
func failureStatus(err error) int {
	var apiErr *apiclient.APIError
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= http.StatusInternalServerError {
			return http.StatusBadGateway
		}
		return apiErr.StatusCode
	case errors.As(err, &verrs),
		errors.Is(err, errBadID),
		errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrInvalidUCID),
		errors.Is(err, services.ErrNotPDF),
		errors.Is(err, services.ErrUploadTooLarge),
		errors.Is(err, services.ErrUnknownDecision):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errBadID
	}
	return uint(id), nil
}
