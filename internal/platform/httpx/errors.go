package httpx

import (
	"net/http"

	"github.com/aegis-admin/aegis-admin/internal/apperr"
)

// RespondError maps a service error to an RFC7807 response. The error kind
// decides the status; the message is preserved as the display string.
func RespondError(w http.ResponseWriter, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated:
		Problem(w, http.StatusUnauthorized, "Unauthenticated", detail)
	case apperr.KindForbidden:
		Problem(w, http.StatusForbidden, "Forbidden", detail)
	case apperr.KindValidation:
		JSON(w, http.StatusUnprocessableEntity, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusUnprocessableEntity,
			Detail: detail,
			Errors: apperr.FieldsOf(err),
		})
	case apperr.KindNotFound:
		Problem(w, http.StatusNotFound, "Not Found", detail)
	case apperr.KindInvalidCredentials:
		Problem(w, http.StatusUnauthorized, "Invalid Credentials", detail)
	case apperr.KindTimeout:
		Problem(w, http.StatusGatewayTimeout, "Timeout", detail)
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
