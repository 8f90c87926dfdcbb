package httputil

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/brightsmile/clinic-api/pkg/errors"
)

// RespondWithSuccess sends a success envelope, merging payload keys
// alongside the success flag so callers see {success: true, booking: ...}.
func RespondWithSuccess(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// RespondWithError maps a domain error onto an HTTP status and the
// {success: false, message} envelope. Unrecognized errors are treated as
// internal failures and never leak their cause to the client.
func RespondWithError(c *gin.Context, err error) {
	status := statusFor(errors.CodeOf(err))

	message := "internal server error"
	if status != http.StatusInternalServerError {
		message = err.Error()
	}

	c.Error(err)
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrValidation:
		return http.StatusBadRequest
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrInvalidTransition:
		return http.StatusConflict
	case errors.ErrAuthentication:
		return http.StatusUnauthorized
	case errors.ErrUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// BindJSON binds the request body into obj and converts binding failures
// into validation errors that name the offending JSON field.
func BindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field := jsonFieldName(obj, verrs[0].StructField())
			return errors.Validation(field, field+" is invalid or missing")
		}
		return errors.Validation("body", "invalid request body")
	}
	return nil
}

func jsonFieldName(obj interface{}, structField string) string {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return structField
}
