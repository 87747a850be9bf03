package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Error is the single error type crossing layer boundaries. Operational
// errors carry a client-safe message; anything else is collapsed into a
// generic 500 by the error middleware outside development.
type Error struct {
	Code        int               `json:"-"`
	Status      string            `json:"status"`
	Message     string            `json:"message"`
	Fields      map[string]string `json:"fields,omitempty"`
	Operational bool              `json:"-"`
	Err         error             `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// statusWord returns "fail" for client errors and "error" for server errors.
func statusWord(code int) string {
	if code >= 400 && code < 500 {
		return "fail"
	}
	return "error"
}

func New(code int, message string) *Error {
	return &Error{
		Code:        code,
		Status:      statusWord(code),
		Message:     message,
		Operational: true,
	}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(resource string) *Error {
	return New(http.StatusNotFound, fmt.Sprintf("No %s found with that ID", resource))
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Internal wraps an unanticipated error. It is not operational: the
// middleware hides the message in production and logs the cause.
func Internal(err error) *Error {
	return &Error{
		Code:        http.StatusInternalServerError,
		Status:      statusWord(http.StatusInternalServerError),
		Message:     "Something went wrong",
		Operational: false,
		Err:         err,
	}
}

// Validation converts validator.ValidationErrors into a 400 with
// per-field messages.
func Validation(err error) *Error {
	appErr := &Error{
		Code:        http.StatusBadRequest,
		Status:      statusWord(http.StatusBadRequest),
		Message:     "Invalid input data",
		Fields:      map[string]string{},
		Operational: true,
		Err:         err,
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			appErr.Fields[strings.ToLower(fe.Field())] = validationMessage(fe)
		}
	}

	return appErr
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return fmt.Sprintf("must match %s", strings.ToLower(fe.Param()))
	case "ltfield":
		return fmt.Sprintf("must be below %s", strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("failed validation on %q", fe.Tag())
	}
}

// FromDatabase maps driver errors into operational variants at the data
// access boundary. Callers never inspect driver errors themselves.
func FromDatabase(err error, resource string) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound(resource)
	}

	if mongo.IsDuplicateKeyError(err) {
		return Conflict(fmt.Sprintf("Duplicate field value for %s: please use another value", duplicateKeyField(err)))
	}

	if errors.Is(err, primitive.ErrInvalidHex) {
		return BadRequest("Invalid ID format")
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return Validation(err)
	}

	return Internal(err)
}

// duplicateKeyField digs the offending index field out of a write
// exception. Falls back to the resource-agnostic "field".
func duplicateKeyField(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, w := range we.WriteErrors {
			if w.Code == 11000 {
				if f := parseIndexField(w.Message); f != "" {
					return f
				}
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		if f := parseIndexField(ce.Message); f != "" {
			return f
		}
	}
	return "field"
}

func parseIndexField(msg string) string {
	// Driver message shape: ... index: email_1 dup key: { email: "x" } ...
	const marker = "index: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexAny(rest, " _"); j > 0 {
		return rest[:j]
	}
	return ""
}

// FromToken maps jwt verification failures into 401 responses.
func FromToken(err error) *Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return Unauthorized("Your token has expired. Please log in again")
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return Unauthorized("Invalid token. Please log in again")
	default:
		return Unauthorized("Invalid token. Please log in again")
	}
}

// As extracts an *Error from any error chain, wrapping unknown errors as
// internal ones so the middleware always has a normalized shape.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
