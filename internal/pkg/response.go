package pkg

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/bilemo/internal/domain"
)

// Response is the standard JSON envelope for API responses.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationErrorResponse is the JSON envelope for validation error responses.
type ValidationErrorResponse struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors"`
}

// Success sends a 200 JSON response with the given data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

// Created sends a 201 JSON response and sets the Location header when location
// is not empty.
func Created(c *gin.Context, location string, data any) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

// NoContent sends an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes err as a JSON envelope with the status of its category.
// Errors that are not AppErrors never leak their text: clients see
// "internal error". An AppError with Fields is written as a field list.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		c.JSON(status, Response{Code: status, Message: "internal error"})
		return
	}
	if len(appErr.Fields) > 0 {
		c.JSON(status, ValidationErrorResponse{Code: status, Message: appErr.Message, Errors: appErr.Fields})
		return
	}
	c.JSON(status, Response{Code: status, Message: appErr.Message})
}

// List sends a 200 JSON response for a paginated listing. The page items are
// rendered under name next to the "_page" metadata block.
func List[T any](c *gin.Context, name string, items []T, meta domain.PageMeta) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data: gin.H{
			"_page": meta,
			name:    items,
		},
	})
}

// ValidationError answers 400 for a validation failure that was not
// produced by BindAndValidate. Field names fall back to the lowercased Go
// field name since the target struct is unknown.
func ValidationError(c *gin.Context, err error) {
	Error(c, toValidationError(err, nil))
}

// BindAndValidate binds the request body into obj. When binding or
// validation fails it writes the 400 response itself, naming fields by
// their json or form tag, and returns false:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	err := c.ShouldBind(obj)
	if err != nil {
		Error(c, toValidationError(err, obj))
	}
	return err == nil
}

// toValidationError turns validator failures into a field list. Anything
// else, such as malformed JSON, is a plain "bad request".
func toValidationError(err error, obj any) *domain.AppError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.NewAppError(domain.CodeValidation, "bad request", err)
	}

	names := wireNames(obj)
	fields := make([]domain.FieldError, len(ve))
	for i, fe := range ve {
		name, ok := names[fe.StructField()]
		if !ok {
			name = strings.ToLower(fe.Field())
		}
		fields[i] = domain.FieldError{Field: name, Message: fieldMessage(fe)}
	}
	return domain.NewValidationError(fields...)
}

// fixedMessages covers the tags whose message does not depend on a param.
var fixedMessages = map[string]string{
	"required":   "This field is required",
	"email":      "Must be a valid email address",
	"alphanum":   "Must contain only letters and digits",
	"personname": "Must contain only letters, spaces, hyphens or apostrophes",
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	numeric := isNumeric(fe.Kind())
	switch tag := fe.Tag(); {
	case tag == "gte", tag == "min" && numeric:
		return "Must be greater than or equal to " + fe.Param()
	case tag == "max" && numeric:
		return "Must be less than or equal to " + fe.Param()
	case tag == "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case tag == "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case tag == "oneof":
		return "Must be one of: " + fe.Param()
	case fe.Param() != "":
		return tag + "=" + fe.Param()
	default:
		return tag
	}
}

func isNumeric(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}

// wireNames maps the Go field names of obj's struct type to the names
// clients send: the json tag, else the form tag. It returns nil for
// anything that is not a struct or pointer to one.
func wireNames(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	names := make(map[string]string, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		for _, key := range []string{"json", "form"} {
			if name := tagName(f.Tag.Get(key)); name != "" {
				names[f.Name] = name
				break
			}
		}
	}
	return names
}

// tagName returns the name part of a json or form tag, or "" when the tag
// is absent, skipped with "-", or only carries options.
func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
