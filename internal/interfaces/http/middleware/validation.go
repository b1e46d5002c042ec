package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/foodcourt/pos/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 -]{5,18}[0-9]$`)

	setupOnce sync.Once
)

func init() {
	SetupValidator()
}

// SetupValidator names fields after their json (or form) tag and registers
// the gstin and phone tags. Safe to call more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("gstin", matches(gstinPattern))
		_ = v.RegisterValidation("phone", matches(phonePattern))
	})
}

func fieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
	}
	return name
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(strings.ToUpper(fl.Field().String()))
	}
}

// ValidationDetails flattens validator errors into field/message pairs. JSON
// syntax and type errors yield no details.
func ValidationDetails(err error) []dto.ValidationDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]dto.ValidationDetail, len(verrs))
	for i, e := range verrs {
		details[i] = dto.ValidationDetail{Field: e.Field(), Message: validationMessage(e)}
	}
	return details
}

// HandleValidationError answers 400 VALIDATION_FAILED, or 413 when the body
// hit the size cap. The message names the first rejected field so a toast is
// meaningful on its own.
func HandleValidationError(c *gin.Context, err error) {
	if isBodyTooLarge(err) {
		abortWithError(c, dto.ErrCodePayloadTooLarge, payloadTooLargeMessage)
		return
	}
	details := ValidationDetails(err)
	message := "Request validation failed"
	if len(details) > 0 {
		message = details[0].Field + ": " + details[0].Message
	}
	resp := dto.NewValidationErrorResponse(message, details).WithRequestID(RequestIDFrom(c))
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

var fixedMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"numeric":  "Must be numeric",
	"gstin":    "Invalid GSTIN",
	"phone":    "Invalid phone number",
	"dive":     "Invalid list entry",
}

var boundMessages = map[string]string{
	"oneof": "Must be one of: ",
	"gte":   "Must be greater than or equal to ",
	"lte":   "Must be less than or equal to ",
	"gt":    "Must be greater than ",
	"lt":    "Must be less than ",
}

func validationMessage(e validator.FieldError) string {
	if msg, ok := fixedMessages[e.Tag()]; ok {
		return msg
	}
	if prefix, ok := boundMessages[e.Tag()]; ok {
		return prefix + e.Param()
	}

	unit := ""
	switch e.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Map:
		unit = " entries"
	}
	switch e.Tag() {
	case "min":
		return "Must be at least " + e.Param() + unit
	case "max":
		return "Must be at most " + e.Param() + unit
	case "len":
		return "Must be exactly " + e.Param() + unit
	}
	return "Invalid value"
}
