package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Message string `json:"message"`
}

func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func FieldErrors(c *gin.Context, status int, messages ...string) {
	errs := make([]FieldError, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, FieldError{Message: m})
	}
	c.JSON(status, gin.H{"errors": errs})
}

func ServerError(c *gin.Context) {
	Message(c, http.StatusInternalServerError, "Server Error")
}

// Validation maps a binding failure to the client error body. Every failing
// field is reported, in struct-field order, using the declared per-field
// message. Anything that is not a field failure (bad JSON, wrong types)
// collapses to a single generic entry.
func Validation(c *gin.Context, err error, messages map[string]string) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		FieldErrors(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	collected := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg, ok := messages[fe.Field()]; ok {
			collected = append(collected, msg)
			continue
		}
		collected = append(collected, fe.Field()+" is invalid")
	}
	FieldErrors(c, http.StatusBadRequest, collected...)
}
