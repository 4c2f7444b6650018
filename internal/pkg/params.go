package pkg

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/bilemo/internal/domain"
)

// ParseID reads the positive integer path parameter name. Anything else is a
// validation error on that parameter.
func ParseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, domain.NewValidationError(domain.FieldError{
			Field:   name,
			Message: "Must be a positive integer",
		})
	}
	return uint(id), nil
}
