package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/erd2prisma/internal/responses"
	"github.com/tordrt/erd2prisma/internal/store"
)

// statusFor maps store errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrTableNotFound),
		errors.Is(err, store.ErrFieldNotFound),
		errors.Is(err, store.ErrRelationNotFound),
		errors.Is(err, store.ErrEnumNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateEnum),
		errors.Is(err, store.ErrDuplicateRelation):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func fail(c *gin.Context, err error, message string) {
	responses.Fail(c, statusFor(err), err, message)
}

// fieldIndex parses the :index path parameter
func fieldIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid field index")
		return 0, false
	}
	return index, true
}
