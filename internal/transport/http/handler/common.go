package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nextbase/internal/app"
	"nextbase/internal/repository"
	"nextbase/internal/transport/http/middleware"
	"nextbase/internal/transport/http/response"
	"nextbase/internal/validator"
)

const invalidPayload = "invalid request payload"

func parseID(c *gin.Context) (int64, bool) {
	res := validator.ValidateID(c.Param("id"))
	if !res.Valid {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, res.Message())
		return 0, false
	}
	return res.ID, true
}

// pageOptions reads page, limit, order_by and order from the query string.
func pageOptions(c *gin.Context, src repository.Source) (repository.PageOptions, bool) {
	page := validator.ValidatePagination(c.Query("page"), c.Query("limit"))
	sort := validator.ValidateSort(src.SortKeys(), c.Query("order_by"), c.Query("order"))

	errs := append(append([]string{}, page.Errors...), sort.Errors...)
	if len(errs) > 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, validator.Result{Errors: errs}.Message())
		return repository.PageOptions{}, false
	}

	return repository.PageOptions{
		Page:      page.Page,
		Limit:     page.Limit,
		OrderBy:   sort.OrderBy,
		Direction: repository.Direction(sort.Direction),
	}, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, invalidPayload)
		return false
	}
	return true
}

func checkValid(c *gin.Context, res validator.Result) bool {
	if !res.Valid {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, res.Message())
		return false
	}
	return true
}

// writeServiceError maps service and repository errors to the envelope. Storage
// failures are logged with their cause and reported with the generic fallback message.
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrUsernameExists),
		errors.Is(err, app.ErrEmailExists),
		errors.Is(err, app.ErrCategoryExists):
		response.Error(c, http.StatusBadRequest, response.CodeAlreadyExists, err.Error())
	case errors.Is(err, app.ErrUnknownCategory):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, repository.ErrInvalidSort):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	default:
		log.Printf("%s: request_id=%s err=%v", fallback, c.GetString(middleware.ContextRequestIDKey), err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
