package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"nextbase/internal/app"
	"nextbase/internal/repository"
	"nextbase/internal/transport/http/response"
	"nextbase/internal/validator"
)

type CategoryHandler struct {
	categoryService *app.CategoryService
}

func NewCategoryHandler(categoryService *app.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List pages categories; ?all=true returns every category ordered by name instead.
func (h *CategoryHandler) List(c *gin.Context) {
	if all, _ := strconv.ParseBool(c.Query("all")); all {
		categories, err := h.categoryService.ListAll(c.Request.Context())
		if err != nil {
			writeServiceError(c, err, "list categories failed")
			return
		}
		response.OK(c, categories, "")
		return
	}

	opts, ok := pageOptions(c, repository.CategorySource)
	if !ok {
		return
	}
	page, err := h.categoryService.List(c.Request.Context(), opts)
	if err != nil {
		writeServiceError(c, err, "list categories failed")
		return
	}
	response.OK(c, page, "")
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "get category failed")
		return
	}
	response.OK(c, category, "")
}

func (h *CategoryHandler) Create(c *gin.Context) {
	input, ok := bindCategory(c)
	if !ok {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), input)
	if err != nil {
		writeServiceError(c, err, "create category failed")
		return
	}
	response.Created(c, category, "category created")
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	input, ok := bindCategory(c)
	if !ok {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, input)
	if err != nil {
		writeServiceError(c, err, "update category failed")
		return
	}
	response.OK(c, category, "category updated")
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "delete category failed")
		return
	}
	response.OK(c, gin.H{"id": id}, "category deleted")
}

func bindCategory(c *gin.Context) (repository.CategoryFields, bool) {
	var req validator.CategoryInput
	if !bindJSON(c, &req) {
		return repository.CategoryFields{}, false
	}
	req.Name = validator.SanitizeString(req.Name)
	req.Description = sanitizeOptional(req.Description)

	if !checkValid(c, validator.ValidateCategory(req)) {
		return repository.CategoryFields{}, false
	}
	return repository.CategoryFields{Name: req.Name, Description: req.Description}, true
}

func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := validator.SanitizeString(*s)
	return &clean
}
