package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nextbase/internal/app"
	"nextbase/internal/repository"
	"nextbase/internal/transport/http/response"
	"nextbase/internal/validator"
)

type ProductHandler struct {
	productService *app.ProductService
}

func NewProductHandler(productService *app.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List pages products; ?category_id= restricts the page to one category.
func (h *ProductHandler) List(c *gin.Context) {
	opts, ok := pageOptions(c, repository.ProductSource)
	if !ok {
		return
	}

	var categoryID *int64
	if raw, present := c.GetQuery("category_id"); present && raw != "" {
		res := validator.ValidateID(raw)
		if !res.Valid {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "category_id must be a positive integer")
			return
		}
		categoryID = &res.ID
	}

	page, err := h.productService.List(c.Request.Context(), opts, categoryID)
	if err != nil {
		writeServiceError(c, err, "list products failed")
		return
	}
	response.OK(c, page, "")
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "get product failed")
		return
	}
	response.OK(c, product, "")
}

func (h *ProductHandler) Create(c *gin.Context) {
	input, ok := bindProduct(c)
	if !ok {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), input)
	if err != nil {
		writeServiceError(c, err, "create product failed")
		return
	}
	response.Created(c, product, "product created")
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	input, ok := bindProduct(c)
	if !ok {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, input)
	if err != nil {
		writeServiceError(c, err, "update product failed")
		return
	}
	response.OK(c, product, "product updated")
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "delete product failed")
		return
	}
	response.OK(c, gin.H{"id": id}, "product deleted")
}

func bindProduct(c *gin.Context) (repository.ProductFields, bool) {
	var req validator.ProductInput
	if !bindJSON(c, &req) {
		return repository.ProductFields{}, false
	}
	req.Name = validator.SanitizeString(req.Name)
	req.Description = sanitizeOptional(req.Description)

	if !checkValid(c, validator.ValidateProduct(req)) {
		return repository.ProductFields{}, false
	}

	fields := repository.ProductFields{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  req.CategoryID,
	}
	if req.Stock != nil {
		fields.Stock = *req.Stock
	}
	return fields, true
}
