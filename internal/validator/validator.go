// Package validator checks request shapes before they reach a service. Every
// function is total: it never panics and always returns a Result.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// maxPrice is the first value a DECIMAL(10,2) column cannot hold.
var maxPrice = decimal.NewFromInt(100_000_000)

var validate = newValidate()

type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Message joins the collected errors for a 400 response body.
func (r Result) Message() string {
	return strings.Join(r.Errors, ", ")
}

type UserInput struct {
	Username string `json:"username" validate:"notblank,min=3,max=50"`
	Email    string `json:"email" validate:"notblank,email_shape"`
}

type ProductInput struct {
	Name        string           `json:"name" validate:"notblank,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,gt=0"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *int64           `json:"category_id" validate:"omitempty,gt=0"`
}

type CategoryInput struct {
	Name        string  `json:"name" validate:"notblank,max=100"`
	Description *string `json:"description"`
}

type PaginationResult struct {
	Result
	Page  int
	Limit int
}

type IDResult struct {
	Result
	ID int64
}

type SortResult struct {
	Result
	OrderBy   string
	Direction string
}

var messages = map[string]string{
	"UserInput.Username.notblank":   "username is required",
	"UserInput.Username.min":        "username must be between 3 and 50 characters",
	"UserInput.Username.max":        "username must be between 3 and 50 characters",
	"UserInput.Email.notblank":      "email is required",
	"UserInput.Email.email_shape":   "email format is invalid",
	"ProductInput.Name.notblank":    "product name is required",
	"ProductInput.Name.max":         "product name must not exceed 200 characters",
	"ProductInput.Price.required":   "price must be a number greater than 0",
	"ProductInput.Price.gt":         "price must be a number greater than 0",
	"ProductInput.Price.price":      "price must have at most 2 decimal places and be less than 100000000",
	"ProductInput.Stock.gte":        "stock must be a non-negative integer",
	"ProductInput.CategoryID.gt":    "category_id must be a positive integer",
	"CategoryInput.Name.notblank":   "category name is required",
	"CategoryInput.Name.max":        "category name must not exceed 100 characters",
	"pagination.Page.gte":           "page must be an integer greater than 0",
	"pagination.Limit.gte":          "limit must be an integer between 1 and 100",
	"pagination.Limit.lte":          "limit must be an integer between 1 and 100",
	"FileMeta.Size.lte":             "file size must not exceed 10MB",
	"FileMeta.ContentType.required": "unsupported file type",
	"FileMeta.ContentType.oneof":    "unsupported file type",
}

func newValidate() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterStructValidation(productPrice, ProductInput{})
	return v
}

// productPrice runs after the field rules so only positive prices reach it.
func productPrice(sl validator.StructLevel) {
	in, ok := sl.Current().Interface().(ProductInput)
	if !ok || in.Price == nil || !in.Price.IsPositive() {
		return
	}
	if !in.Price.Equal(in.Price.Round(2)) || in.Price.GreaterThanOrEqual(maxPrice) {
		sl.ReportError(in.Price, "price", "Price", "price", "")
	}
}

func ValidateUser(in UserInput) Result {
	return check(in)
}

func ValidateProduct(in ProductInput) Result {
	return check(in)
}

func ValidateCategory(in CategoryInput) Result {
	return check(in)
}

type pagination struct {
	Page  int `validate:"gte=1"`
	Limit int `validate:"gte=1,lte=100"`
}

// ValidatePagination parses the raw page/limit query values. Empty values take the
// defaults 1 and 10; out-of-range values are reported, never clamped.
func ValidatePagination(page, limit string) PaginationResult {
	p := pagination{Page: parseIntOr(page, 1), Limit: parseIntOr(limit, 10)}
	return PaginationResult{Result: check(p), Page: p.Page, Limit: p.Limit}
}

func ValidateID(raw string) IDResult {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return IDResult{Result: invalid("id must be a positive integer")}
	}
	return IDResult{Result: Result{Valid: true, Errors: []string{}}, ID: id}
}

// ValidateSort checks the optional order_by/order query values against the
// sortable keys of a listing. Empty values are accepted and left empty.
func ValidateSort(allowed []string, orderBy, direction string) SortResult {
	res := SortResult{OrderBy: strings.TrimSpace(orderBy), Direction: strings.ToUpper(strings.TrimSpace(direction))}
	var errs []string
	if res.OrderBy != "" && !slices.Contains(allowed, res.OrderBy) {
		sorted := slices.Clone(allowed)
		slices.Sort(sorted)
		errs = append(errs, fmt.Sprintf("order_by must be one of: %s", strings.Join(sorted, ", ")))
	}
	if res.Direction != "" && res.Direction != "ASC" && res.Direction != "DESC" {
		errs = append(errs, "order must be asc or desc")
	}
	res.Result = result(errs)
	return res
}

// SanitizeString trims the input and strips angle brackets.
func SanitizeString(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(s))
}

func check(in any) Result {
	err := validate.Struct(in)
	if err == nil {
		return result(nil)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalid(err.Error())
	}

	errs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fe.StructNamespace() + "." + fe.Tag()
		msg, ok := messages[key]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
		}
		if !slices.Contains(errs, msg) {
			errs = append(errs, msg)
		}
	}
	return result(errs)
}

func result(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func invalid(msg string) Result {
	return Result{Valid: false, Errors: []string{msg}}
}

func parseIntOr(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
