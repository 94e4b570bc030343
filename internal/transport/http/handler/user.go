package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"nextbase/internal/app"
	"nextbase/internal/repository"
	"nextbase/internal/transport/http/response"
	"nextbase/internal/validator"
)

type UserHandler struct {
	userService *app.UserService
}

func NewUserHandler(userService *app.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *gin.Context) {
	opts, ok := pageOptions(c, repository.UserSource)
	if !ok {
		return
	}

	page, err := h.userService.List(c.Request.Context(), opts)
	if err != nil {
		writeServiceError(c, err, "list users failed")
		return
	}
	response.OK(c, page, "")
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "get user failed")
		return
	}
	response.OK(c, user, "")
}

func (h *UserHandler) Create(c *gin.Context) {
	input, ok := bindUser(c)
	if !ok {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), input)
	if err != nil {
		writeServiceError(c, err, "create user failed")
		return
	}
	response.Created(c, user, "user created")
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	input, ok := bindUser(c)
	if !ok {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, input)
	if err != nil {
		writeServiceError(c, err, "update user failed")
		return
	}
	response.OK(c, user, "user updated")
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "delete user failed")
		return
	}
	response.OK(c, gin.H{"id": id}, "user deleted")
}

func bindUser(c *gin.Context) (repository.UserFields, bool) {
	var req validator.UserInput
	if !bindJSON(c, &req) {
		return repository.UserFields{}, false
	}
	req.Username = validator.SanitizeString(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if !checkValid(c, validator.ValidateUser(req)) {
		return repository.UserFields{}, false
	}
	return repository.UserFields{Username: req.Username, Email: req.Email}, true
}
