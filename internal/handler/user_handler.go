package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sjcbulldog/xerodb/internal/repository"
)

type UserHandler struct {
	users *repository.UserRepository
}

func NewUserHandler(users *repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// List returns the active users, for the assignment pickers.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListActive(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, users)
}
