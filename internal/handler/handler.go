package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjcbulldog/xerodb/internal/repository"
	"github.com/sjcbulldog/xerodb/internal/service"
)

// Handlers is the aggregate wired into the router.
type Handlers struct {
	Auth  *AuthHandler
	User  *UserHandler
	Robot *RobotHandler
	Part  *PartHandler
}

func NewHandlers(svc *service.Services, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Auth:  NewAuthHandler(svc.Auth),
		User:  NewUserHandler(repos.User),
		Robot: NewRobotHandler(svc.Robot, svc.Part, svc.Tree, svc.Order, svc.Lateness),
		Part:  NewPartHandler(svc.Part, svc.Drawing, repos.Audit),
	}
}

// Response is the common envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error envelope; code is HTTP status * 100 + detail.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = http.StatusInternalServerError
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// fail maps domain errors onto the envelope. Validation failures carry every
// offending field so the UI can flag them all at once.
func fail(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, Response{
			Code:    40001,
			Message: vErr.Error(),
			Data:    gin.H{"fields": vErr.Fields},
		})
	case errors.Is(err, service.ErrIllegalTransition):
		Error(c, 40300, err.Error())
	case errors.Is(err, service.ErrUnknownUser):
		Error(c, 40101, err.Error())
	case errors.Is(err, service.ErrRobotNotFound),
		errors.Is(err, service.ErrPartNotFound),
		errors.Is(err, service.ErrParentNotFound),
		errors.Is(err, repository.ErrNotFound):
		Error(c, 40400, err.Error())
	case errors.Is(err, service.ErrNotAnAssembly):
		Error(c, 40002, err.Error())
	default:
		Error(c, 50000, err.Error())
	}
}
