package handler

import (
	"net/http"

	"github.com/rushilbhatia3/FMS/internal/apierror"
	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/service"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct{ svc service.UserService }

func NewUsersHandler(svc service.UserService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UsersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsersHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsersHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate refuses to act on the caller's own account.
func (h *UsersHandler) Deactivate(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if actor(c).ID == id {
		c.JSON(http.StatusConflict, apierror.New("cannot deactivate your own account"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UsersHandler) Reactivate(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UsersHandler) ResetPassword(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.ResetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), id, req.Password); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
