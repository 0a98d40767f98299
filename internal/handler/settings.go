package handler

import (
	"net/http"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct{ svc service.SettingsService }

func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.SettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
