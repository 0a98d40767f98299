package handler

import (
	"net/http"

	"github.com/rushilbhatia3/FMS/internal/service"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct{ svc service.StatusService }

func NewStatusHandler(svc service.StatusService) *StatusHandler {
	return &StatusHandler{svc: svc}
}

func (h *StatusHandler) ItemStatus(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ItemStatus(c.Request.Context(), actor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StatusHandler) CurrentOutByHolder(c *gin.Context) {
	resp, err := h.svc.CurrentOutByHolder(c.Request.Context(), actor(c), c.Query("holder"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StatusHandler) Overdue(c *gin.Context) {
	resp, err := h.svc.Overdue(c.Request.Context(), actor(c), c.Query("holder"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StatusHandler) StatsSummary(c *gin.Context) {
	resp, err := h.svc.StatsSummary(c.Request.Context(), actor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
