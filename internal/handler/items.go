package handler

import (
	"net/http"

	"github.com/rushilbhatia3/FMS/internal/apierror"
	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemsHandler struct{ svc service.ItemService }

func NewItemsHandler(svc service.ItemService) *ItemsHandler {
	return &ItemsHandler{svc: svc}
}

func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ItemsHandler) List(c *gin.Context) {
	var filter dto.ItemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) Archive(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if err := h.svc.Archive(c.Request.Context(), actor(c), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ItemsHandler) Restore(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Restore(c.Request.Context(), actor(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) Stats(c *gin.Context) {
	resp, err := h.svc.Stats(c.Request.Context(), actor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
