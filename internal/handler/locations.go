package handler

import (
	"net/http"

	"github.com/rushilbhatia3/FMS/internal/apierror"
	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/service"

	"github.com/gin-gonic/gin"
)

// LocationsHandler serves both levels of the hierarchy: /api/systems and
// /api/shelves.
type LocationsHandler struct{ svc service.LocationService }

func NewLocationsHandler(svc service.LocationService) *LocationsHandler {
	return &LocationsHandler{svc: svc}
}

func (h *LocationsHandler) CreateSystem(c *gin.Context) {
	var req dto.CreateSystemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSystem(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LocationsHandler) ListSystems(c *gin.Context) {
	includeDeleted := c.Query("include_deleted") == "true"
	resp, err := h.svc.ListSystems(c.Request.Context(), includeDeleted)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LocationsHandler) GetSystem(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetSystem(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LocationsHandler) UpdateSystem(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.CreateSystemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateSystem(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LocationsHandler) ArchiveSystem(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if err := h.svc.ArchiveSystem(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LocationsHandler) RestoreSystem(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.RestoreSystem(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LocationsHandler) CreateShelf(c *gin.Context) {
	var req dto.CreateShelfRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateShelf(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LocationsHandler) ListShelves(c *gin.Context) {
	var filter dto.ShelfFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListShelves(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LocationsHandler) GetShelf(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetShelf(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LocationsHandler) UpdateShelf(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.CreateShelfRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateShelf(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LocationsHandler) ArchiveShelf(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if err := h.svc.ArchiveShelf(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LocationsHandler) RestoreShelf(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.RestoreShelf(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
