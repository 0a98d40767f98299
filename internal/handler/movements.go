package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rushilbhatia3/FMS/internal/apierror"
	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MovementsHandler struct{ svc service.MovementService }

func NewMovementsHandler(svc service.MovementService) *MovementsHandler {
	return &MovementsHandler{svc: svc}
}

func (h *MovementsHandler) Receive(c *gin.Context) {
	var req dto.ReceiveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Receive(c.Request.Context(), actor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MovementsHandler) Issue(c *gin.Context) {
	var req dto.IssueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Issue(c.Request.Context(), actor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MovementsHandler) Return(c *gin.Context) {
	var req dto.ReturnRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Return(c.Request.Context(), actor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MovementsHandler) Adjust(c *gin.Context) {
	var req dto.AdjustRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Adjust(c.Request.Context(), actor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MovementsHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Transfer(c.Request.Context(), actor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MovementsHandler) Get(c *gin.Context) {
	id, ok := pathInt64(c)
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

func (h *MovementsHandler) List(c *gin.Context) {
	filter, ok := movementFilterFromQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MovementsHandler) Correct(c *gin.Context) {
	id, ok := pathInt64(c)
	if !ok {
		return
	}
	var req dto.CorrectMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Correct(c.Request.Context(), actor(c), id, req.Qty)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MovementsHandler) Remove(c *gin.Context) {
	id, ok := pathInt64(c)
	if !ok {
		return
	}
	if err := h.svc.Remove(c.Request.Context(), actor(c), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathInt64(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return 0, false
	}
	return id, true
}

// movementFilterFromQuery builds the typed ledger filter by hand: uuids and
// timestamps get a real parse error instead of a silent zero value.
func movementFilterFromQuery(c *gin.Context) (dto.MovementFilter, bool) {
	var f dto.MovementFilter

	if v := c.Query("item_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("item_id: invalid uuid"))
			return f, false
		}
		f.ItemID = &id
	}
	if v := c.Query("shelf_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("shelf_id: invalid uuid"))
			return f, false
		}
		f.ShelfID = &id
	}
	f.Kind = c.Query("kind")
	f.Holder = c.Query("holder")
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("from: expected RFC3339 timestamp"))
			return f, false
		}
		f.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("to: expected RFC3339 timestamp"))
			return f, false
		}
		f.To = &t
	}
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.PageSize, _ = strconv.Atoi(c.Query("page_size"))
	return f, true
}
