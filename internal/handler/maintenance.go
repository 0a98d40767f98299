package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rushilbhatia3/FMS/internal/apierror"
	"github.com/rushilbhatia3/FMS/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// MaintenanceHandler serves the bulk export/import endpoints.
type MaintenanceHandler struct {
	export service.ExportService
	imp    service.ImportService
}

func NewMaintenanceHandler(export service.ExportService, imp service.ImportService) *MaintenanceHandler {
	return &MaintenanceHandler{export: export, imp: imp}
}

// Export streams the catalog or the ledger as a file download.
// GET /api/export?what=items|movements&format=csv|xlsx
func (h *MaintenanceHandler) Export(c *gin.Context) {
	what := c.DefaultQuery("what", "items")
	format := c.DefaultQuery("format", "csv")

	switch {
	case what == "items" && format == "csv":
		data, name, err := h.export.ItemsCSV(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, csvContentType, data)

	case what == "items" && format == "xlsx":
		f, name, err := h.export.ItemsXLSX(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Header("Content-Type", xlsxContentType)
		c.Status(http.StatusOK)
		if err := f.Write(c.Writer); err != nil {
			// headers are gone; nothing left to do but log via the error handler
			_ = c.Error(err)
		}

	case what == "movements" && format == "csv":
		data, name, err := h.export.MovementsCSV(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, csvContentType, data)

	case what == "movements" && format == "xlsx":
		c.JSON(http.StatusBadRequest, apierror.New("movement export supports csv only"))

	default:
		c.JSON(http.StatusBadRequest, apierror.New("what must be items|movements, format must be csv|xlsx"))
	}
}

// Import accepts a multipart "file" upload, .csv or .xlsx by extension.
func (h *MaintenanceHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("multipart field 'file' is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("cannot read upload"))
		return
	}
	defer src.Close()

	var resp interface{}
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		resp, err = h.imp.ImportCSV(c.Request.Context(), actor(c), src)
	case ".xlsx":
		resp, err = h.imp.ImportXLSX(c.Request.Context(), actor(c), src)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("only .csv and .xlsx uploads are supported"))
		return
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
