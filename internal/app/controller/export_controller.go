package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ovenlab/bakehouse-backend/internal/app/service"
	apperrors "github.com/ovenlab/bakehouse-backend/internal/errors"
	"github.com/ovenlab/bakehouse-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	exportService service.ExportService
}

func NewExportController(exportService service.ExportService) *ExportController {
	return &ExportController{
		exportService: exportService,
	}
}

// ExportOrders streams an xlsx of orders in the requested date range.
// Defaults to the last 30 days.
// GET /api/v1/admin/export/orders?from=2026-08-01&to=2026-09-01
func (ctrl *ExportController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "to must be YYYY-MM-DD")
			return
		}
		// Inclusive end date.
		to = parsed.AddDate(0, 0, 1)
	}

	f, err := ctrl.exportService.ExportOrders(from, to)
	if err != nil {
		log.Error("Failed to export orders", err, nil)
		apperrors.InternalError(c, "failed to build the export")
		return
	}

	filename := service.ExportFilename("orders", now)
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream export", err, map[string]interface{}{
			"filename": filename,
		})
		return
	}

	log.Info("Orders export downloaded", map[string]interface{}{
		"filename": filename,
	})
	c.Status(http.StatusOK)
}

// ExportProducts streams an xlsx of the full catalog.
// GET /api/v1/admin/export/products
func (ctrl *ExportController) ExportProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	f, err := ctrl.exportService.ExportProducts()
	if err != nil {
		log.Error("Failed to export products", err, nil)
		apperrors.InternalError(c, "failed to build the export")
		return
	}

	filename := service.ExportFilename("products", time.Now())
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream export", err, map[string]interface{}{
			"filename": filename,
		})
		return
	}

	log.Info("Products export downloaded", map[string]interface{}{
		"filename": filename,
	})
	c.Status(http.StatusOK)
}
