package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/application/reports"
)

// ReportHandler descarga de reportes exportables.
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Inventory godoc
// @Summary      Reporte de inventario valorizado
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf,text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format    query  string  false  "pdf, xlsx o csv"  default(pdf)
// @Param        encoding  query  string  false  "utf-8 o latin1 (solo csv)"
// @Success      200       {file}    binary
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	var in dto.ReportRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	file, err := h.uc.Inventory(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, file.Filename, file.ContentType, file.Data)
}

// Sales godoc
// @Summary      Reporte de ventas
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf,text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format     query  string  false  "pdf, xlsx o csv"  default(pdf)
// @Param        encoding   query  string  false  "utf-8 o latin1 (solo csv)"
// @Param        date_from  query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        date_to    query  string  false  "YYYY-MM-DD o RFC3339"
// @Success      200        {file}    binary
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	var in dto.ReportRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	file, err := h.uc.Sales(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, file.Filename, file.ContentType, file.Data)
}
