package handler

import (
	"net/http"

	"github.com/JohnDGC/oh-my-glasses/internal/apierror"
	"github.com/JohnDGC/oh-my-glasses/internal/infra"
	"github.com/JohnDGC/oh-my-glasses/internal/repository"
	"github.com/JohnDGC/oh-my-glasses/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct {
	svc       service.ReporteService
	stockRepo repository.StockRepository
	pdf       *infra.PDFGenerator
}

func NewReportesHandler(svc service.ReporteService, stockRepo repository.StockRepository, pdf *infra.PDFGenerator) *ReportesHandler {
	return &ReportesHandler{svc: svc, stockRepo: stockRepo, pdf: pdf}
}

// Dashboard godoc
// @Summary Dashboard de inventario
// @Description Agregados del período: unidades vendidas, entradas, salidas y dinero (acumulado, real y pendiente).
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param periodo query string false "day | week | month (default day)"
// @Success 200 {object} dto.DashboardInventario
// @Failure 400 {object} apierror.APIError
// @Router /v1/reportes/dashboard [get]
func (h *ReportesHandler) Dashboard(c *gin.Context) {
	periodo := c.DefaultQuery("periodo", "day")
	resp, err := h.svc.DashboardInventario(c.Request.Context(), periodo)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Rotacion(c *gin.Context) {
	resp, err := h.svc.RotacionInventario(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular rotacion"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Deudores(c *gin.Context) {
	resp, err := h.svc.Deudores(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular deudores"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InformeStockPDF renders the stock board to PDF and streams the file.
func (h *ReportesHandler) InformeStockPDF(c *gin.Context) {
	rows, err := h.stockRepo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar stock"))
		return
	}
	path, err := h.pdf.GenerarInformeStock(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el informe"))
		return
	}
	c.FileAttachment(path, "informe_stock.pdf")
}
