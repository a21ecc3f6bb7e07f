package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/apierror"
	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/middleware"
	"github.com/JohnDGC/oh-my-glasses/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// ReestockGlobal godoc
// @Summary Reestock global
// @Description Cierra el período de todas las combinaciones en una transacción: archiva el snapshot y resetea contadores.
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ReestockGlobalRequest true "Stock nuevo por combinación"
// @Success 201 {object} dto.OperacionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/inventario/reestock [post]
func (h *InventarioHandler) ReestockGlobal(c *gin.Context) {
	var req dto.ReestockGlobalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.RealizarReestockGlobal(c.Request.Context(), claims.Username, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AdicionEspecifica godoc
// @Summary Adición específica de stock
// @Description Suma unidades a una combinación sin reiniciar el período.
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AdicionEspecificaRequest true "Combinación y cantidad"
// @Success 201 {object} dto.OperacionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/inventario/adiciones [post]
func (h *InventarioHandler) AdicionEspecifica(c *gin.Context) {
	var req dto.AdicionEspecificaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.AgregarStockEspecifico(c.Request.Context(), claims.Username, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Stock godoc
// @Summary Tablero de stock
// @Description Filas de stock del período vigente agrupadas por sección, con totales.
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.StockCardResponse
// @Router /v1/inventario/stock [get]
func (h *InventarioHandler) Stock(c *gin.Context) {
	resp, err := h.svc.ObtenerStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar stock"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) Movimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	movs, total, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movs, "total": total})
}

func (h *InventarioHandler) Operaciones(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.ListarOperaciones(c.Request.Context(), c.Query("tipo"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar operaciones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) Operacion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerOperacion(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Operacion no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sincronizar godoc
// @Summary Sincronizar compras históricas
// @Description Corre el reconciler: toda compra trackeable desde la fecha de corte sin movimiento de venta genera uno. Idempotente.
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SincronizacionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/inventario/sincronizar [post]
func (h *InventarioHandler) Sincronizar(c *gin.Context) {
	cfg, err := h.svc.ObtenerConfig(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al leer configuracion de tracking"))
		return
	}

	params := dto.SincronizacionParams{TrackingActivo: cfg.TrackingActivo}
	if cfg.FechaInicioTracking != "" {
		inicio, err := time.Parse("2006-01-02", cfg.FechaInicioTracking)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("fecha_inicio_tracking invalida"))
			return
		}
		params.FechaInicio = inicio
	}

	resp, err := h.svc.SincronizarComprasHistoricas(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ActualizarMinimo(c *gin.Context) {
	var req dto.UpdateStockMinimoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ActualizarStockMinimo(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InventarioHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.ObtenerAlertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar alertas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) Config(c *gin.Context) {
	resp, err := h.svc.ObtenerConfig(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al leer configuracion"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ActualizarConfig(c *gin.Context) {
	var req dto.ConfigInventarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.ActualizarConfig(c.Request.Context(), claims.Username, req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
