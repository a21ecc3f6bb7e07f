package handler

import (
	"net/http"

	"github.com/JohnDGC/oh-my-glasses/internal/apierror"
	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComprasHandler struct {
	svc    service.CompraService
	abonos service.AbonoService
}

func NewComprasHandler(svc service.CompraService, abonos service.AbonoService) *ComprasHandler {
	return &ComprasHandler{svc: svc, abonos: abonos}
}

// Crear godoc
// @Summary Registrar compra de un cliente
// @Description Crea la compra (con abono inicial opcional); descuenta stock y acredita cashback best-effort.
// @Tags compras
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del cliente"
// @Param body body dto.CrearCompraRequest true "Detalle de la compra"
// @Success 201 {object} dto.CompraResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/clientes/{id}/compras [post]
func (h *ComprasHandler) Crear(c *gin.Context) {
	clienteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CrearCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCompra(c.Request.Context(), clienteID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ComprasHandler) ListarPorCliente(c *gin.Context) {
	clienteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ListarPorCliente(c.Request.Context(), clienteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar compras"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComprasHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("compraId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerCompra(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Compra no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Editar compra
// @Description Edita la compra y reconcilia su movimiento de inventario (puede migrar la unidad entre secciones).
// @Tags compras
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param compraId path string true "UUID de la compra"
// @Param body body dto.ActualizarCompraRequest true "Campos a modificar"
// @Success 200 {object} dto.CompraResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/compras/{compraId} [put]
func (h *ComprasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("compraId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCompra(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar compra
// @Description Borra la compra con sus abonos y devuelve la unidad al stock.
// @Tags compras
// @Security BearerAuth
// @Param compraId path string true "UUID de la compra"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/compras/{compraId} [delete]
func (h *ComprasHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("compraId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarCompra(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Abonos ───────────────────────────────────────────────────────────────────

// CrearAbono godoc
// @Summary Registrar abono
// @Description Crea un pago parcial y recalcula el total abonado de la compra en la misma transacción.
// @Tags abonos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param compraId path string true "UUID de la compra"
// @Param body body dto.CrearAbonoRequest true "Monto y fecha"
// @Success 201 {object} dto.AbonoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/compras/{compraId}/abonos [post]
func (h *ComprasHandler) CrearAbono(c *gin.Context) {
	compraID, err := uuid.Parse(c.Param("compraId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CrearAbonoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.abonos.CrearAbono(c.Request.Context(), compraID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ComprasHandler) ListarAbonos(c *gin.Context) {
	compraID, err := uuid.Parse(c.Param("compraId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.abonos.ListarAbonos(c.Request.Context(), compraID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar abonos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComprasHandler) EliminarAbono(c *gin.Context) {
	abonoID, err := uuid.Parse(c.Param("abonoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.abonos.EliminarAbono(c.Request.Context(), abonoID); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
