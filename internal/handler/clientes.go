package handler

import (
	"net/http"

	"github.com/JohnDGC/oh-my-glasses/internal/apierror"
	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClientesHandler struct {
	svc       service.ClienteService
	referidos service.ReferidoService
}

func NewClientesHandler(svc service.ClienteService, referidos service.ReferidoService) *ClientesHandler {
	return &ClientesHandler{svc: svc, referidos: referidos}
}

// Crear godoc
// @Summary Crear cliente
// @Description Registra un cliente, opcionalmente referido y con compras iniciales.
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearClienteRequest true "Datos del cliente"
// @Success 201 {object} dto.ClienteResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCliente(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) Listar(c *gin.Context) {
	var filter dto.ClienteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarClientes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar clientes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerCliente(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Cliente no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualizar cliente
// @Description Edita datos del cliente; cliente_referidor_id admite asignación retroactiva ("" lo quita).
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del cliente"
// @Param body body dto.ActualizarClienteRequest true "Campos a modificar"
// @Success 200 {object} dto.ClienteResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/clientes/{id} [put]
func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCliente(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarCliente(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Referidos ────────────────────────────────────────────────────────────────

// ListarReferidos godoc
// @Summary Listar referidos de un cliente
// @Tags referidos
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del cliente referidor"
// @Success 200 {array} dto.ReferidoResponse
// @Router /v1/clientes/{id}/referidos [get]
func (h *ClientesHandler) ListarReferidos(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.referidos.ListarReferidos(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar referidos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RedimirCashback godoc
// @Summary Redimir el cashback acumulado de un cliente
// @Description Marca todos los referidos activos como redimidos y pone el acumulado en cero, atómico.
// @Tags referidos
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del cliente referidor"
// @Success 200 {object} dto.RedimirCashbackResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/clientes/{id}/redimir-cashback [post]
func (h *ClientesHandler) RedimirCashback(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.referidos.RedimirCashback(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
