package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/model"
	"github.com/JohnDGC/oh-my-glasses/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ClienteService interface {
	CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ActualizarCliente(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	ObtenerCliente(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	EliminarCliente(ctx context.Context, id uuid.UUID) error
	ListarClientes(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
}

type clienteService struct {
	clienteRepo repository.ClienteRepository
	compras     CompraService
	referidos   ReferidoService
}

func NewClienteService(
	clienteRepo repository.ClienteRepository,
	compras CompraService,
	referidos ReferidoService,
) ClienteService {
	return &clienteService{
		clienteRepo: clienteRepo,
		compras:     compras,
		referidos:   referidos,
	}
}

func (s *clienteService) CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if existente, err := s.clienteRepo.FindByCedula(ctx, req.Cedula); err == nil && existente != nil {
		return nil, fmt.Errorf("ya existe un cliente con cédula %s", req.Cedula)
	}

	cliente := &model.Cliente{
		Nombres:       req.Nombres,
		Cedula:        req.Cedula,
		Telefono:      req.Telefono,
		Correo:        req.Correo,
		FechaRegistro: time.Now(),
	}
	if req.FechaNacimiento != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaNacimiento)
		if err != nil {
			return nil, fmt.Errorf("fecha_nacimiento inválida (se espera YYYY-MM-DD): %w", err)
		}
		cliente.FechaNacimiento = &fecha
	}
	if req.ClienteReferidorID != nil && *req.ClienteReferidorID != "" {
		referidorID, err := uuid.Parse(*req.ClienteReferidorID)
		if err != nil {
			return nil, fmt.Errorf("cliente_referidor_id inválido: %w", err)
		}
		if _, err := s.clienteRepo.FindByID(ctx, referidorID); err != nil {
			return nil, fmt.Errorf("referidor %s no encontrado: %w", referidorID, err)
		}
		cliente.EsReferido = true
		cliente.ClienteReferidorID = &referidorID
	}

	if err := s.clienteRepo.Create(ctx, cliente); err != nil {
		return nil, fmt.Errorf("creando cliente: %w", err)
	}

	// Las compras del alta descuentan stock una a una, pero el cashback del
	// referidor se acredita al final con todas las calificantes sumadas.
	iniciales := make([]model.ClienteCompra, 0, len(req.ComprasIniciales))
	for _, compraReq := range req.ComprasIniciales {
		compra, err := s.compras.CrearCompraInicial(ctx, cliente, compraReq)
		if err != nil {
			log.Warn().Err(err).Str("cliente_id", cliente.ID.String()).Msg("compra inicial no registrada")
			continue
		}
		iniciales = append(iniciales, *compra)
	}
	if len(iniciales) > 0 {
		if err := s.referidos.AcreditarPorComprasIniciales(ctx, cliente, iniciales); err != nil {
			log.Warn().Err(err).Str("cliente_id", cliente.ID.String()).Msg("alta sin acreditar cashback")
		}
	}

	return clienteToResponse(cliente), nil
}

func (s *clienteService) ActualizarCliente(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	cliente, err := s.clienteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cliente %s no encontrado: %w", id, err)
	}

	if req.Nombres != nil {
		cliente.Nombres = *req.Nombres
	}
	if req.Cedula != nil {
		cliente.Cedula = *req.Cedula
	}
	if req.FechaNacimiento != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaNacimiento)
		if err != nil {
			return nil, fmt.Errorf("fecha_nacimiento inválida: %w", err)
		}
		cliente.FechaNacimiento = &fecha
	}
	if req.Telefono != nil {
		cliente.Telefono = *req.Telefono
	}
	if req.Correo != nil {
		cliente.Correo = *req.Correo
	}

	// Referidor tri-estado: nil = sin cambio, "" = quitar, uuid = asignar.
	if req.ClienteReferidorID != nil {
		if err := s.cambiarReferidor(ctx, cliente, *req.ClienteReferidorID); err != nil {
			return nil, err
		}
	}

	if err := s.clienteRepo.Update(ctx, cliente); err != nil {
		return nil, err
	}
	return clienteToResponse(cliente), nil
}

// cambiarReferidor aplica el cambio de referidor en dos mitades best-effort:
// primero deshace el vínculo activo con el referidor anterior, luego asigna
// el nuevo (retroactivo si el cliente ya compró gafas). El campo del cliente
// se actualiza aunque alguna mitad falle: el vínculo es derivable.
func (s *clienteService) cambiarReferidor(ctx context.Context, cliente *model.Cliente, nuevo string) error {
	if nuevo == "" {
		if err := s.referidos.RemoverReferidor(ctx, cliente); err != nil {
			log.Warn().Err(err).Str("cliente_id", cliente.ID.String()).Msg("no se pudo deshacer el vínculo de referido")
		}
		cliente.EsReferido = false
		cliente.ClienteReferidorID = nil
		return nil
	}

	referidorID, err := uuid.Parse(nuevo)
	if err != nil {
		return fmt.Errorf("cliente_referidor_id inválido: %w", err)
	}
	if cliente.ClienteReferidorID != nil && *cliente.ClienteReferidorID == referidorID {
		return nil
	}

	if cliente.ClienteReferidorID != nil {
		if err := s.referidos.RemoverReferidor(ctx, cliente); err != nil {
			log.Warn().Err(err).Str("cliente_id", cliente.ID.String()).Msg("no se pudo deshacer el vínculo anterior")
		}
	}

	cliente.EsReferido = true
	cliente.ClienteReferidorID = &referidorID
	if err := s.referidos.AsignarReferidor(ctx, cliente, referidorID); err != nil {
		return err
	}
	return nil
}

func (s *clienteService) ObtenerCliente(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.clienteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) EliminarCliente(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clienteRepo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("cliente %s no encontrado: %w", id, err)
	}
	return s.clienteRepo.Delete(ctx, id)
}

func (s *clienteService) ListarClientes(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	clientes, total, err := s.clienteRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ClienteListResponse{
		Data:  make([]dto.ClienteResponse, 0, len(clientes)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if resp.Page < 1 {
		resp.Page = 1
	}
	if resp.Limit < 1 {
		resp.Limit = 50
	}
	for i := range clientes {
		resp.Data = append(resp.Data, *clienteToResponse(&clientes[i]))
	}
	return resp, nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	resp := &dto.ClienteResponse{
		ID:                c.ID.String(),
		Nombres:           c.Nombres,
		Cedula:            c.Cedula,
		Telefono:          c.Telefono,
		Correo:            c.Correo,
		FechaRegistro:     c.FechaRegistro.Format(time.RFC3339),
		EsReferido:        c.EsReferido,
		CashbackAcumulado: c.CashbackAcumulado,
	}
	if c.FechaNacimiento != nil {
		fecha := c.FechaNacimiento.Format("2006-01-02")
		resp.FechaNacimiento = &fecha
	}
	if c.ClienteReferidorID != nil {
		id := c.ClienteReferidorID.String()
		resp.ClienteReferidorID = &id
	}
	return resp
}
