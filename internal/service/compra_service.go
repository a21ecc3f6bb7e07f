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
	"gorm.io/gorm"
)

// CompraService registra compras y propaga sus efectos laterales: el
// descuento de inventario y el cashback de referidos son best-effort — si
// fallan, la compra queda registrada igual y el reconciler de sincronización
// recoge el stock pendiente después.
type CompraService interface {
	CrearCompra(ctx context.Context, clienteID uuid.UUID, req dto.CrearCompraRequest) (*dto.CompraResponse, error)
	// CrearCompraInicial registra una compra del alta de un cliente: descuenta
	// stock pero no acredita cashback, porque el alta acredita todas las
	// compras iniciales sumadas en un solo vínculo.
	CrearCompraInicial(ctx context.Context, cliente *model.Cliente, req dto.CrearCompraRequest) (*model.ClienteCompra, error)
	ActualizarCompra(ctx context.Context, id uuid.UUID, req dto.ActualizarCompraRequest) (*dto.CompraResponse, error)
	EliminarCompra(ctx context.Context, id uuid.UUID) error
	ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.CompraResponse, error)
}

type compraService struct {
	compraRepo  repository.CompraRepository
	abonoRepo   repository.AbonoRepository
	clienteRepo repository.ClienteRepository
	inventario  InventarioService
	referidos   ReferidoService
}

func NewCompraService(
	compraRepo repository.CompraRepository,
	abonoRepo repository.AbonoRepository,
	clienteRepo repository.ClienteRepository,
	inventario InventarioService,
	referidos ReferidoService,
) CompraService {
	return &compraService{
		compraRepo:  compraRepo,
		abonoRepo:   abonoRepo,
		clienteRepo: clienteRepo,
		inventario:  inventario,
		referidos:   referidos,
	}
}

func (s *compraService) CrearCompra(ctx context.Context, clienteID uuid.UUID, req dto.CrearCompraRequest) (*dto.CompraResponse, error) {
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente %s no encontrado: %w", clienteID, err)
	}

	compra, err := s.crearCompra(ctx, cliente, req)
	if err != nil {
		return nil, err
	}

	if err := s.referidos.AcreditarPorCompra(ctx, cliente, compra); err != nil {
		log.Warn().Err(err).Str("compra_id", compra.ID.String()).Msg("compra creada sin acreditar cashback")
	}

	return compraToResponse(compra), nil
}

func (s *compraService) CrearCompraInicial(ctx context.Context, cliente *model.Cliente, req dto.CrearCompraRequest) (*model.ClienteCompra, error) {
	return s.crearCompra(ctx, cliente, req)
}

func (s *compraService) crearCompra(ctx context.Context, cliente *model.Cliente, req dto.CrearCompraRequest) (*model.ClienteCompra, error) {
	compra := &model.ClienteCompra{
		ClienteID:   cliente.ID,
		TipoLente:   req.TipoLente,
		TipoMontura: req.TipoMontura,
		TipoCompra:  req.TipoCompra,
		RangoPrecio: req.RangoPrecio,
		Seccion:     req.Seccion,
		PrecioTotal: req.PrecioTotal,
		MetodoPago:  req.MetodoPago,
		NotaPago:    req.NotaPago,
		FechaCompra: time.Now(),
	}

	err := runTx(ctx, s.compraRepo.DB(), func(tx *gorm.DB) error {
		db := tx
		if db == nil {
			if err := s.compraRepo.Create(ctx, compra); err != nil {
				return err
			}
		} else if err := db.Create(compra).Error; err != nil {
			return err
		}
		if req.AbonoInicial == nil || req.AbonoInicial.IsZero() {
			return nil
		}
		abono := &model.ClienteAbono{
			CompraID:   compra.ID,
			Monto:      *req.AbonoInicial,
			FechaAbono: compra.FechaCompra,
			Nota:       "Abono inicial",
		}
		if err := s.abonoRepo.CreateTx(tx, abono); err != nil {
			return err
		}
		compra.Abono = *req.AbonoInicial
		return s.compraRepo.SetAbonoTotal(ctx, tx, compra.ID, compra.Abono)
	})
	if err != nil {
		return nil, fmt.Errorf("creando compra: %w", err)
	}

	// El descuento de stock queda fuera de la transacción: no bloquea la venta.
	if err := s.inventario.RegistrarVentaDesdeCompra(ctx, compra, cliente.Nombres); err != nil {
		log.Warn().Err(err).Str("compra_id", compra.ID.String()).Msg("compra creada sin descuento de stock")
	}

	return compra, nil
}

func (s *compraService) ActualizarCompra(ctx context.Context, id uuid.UUID, req dto.ActualizarCompraRequest) (*dto.CompraResponse, error) {
	compra, err := s.compraRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("compra %s no encontrada: %w", id, err)
	}

	if req.TipoLente != nil {
		compra.TipoLente = *req.TipoLente
	}
	if req.TipoMontura != nil {
		compra.TipoMontura = *req.TipoMontura
	}
	if req.TipoCompra != nil {
		compra.TipoCompra = *req.TipoCompra
	}
	// El rango de precio editado no recalcula cashback ya generado.
	if req.RangoPrecio != nil {
		compra.RangoPrecio = *req.RangoPrecio
	}
	if req.Seccion != nil {
		compra.Seccion = req.Seccion
	}
	if req.PrecioTotal != nil {
		compra.PrecioTotal = *req.PrecioTotal
	}
	if req.MetodoPago != nil {
		compra.MetodoPago = *req.MetodoPago
	}
	if req.NotaPago != nil {
		compra.NotaPago = *req.NotaPago
	}

	if err := s.compraRepo.Update(ctx, compra); err != nil {
		return nil, err
	}

	nombre := ""
	if cliente, err := s.clienteRepo.FindByID(ctx, compra.ClienteID); err == nil {
		nombre = cliente.Nombres
	}
	if err := s.inventario.ActualizarVentaDesdeCompra(ctx, compra, nombre); err != nil {
		log.Warn().Err(err).Str("compra_id", compra.ID.String()).Msg("compra editada sin reconciliar stock")
	}

	return compraToResponse(compra), nil
}

func (s *compraService) EliminarCompra(ctx context.Context, id uuid.UUID) error {
	compra, err := s.compraRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("compra %s no encontrada: %w", id, err)
	}

	err = runTx(ctx, s.compraRepo.DB(), func(tx *gorm.DB) error {
		if err := s.abonoRepo.DeleteByCompraTx(tx, compra.ID); err != nil {
			return err
		}
		if tx == nil {
			return s.compraRepo.Delete(ctx, compra.ID)
		}
		return tx.Delete(&model.ClienteCompra{}, compra.ID).Error
	})
	if err != nil {
		return err
	}

	if err := s.inventario.RevertirVentaEliminada(ctx, compra.ID); err != nil {
		log.Warn().Err(err).Str("compra_id", compra.ID.String()).Msg("compra eliminada sin revertir stock")
	}
	return nil
}

func (s *compraService) ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.compraRepo.FindConAbonos(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := compraToResponse(compra)
	for i := range compra.Abonos {
		resp.Abonos = append(resp.Abonos, *abonoToResponse(&compra.Abonos[i]))
	}
	return resp, nil
}

func (s *compraService) ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.CompraResponse, error) {
	compras, err := s.compraRepo.ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		out = append(out, *compraToResponse(&compras[i]))
	}
	return out, nil
}

func compraToResponse(c *model.ClienteCompra) *dto.CompraResponse {
	return &dto.CompraResponse{
		ID:          c.ID.String(),
		ClienteID:   c.ClienteID.String(),
		TipoLente:   c.TipoLente,
		TipoMontura: c.TipoMontura,
		TipoCompra:  c.TipoCompra,
		RangoPrecio: c.RangoPrecio,
		Seccion:     c.Seccion,
		PrecioTotal: c.PrecioTotal,
		Abonado:     c.Abono,
		SaldoDeuda:  c.PrecioTotal.Sub(c.Abono),
		MetodoPago:  c.MetodoPago,
		FechaCompra: c.FechaCompra.Format(time.RFC3339),
	}
}
