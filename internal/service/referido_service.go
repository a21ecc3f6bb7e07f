package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/model"
	"github.com/JohnDGC/oh-my-glasses/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferidoService lleva el libro de cashback por referidos: un referido
// genera cashback para su referidor una sola vez y el acumulado se redime
// todo junto. Las compras del alta acreditan sumadas; después del alta
// acredita solo la primera compra de gafas.
type ReferidoService interface {
	// AcreditarPorCompra evalúa si la compra es la calificante del referido
	// y, de serlo, crea el vínculo y acredita el cashback al referidor.
	// No-op si el cliente no es referido o ya generó cashback.
	AcreditarPorCompra(ctx context.Context, cliente *model.Cliente, compra *model.ClienteCompra) error
	// AcreditarPorComprasIniciales acredita las compras del alta del cliente:
	// suma el cashback de todas las calificantes en un solo vínculo.
	AcreditarPorComprasIniciales(ctx context.Context, cliente *model.Cliente, compras []model.ClienteCompra) error

	// AsignarReferidor vincula (retroactivo) un cliente a un referidor: si el
	// cliente ya compró gafas, acredita de inmediato con su última compra.
	AsignarReferidor(ctx context.Context, cliente *model.Cliente, referidorID uuid.UUID) error
	// RemoverReferidor deshace el vínculo activo con el referidor actual y
	// descuenta su cashback no redimido. Los vínculos ya redimidos quedan.
	RemoverReferidor(ctx context.Context, cliente *model.Cliente) error

	ListarReferidos(ctx context.Context, referidorID uuid.UUID) ([]dto.ReferidoResponse, error)
	// RedimirCashback marca redimidos todos los referidos activos del
	// referidor y pone su acumulado en cero, en una sola transacción.
	RedimirCashback(ctx context.Context, referidorID uuid.UUID) (*dto.RedimirCashbackResponse, error)
}

type referidoService struct {
	referidoRepo repository.ReferidoRepository
	clienteRepo  repository.ClienteRepository
	compraRepo   repository.CompraRepository
}

func NewReferidoService(
	referidoRepo repository.ReferidoRepository,
	clienteRepo repository.ClienteRepository,
	compraRepo repository.CompraRepository,
) ReferidoService {
	return &referidoService{
		referidoRepo: referidoRepo,
		clienteRepo:  clienteRepo,
		compraRepo:   compraRepo,
	}
}

func esCompraCalificante(compra *model.ClienteCompra) bool {
	return compra.TipoCompra == model.CompraGafasFormuladas || compra.TipoCompra == model.CompraGafasSol
}

func (s *referidoService) AcreditarPorCompra(ctx context.Context, cliente *model.Cliente, compra *model.ClienteCompra) error {
	if !cliente.EsReferido || cliente.ClienteReferidorID == nil {
		return nil
	}
	if !esCompraCalificante(compra) {
		return nil
	}
	referidorID := *cliente.ClienteReferidorID

	// Un referido acredita una sola vez, en cualquier estado del vínculo.
	if _, err := s.referidoRepo.FindVinculo(ctx, referidorID, cliente.ID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.crearVinculo(ctx, referidorID, cliente.ID, CalcularCashback(compra.RangoPrecio), compra.RangoPrecio)
}

func (s *referidoService) AcreditarPorComprasIniciales(ctx context.Context, cliente *model.Cliente, compras []model.ClienteCompra) error {
	if !cliente.EsReferido || cliente.ClienteReferidorID == nil {
		return nil
	}

	// Las compras del alta acreditan todas juntas: la suma de sus rangos
	// termina en un solo vínculo.
	total := decimal.Zero
	rango := ""
	for i := range compras {
		if !esCompraCalificante(&compras[i]) {
			continue
		}
		total = total.Add(CalcularCashback(compras[i].RangoPrecio))
		rango = compras[i].RangoPrecio
	}
	if total.IsZero() {
		return nil
	}

	referidorID := *cliente.ClienteReferidorID
	if _, err := s.referidoRepo.FindVinculo(ctx, referidorID, cliente.ID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.crearVinculo(ctx, referidorID, cliente.ID, total, rango)
}

func (s *referidoService) crearVinculo(ctx context.Context, referidorID, referidoID uuid.UUID, cashback decimal.Decimal, rangoPrecio string) error {
	vinculo := &model.ClienteReferido{
		ClienteReferidorID: referidorID,
		ClienteReferidoID:  referidoID,
		FechaReferido:      time.Now(),
		Estado:             model.ReferidoActivo,
		CashbackGenerado:   cashback,
		RangoPrecioCompra:  rangoPrecio,
	}
	return runTx(ctx, s.referidoRepo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			if err := s.referidoRepo.Create(ctx, vinculo); err != nil {
				return err
			}
		} else if err := s.referidoRepo.CreateTx(tx, vinculo); err != nil {
			return err
		}
		return s.clienteRepo.IncrementarCashback(ctx, tx, referidorID, cashback)
	})
}

func (s *referidoService) AsignarReferidor(ctx context.Context, cliente *model.Cliente, referidorID uuid.UUID) error {
	if referidorID == cliente.ID {
		return fmt.Errorf("un cliente no puede referirse a sí mismo")
	}
	if _, err := s.clienteRepo.FindByID(ctx, referidorID); err != nil {
		return fmt.Errorf("referidor %s no encontrado: %w", referidorID, err)
	}

	// Retroactivo: si el cliente ya compró gafas, acredita con el rango de
	// su última compra.
	compras, err := s.compraRepo.ListCalificantes(ctx, cliente.ID)
	if err != nil {
		return err
	}
	if len(compras) == 0 {
		return nil
	}
	ultima := &compras[0]

	if _, err := s.referidoRepo.FindVinculo(ctx, referidorID, cliente.ID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.crearVinculo(ctx, referidorID, cliente.ID, CalcularCashback(ultima.RangoPrecio), ultima.RangoPrecio)
}

func (s *referidoService) RemoverReferidor(ctx context.Context, cliente *model.Cliente) error {
	if cliente.ClienteReferidorID == nil {
		return nil
	}
	referidorID := *cliente.ClienteReferidorID

	vinculo, err := s.referidoRepo.FindVinculo(ctx, referidorID, cliente.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	// Lo redimido es historia: solo se deshace el cashback aún no cobrado.
	if vinculo.Estado != model.ReferidoActivo {
		return nil
	}

	return runTx(ctx, s.referidoRepo.DB(), func(tx *gorm.DB) error {
		if err := s.referidoRepo.DeleteTx(tx, vinculo.ID); err != nil {
			return err
		}
		return s.clienteRepo.IncrementarCashback(ctx, tx, referidorID, vinculo.CashbackGenerado.Neg())
	})
}

func (s *referidoService) ListarReferidos(ctx context.Context, referidorID uuid.UUID) ([]dto.ReferidoResponse, error) {
	refs, err := s.referidoRepo.ListByReferidor(ctx, referidorID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReferidoResponse, 0, len(refs))
	for i := range refs {
		out = append(out, referidoToResponse(&refs[i]))
	}
	return out, nil
}

func (s *referidoService) RedimirCashback(ctx context.Context, referidorID uuid.UUID) (*dto.RedimirCashbackResponse, error) {
	activos, err := s.referidoRepo.ListActivosByReferidor(ctx, referidorID)
	if err != nil {
		return nil, err
	}
	if len(activos) == 0 {
		return nil, fmt.Errorf("el cliente %s no tiene cashback pendiente de redimir", referidorID)
	}

	monto := decimal.Zero
	for i := range activos {
		monto = monto.Add(activos[i].CashbackGenerado)
	}

	ahora := time.Now()
	err = runTx(ctx, s.referidoRepo.DB(), func(tx *gorm.DB) error {
		n, err := s.referidoRepo.RedimirActivosTx(tx, referidorID, ahora)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("redención concurrente: no quedan referidos activos")
		}
		return s.clienteRepo.ResetCashbackTx(tx, referidorID)
	})
	if err != nil {
		return nil, err
	}

	return &dto.RedimirCashbackResponse{
		ClienteID:          referidorID.String(),
		ReferidosRedimidos: len(activos),
		MontoRedimido:      monto,
		FechaRedencion:     ahora.Format(time.RFC3339),
	}, nil
}

func referidoToResponse(ref *model.ClienteReferido) dto.ReferidoResponse {
	resp := dto.ReferidoResponse{
		ID:                 ref.ID.String(),
		ClienteReferidorID: ref.ClienteReferidorID.String(),
		ClienteReferidoID:  ref.ClienteReferidoID.String(),
		FechaReferido:      ref.FechaReferido.Format(time.RFC3339),
		Estado:             ref.Estado,
		CashbackGenerado:   ref.CashbackGenerado,
		RangoPrecioCompra:  ref.RangoPrecioCompra,
	}
	if ref.Referido != nil {
		resp.ReferidoNombre = ref.Referido.Nombres
	}
	if ref.FechaRedimido != nil {
		fecha := ref.FechaRedimido.Format(time.RFC3339)
		resp.FechaRedimido = &fecha
	}
	return resp
}
