package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/model"
	"github.com/JohnDGC/oh-my-glasses/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AbonoService maneja los pagos parciales de una compra. Cada alta o baja
// recalcula el total abonado denormalizado de la compra en la misma
// transacción, así el saldo de deuda nunca queda desfasado del historial.
type AbonoService interface {
	CrearAbono(ctx context.Context, compraID uuid.UUID, req dto.CrearAbonoRequest) (*dto.AbonoResponse, error)
	EliminarAbono(ctx context.Context, abonoID uuid.UUID) error
	ListarAbonos(ctx context.Context, compraID uuid.UUID) ([]dto.AbonoResponse, error)
}

type abonoService struct {
	abonoRepo  repository.AbonoRepository
	compraRepo repository.CompraRepository
}

func NewAbonoService(abonoRepo repository.AbonoRepository, compraRepo repository.CompraRepository) AbonoService {
	return &abonoService{abonoRepo: abonoRepo, compraRepo: compraRepo}
}

func (s *abonoService) CrearAbono(ctx context.Context, compraID uuid.UUID, req dto.CrearAbonoRequest) (*dto.AbonoResponse, error) {
	compra, err := s.compraRepo.FindByID(ctx, compraID)
	if err != nil {
		return nil, fmt.Errorf("compra %s no encontrada: %w", compraID, err)
	}

	fecha, err := time.Parse("2006-01-02", req.FechaAbono)
	if err != nil {
		return nil, fmt.Errorf("fecha_abono inválida (se espera YYYY-MM-DD): %w", err)
	}

	abono := &model.ClienteAbono{
		CompraID:   compra.ID,
		Monto:      req.Monto,
		FechaAbono: fecha,
		Nota:       req.Nota,
	}

	err = runTx(ctx, s.compraRepo.DB(), func(tx *gorm.DB) error {
		if err := s.abonoRepo.CreateTx(tx, abono); err != nil {
			return err
		}
		total, err := s.abonoRepo.SumByCompraTx(tx, compra.ID)
		if err != nil {
			return err
		}
		return s.compraRepo.SetAbonoTotal(ctx, tx, compra.ID, total)
	})
	if err != nil {
		return nil, fmt.Errorf("creando abono: %w", err)
	}

	return abonoToResponse(abono), nil
}

func (s *abonoService) EliminarAbono(ctx context.Context, abonoID uuid.UUID) error {
	abono, err := s.abonoRepo.FindByID(ctx, abonoID)
	if err != nil {
		return fmt.Errorf("abono %s no encontrado: %w", abonoID, err)
	}

	return runTx(ctx, s.compraRepo.DB(), func(tx *gorm.DB) error {
		if err := s.abonoRepo.DeleteTx(tx, abono.ID); err != nil {
			return err
		}
		total, err := s.abonoRepo.SumByCompraTx(tx, abono.CompraID)
		if err != nil {
			return err
		}
		return s.compraRepo.SetAbonoTotal(ctx, tx, abono.CompraID, total)
	})
}

func (s *abonoService) ListarAbonos(ctx context.Context, compraID uuid.UUID) ([]dto.AbonoResponse, error) {
	abonos, err := s.abonoRepo.ListByCompra(ctx, compraID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AbonoResponse, 0, len(abonos))
	for i := range abonos {
		out = append(out, *abonoToResponse(&abonos[i]))
	}
	return out, nil
}

func abonoToResponse(a *model.ClienteAbono) *dto.AbonoResponse {
	return &dto.AbonoResponse{
		ID:         a.ID.String(),
		CompraID:   a.CompraID.String(),
		Monto:      a.Monto,
		FechaAbono: a.FechaAbono.Format("2006-01-02"),
		Nota:       a.Nota,
	}
}
