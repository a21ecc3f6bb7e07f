package repository

import (
	"context"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AbonoRepository interface {
	CreateTx(tx *gorm.DB, a *model.ClienteAbono) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ClienteAbono, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DeleteByCompraTx(tx *gorm.DB, compraID uuid.UUID) error
	ListByCompra(ctx context.Context, compraID uuid.UUID) ([]model.ClienteAbono, error)
	// SumByCompraTx suma los abonos vigentes de la compra dentro de la misma
	// transacción que los modificó.
	SumByCompraTx(tx *gorm.DB, compraID uuid.UUID) (decimal.Decimal, error)
	// SumEnRango suma el dinero realmente recibido en una ventana de tiempo.
	SumEnRango(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error)
}

type abonoRepo struct{ db *gorm.DB }

func NewAbonoRepository(db *gorm.DB) AbonoRepository {
	return &abonoRepo{db: db}
}

func (r *abonoRepo) CreateTx(tx *gorm.DB, a *model.ClienteAbono) error {
	return tx.Create(a).Error
}

func (r *abonoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ClienteAbono, error) {
	var a model.ClienteAbono
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *abonoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.ClienteAbono{}, id).Error
}

func (r *abonoRepo) DeleteByCompraTx(tx *gorm.DB, compraID uuid.UUID) error {
	return tx.Where("compra_id = ?", compraID).Delete(&model.ClienteAbono{}).Error
}

func (r *abonoRepo) ListByCompra(ctx context.Context, compraID uuid.UUID) ([]model.ClienteAbono, error) {
	var abonos []model.ClienteAbono
	err := r.db.WithContext(ctx).
		Where("compra_id = ?", compraID).
		Order("fecha_abono ASC, created_at ASC").
		Find(&abonos).Error
	return abonos, err
}

func (r *abonoRepo) SumEnRango(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.ClienteAbono{}).
		Where("fecha_abono >= ? AND fecha_abono < ?", desde, hasta).
		Select("COALESCE(SUM(monto), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *abonoRepo) SumByCompraTx(tx *gorm.DB, compraID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.Model(&model.ClienteAbono{}).
		Where("compra_id = ?", compraID).
		Select("COALESCE(SUM(monto), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
