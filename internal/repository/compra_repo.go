package repository

import (
	"context"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompraRepository interface {
	Create(ctx context.Context, c *model.ClienteCompra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ClienteCompra, error)
	// FindConAbonos precarga el historial de abonos de la compra.
	FindConAbonos(ctx context.Context, id uuid.UUID) (*model.ClienteCompra, error)
	Update(ctx context.Context, c *model.ClienteCompra) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.ClienteCompra, error)
	// ListDesde devuelve las compras creadas desde la fecha de corte, con el
	// cliente precargado. Es la entrada del reconciler de sincronización.
	ListDesde(ctx context.Context, desde time.Time) ([]model.ClienteCompra, error)
	// ListCalificantes devuelve las compras de gafas de un cliente, más
	// recientes primero. La primera es la última compra del cliente, la que
	// fija el tope del cashback retroactivo.
	ListCalificantes(ctx context.Context, clienteID uuid.UUID) ([]model.ClienteCompra, error)
	// SetAbonoTotal fija el total abonado denormalizado de la compra.
	SetAbonoTotal(ctx context.Context, tx *gorm.DB, compraID uuid.UUID, total decimal.Decimal) error
	// ListConDeuda devuelve compras cuyo abonado no cubre el precio.
	ListConDeuda(ctx context.Context) ([]model.ClienteCompra, error)

	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository {
	return &compraRepo{db: db}
}

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) Create(ctx context.Context, c *model.ClienteCompra) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ClienteCompra, error) {
	var c model.ClienteCompra
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *compraRepo) FindConAbonos(ctx context.Context, id uuid.UUID) (*model.ClienteCompra, error) {
	var c model.ClienteCompra
	err := r.db.WithContext(ctx).
		Preload("Abonos", func(db *gorm.DB) *gorm.DB {
			return db.Order("fecha_abono ASC, created_at ASC")
		}).
		First(&c, id).Error
	return &c, err
}

func (r *compraRepo) Update(ctx context.Context, c *model.ClienteCompra) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *compraRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ClienteCompra{}, id).Error
}

func (r *compraRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.ClienteCompra, error) {
	var compras []model.ClienteCompra
	err := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Order("fecha_compra DESC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) ListDesde(ctx context.Context, desde time.Time) ([]model.ClienteCompra, error) {
	var compras []model.ClienteCompra
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Where("created_at >= ?", desde).
		Order("created_at ASC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) ListCalificantes(ctx context.Context, clienteID uuid.UUID) ([]model.ClienteCompra, error) {
	var compras []model.ClienteCompra
	err := r.db.WithContext(ctx).
		Where("cliente_id = ? AND tipo_compra IN ?", clienteID,
			[]string{model.CompraGafasFormuladas, model.CompraGafasSol}).
		Order("fecha_compra DESC, created_at DESC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) SetAbonoTotal(ctx context.Context, tx *gorm.DB, compraID uuid.UUID, total decimal.Decimal) error {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	return db.Model(&model.ClienteCompra{}).
		Where("id = ?", compraID).
		UpdateColumn("abono", total).Error
}

func (r *compraRepo) ListConDeuda(ctx context.Context) ([]model.ClienteCompra, error) {
	var compras []model.ClienteCompra
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Where("precio_total > abono").
		Order("fecha_compra ASC").
		Find(&compras).Error
	return compras, err
}
