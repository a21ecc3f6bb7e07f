package repository

import (
	"context"

	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	FindByCedula(ctx context.Context, cedula string) (*model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error)

	// IncrementarCashback suma (o resta, con delta negativo) al acumulado del
	// referidor con un UPDATE atómico. Nunca deja el acumulado bajo cero.
	IncrementarCashback(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, delta decimal.Decimal) error
	// ResetCashbackTx pone el acumulado en cero dentro de una redención.
	ResetCashbackTx(tx *gorm.DB, clienteID uuid.UUID) error

	DB() *gorm.DB
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository {
	return &clienteRepo{db: db}
}

func (r *clienteRepo) DB() *gorm.DB { return r.db }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clienteRepo) FindByCedula(ctx context.Context, cedula string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("cedula = ?", cedula).First(&c).Error
	return &c, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Cliente{}, id).Error
}

func (r *clienteRepo) List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Cliente{})

	if filter.Nombre != "" {
		q = q.Where("nombres ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Cedula != "" {
		q = q.Where("cedula = ?", filter.Cedula)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var clientes []model.Cliente
	err := q.Order("nombres ASC").Offset((page - 1) * limit).Limit(limit).Find(&clientes).Error
	return clientes, total, err
}

func (r *clienteRepo) IncrementarCashback(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, delta decimal.Decimal) error {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	return db.Model(&model.Cliente{}).
		Where("id = ?", clienteID).
		UpdateColumn("cashback_acumulado", gorm.Expr("GREATEST(cashback_acumulado + ?, 0)", delta)).Error
}

func (r *clienteRepo) ResetCashbackTx(tx *gorm.DB, clienteID uuid.UUID) error {
	return tx.Model(&model.Cliente{}).
		Where("id = ?", clienteID).
		UpdateColumn("cashback_acumulado", decimal.Zero).Error
}
