package repository

import (
	"context"

	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OperacionRepository interface {
	CreateTx(tx *gorm.DB, op *model.InventarioOperacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventarioOperacion, error)
	List(ctx context.Context, tipo string, limit int) ([]model.InventarioOperacion, error)
}

type operacionRepo struct{ db *gorm.DB }

func NewOperacionRepository(db *gorm.DB) OperacionRepository {
	return &operacionRepo{db: db}
}

func (r *operacionRepo) CreateTx(tx *gorm.DB, op *model.InventarioOperacion) error {
	return tx.Create(op).Error
}

func (r *operacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventarioOperacion, error) {
	var op model.InventarioOperacion
	err := r.db.WithContext(ctx).First(&op, id).Error
	return &op, err
}

func (r *operacionRepo) List(ctx context.Context, tipo string, limit int) ([]model.InventarioOperacion, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Model(&model.InventarioOperacion{})
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}
	var ops []model.InventarioOperacion
	err := q.Order("created_at DESC").Limit(limit).Find(&ops).Error
	return ops, err
}
