package repository

import (
	"context"
	"errors"

	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfigRepository interface {
	Get(ctx context.Context, clave string) (string, error)
	// GetOr devuelve fallback cuando la clave no existe.
	GetOr(ctx context.Context, clave, fallback string) (string, error)
	Set(ctx context.Context, clave, valor, updatedBy string) error
}

type configRepo struct{ db *gorm.DB }

func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepo{db: db}
}

func (r *configRepo) Get(ctx context.Context, clave string) (string, error) {
	var c model.InventarioConfig
	err := r.db.WithContext(ctx).Where("clave = ?", clave).First(&c).Error
	if err != nil {
		return "", err
	}
	return c.Valor, nil
}

func (r *configRepo) GetOr(ctx context.Context, clave, fallback string) (string, error) {
	v, err := r.Get(ctx, clave)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *configRepo) Set(ctx context.Context, clave, valor, updatedBy string) error {
	c := model.InventarioConfig{Clave: clave, Valor: valor}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "clave"}},
		DoUpdates: clause.AssignmentColumns([]string{"valor", "updated_by", "updated_at"}),
	}).Create(&c).Error
}
