package repository

import (
	"context"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferidoRepository interface {
	Create(ctx context.Context, ref *model.ClienteReferido) error
	CreateTx(tx *gorm.DB, ref *model.ClienteReferido) error
	// FindVinculo busca el registro de referido entre un referidor y un
	// referido concretos, en cualquier estado.
	FindVinculo(ctx context.Context, referidorID, referidoID uuid.UUID) (*model.ClienteReferido, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	ListByReferidor(ctx context.Context, referidorID uuid.UUID) ([]model.ClienteReferido, error)
	ListActivosByReferidor(ctx context.Context, referidorID uuid.UUID) ([]model.ClienteReferido, error)
	// RedimirActivosTx marca como redimidos todos los referidos activos del
	// referidor y devuelve cuántos cambió.
	RedimirActivosTx(tx *gorm.DB, referidorID uuid.UUID, fecha time.Time) (int64, error)

	DB() *gorm.DB
}

type referidoRepo struct{ db *gorm.DB }

func NewReferidoRepository(db *gorm.DB) ReferidoRepository {
	return &referidoRepo{db: db}
}

func (r *referidoRepo) DB() *gorm.DB { return r.db }

func (r *referidoRepo) Create(ctx context.Context, ref *model.ClienteReferido) error {
	return r.db.WithContext(ctx).Create(ref).Error
}

func (r *referidoRepo) CreateTx(tx *gorm.DB, ref *model.ClienteReferido) error {
	return tx.Create(ref).Error
}

func (r *referidoRepo) FindVinculo(ctx context.Context, referidorID, referidoID uuid.UUID) (*model.ClienteReferido, error) {
	var ref model.ClienteReferido
	err := r.db.WithContext(ctx).
		Where("cliente_referidor_id = ? AND cliente_referido_id = ?", referidorID, referidoID).
		First(&ref).Error
	return &ref, err
}

func (r *referidoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.ClienteReferido{}, id).Error
}

func (r *referidoRepo) ListByReferidor(ctx context.Context, referidorID uuid.UUID) ([]model.ClienteReferido, error) {
	var refs []model.ClienteReferido
	err := r.db.WithContext(ctx).
		Preload("Referido").
		Where("cliente_referidor_id = ?", referidorID).
		Order("fecha_referido DESC").
		Find(&refs).Error
	return refs, err
}

func (r *referidoRepo) ListActivosByReferidor(ctx context.Context, referidorID uuid.UUID) ([]model.ClienteReferido, error) {
	var refs []model.ClienteReferido
	err := r.db.WithContext(ctx).
		Where("cliente_referidor_id = ? AND estado = ?", referidorID, model.ReferidoActivo).
		Order("fecha_referido ASC").
		Find(&refs).Error
	return refs, err
}

func (r *referidoRepo) RedimirActivosTx(tx *gorm.DB, referidorID uuid.UUID, fecha time.Time) (int64, error) {
	res := tx.Model(&model.ClienteReferido{}).
		Where("cliente_referidor_id = ? AND estado = ?", referidorID, model.ReferidoActivo).
		Updates(map[string]interface{}{
			"estado":         model.ReferidoRedimido,
			"fecha_redimido": fecha,
		})
	return res.RowsAffected, res.Error
}
