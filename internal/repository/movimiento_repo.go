package repository

import (
	"context"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimientoRepository interface {
	Create(ctx context.Context, m *model.InventarioMovimiento) error
	CreateTx(tx *gorm.DB, m *model.InventarioMovimiento) error
	// FindVentaByCompra busca el movimiento de venta de una compra concreta.
	FindVentaByCompra(ctx context.Context, compraID uuid.UUID) (*model.InventarioMovimiento, error)
	Update(ctx context.Context, m *model.InventarioMovimiento) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.InventarioMovimiento, int64, error)
	// ListEnRango devuelve todos los movimientos de una ventana de tiempo,
	// sin paginar, para los agregados del dashboard.
	ListEnRango(ctx context.Context, desde, hasta time.Time) ([]model.InventarioMovimiento, error)
	// ComprasSincronizadas devuelve el conjunto de referencias de compras que
	// ya tienen movimiento de venta (la clave de idempotencia del reconciler).
	ComprasSincronizadas(ctx context.Context) (map[uuid.UUID]struct{}, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository {
	return &movimientoRepo{db: db}
}

func (r *movimientoRepo) Create(ctx context.Context, m *model.InventarioMovimiento) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.InventarioMovimiento) error {
	return tx.Create(m).Error
}

func (r *movimientoRepo) FindVentaByCompra(ctx context.Context, compraID uuid.UUID) (*model.InventarioMovimiento, error) {
	var m model.InventarioMovimiento
	err := r.db.WithContext(ctx).
		Where("referencia = ? AND tipo = ?", compraID, model.MovimientoVenta).
		First(&m).Error
	return &m, err
}

func (r *movimientoRepo) Update(ctx context.Context, m *model.InventarioMovimiento) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *movimientoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.InventarioMovimiento{}, id).Error
}

func (r *movimientoRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.InventarioMovimiento, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InventarioMovimiento{})

	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Seccion != "" {
		q = q.Where("seccion = ?", filter.Seccion)
	}
	if filter.OperacionID != "" {
		q = q.Where("operacion_id = ?", filter.OperacionID)
	}
	if filter.Desde != "" {
		q = q.Where("created_at >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("created_at <= ?", filter.Hasta)
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
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movs []model.InventarioMovimiento
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movs).Error
	return movs, total, err
}

func (r *movimientoRepo) ListEnRango(ctx context.Context, desde, hasta time.Time) ([]model.InventarioMovimiento, error) {
	var movs []model.InventarioMovimiento
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", desde, hasta).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) ComprasSincronizadas(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	var refs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.InventarioMovimiento{}).
		Where("tipo = ? AND referencia IS NOT NULL", model.MovimientoVenta).
		Pluck("referencia", &refs).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]struct{}, len(refs))
	for _, id := range refs {
		set[id] = struct{}{}
	}
	return set, nil
}
