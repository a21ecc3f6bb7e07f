package repository

import (
	"context"

	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"gorm.io/gorm"
)

// StockRepository is the data access contract for inventario_stock rows.
//
// Counter mutations are server-side atomic increments (UPDATE ... SET x = x + ?)
// — never read-modify-write from the client — so that two operators hitting
// the same row concurrently cannot lose updates. Every counter UPDATE also
// recomputes stock_actual in the same statement; the DB trigger backs this up.
type StockRepository interface {
	Upsert(ctx context.Context, s *model.InventarioStock) error
	Find(ctx context.Context, seccion, tipoMontura, tipoCompra string) (*model.InventarioStock, error)
	ListAll(ctx context.Context) ([]model.InventarioStock, error)
	ListBySeccion(ctx context.Context, seccion string) ([]model.InventarioStock, error)

	// IncrementarAgregado suma cantidad a stock_agregado (adición específica).
	IncrementarAgregado(ctx context.Context, tx *gorm.DB, seccion, tipoMontura, tipoCompra string, cantidad int) error
	// IncrementarSalidas suma 1 a stock_salidas (venta). El stock puede quedar
	// negativo: la venta no se bloquea por falta de inventario.
	IncrementarSalidas(ctx context.Context, seccion, tipoMontura, tipoCompra string) error
	// DecrementarSalidas resta 1 a stock_salidas con piso en cero (reversión).
	DecrementarSalidas(ctx context.Context, seccion, tipoMontura, tipoCompra string) error
	// CerrarPeriodo resetea los contadores de una fila dentro del reestock
	// global: inicial = stock_actual previo, agregado = cantidad nueva,
	// salidas = 0. Única operación que reinicia stock_salidas.
	CerrarPeriodoTx(tx *gorm.DB, s *model.InventarioStock, cantidadNueva int) error

	UpdateStockMinimo(ctx context.Context, seccion, tipoMontura, tipoCompra string, minimo int) error
	ListBajoMinimo(ctx context.Context) ([]model.InventarioStock, error)

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) Upsert(ctx context.Context, s *model.InventarioStock) error {
	return r.db.WithContext(ctx).
		Where("seccion = ? AND tipo_montura = ? AND tipo_compra = ?", s.Seccion, s.TipoMontura, s.TipoCompra).
		Assign(map[string]interface{}{"stock_minimo": s.StockMinimo}).
		FirstOrCreate(s).Error
}

func (r *stockRepo) Find(ctx context.Context, seccion, tipoMontura, tipoCompra string) (*model.InventarioStock, error) {
	var s model.InventarioStock
	err := r.db.WithContext(ctx).
		Where("seccion = ? AND tipo_montura = ? AND tipo_compra = ?", seccion, tipoMontura, tipoCompra).
		First(&s).Error
	return &s, err
}

func (r *stockRepo) ListAll(ctx context.Context) ([]model.InventarioStock, error) {
	var rows []model.InventarioStock
	err := r.db.WithContext(ctx).
		Order("seccion ASC, tipo_compra ASC, tipo_montura ASC").
		Find(&rows).Error
	return rows, err
}

func (r *stockRepo) ListBySeccion(ctx context.Context, seccion string) ([]model.InventarioStock, error) {
	var rows []model.InventarioStock
	err := r.db.WithContext(ctx).
		Where("seccion = ?", seccion).
		Order("tipo_compra ASC, tipo_montura ASC").
		Find(&rows).Error
	return rows, err
}

func (r *stockRepo) IncrementarAgregado(ctx context.Context, tx *gorm.DB, seccion, tipoMontura, tipoCompra string, cantidad int) error {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	return db.Model(&model.InventarioStock{}).
		Where("seccion = ? AND tipo_montura = ? AND tipo_compra = ?", seccion, tipoMontura, tipoCompra).
		Updates(map[string]interface{}{
			"stock_agregado": gorm.Expr("stock_agregado + ?", cantidad),
			"stock_actual":   gorm.Expr("stock_inicial + stock_agregado + ? - stock_salidas", cantidad),
		}).Error
}

func (r *stockRepo) IncrementarSalidas(ctx context.Context, seccion, tipoMontura, tipoCompra string) error {
	return r.db.WithContext(ctx).Model(&model.InventarioStock{}).
		Where("seccion = ? AND tipo_montura = ? AND tipo_compra = ?", seccion, tipoMontura, tipoCompra).
		Updates(map[string]interface{}{
			"stock_salidas": gorm.Expr("stock_salidas + 1"),
			"stock_actual":  gorm.Expr("stock_inicial + stock_agregado - (stock_salidas + 1)"),
		}).Error
}

func (r *stockRepo) DecrementarSalidas(ctx context.Context, seccion, tipoMontura, tipoCompra string) error {
	return r.db.WithContext(ctx).Model(&model.InventarioStock{}).
		Where("seccion = ? AND tipo_montura = ? AND tipo_compra = ?", seccion, tipoMontura, tipoCompra).
		Updates(map[string]interface{}{
			"stock_salidas": gorm.Expr("GREATEST(stock_salidas - 1, 0)"),
			"stock_actual":  gorm.Expr("stock_inicial + stock_agregado - GREATEST(stock_salidas - 1, 0)"),
		}).Error
}

func (r *stockRepo) CerrarPeriodoTx(tx *gorm.DB, s *model.InventarioStock, cantidadNueva int) error {
	return tx.Model(&model.InventarioStock{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"stock_inicial":  s.StockActual,
			"stock_agregado": cantidadNueva,
			"stock_salidas":  0,
			"stock_actual":   s.StockActual + cantidadNueva,
			"periodo_inicio": gorm.Expr("NOW()"),
		}).Error
}

func (r *stockRepo) UpdateStockMinimo(ctx context.Context, seccion, tipoMontura, tipoCompra string, minimo int) error {
	return r.db.WithContext(ctx).Model(&model.InventarioStock{}).
		Where("seccion = ? AND tipo_montura = ? AND tipo_compra = ?", seccion, tipoMontura, tipoCompra).
		Update("stock_minimo", minimo).Error
}

func (r *stockRepo) ListBajoMinimo(ctx context.Context) ([]model.InventarioStock, error) {
	var rows []model.InventarioStock
	err := r.db.WithContext(ctx).
		Where("stock_actual < stock_minimo").
		Order("seccion ASC, tipo_montura ASC").
		Find(&rows).Error
	return rows, err
}
