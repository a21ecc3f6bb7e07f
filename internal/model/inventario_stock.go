package model

import (
	"time"

	"github.com/google/uuid"
)

// InventarioStock lleva los contadores de stock de un período por combinación
// (sección, tipo de montura, tipo de compra).
//
// StockActual es derivado: siempre se recalcula como
// stock_inicial + stock_agregado - stock_salidas en la misma sentencia UPDATE
// que muta cualquiera de los otros contadores. Nunca se escribe directo salvo
// durante el cierre de período (reestock global).
type InventarioStock struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Seccion     string    `gorm:"not null;uniqueIndex:idx_stock_combo,priority:1"`
	TipoMontura string    `gorm:"not null;uniqueIndex:idx_stock_combo,priority:2"`
	TipoCompra  string    `gorm:"not null;uniqueIndex:idx_stock_combo,priority:3"`

	// Contadores del período vigente
	StockInicial  int `gorm:"not null;default:0"`
	StockAgregado int `gorm:"not null;default:0"`
	StockSalidas  int `gorm:"not null;default:0"`
	StockActual   int `gorm:"not null;default:0"`
	StockMinimo   int `gorm:"not null;default:2"`

	PeriodoInicio time.Time `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (InventarioStock) TableName() string { return "inventario_stock" }

// BajoMinimo reports whether the row is under its alert threshold.
func (s *InventarioStock) BajoMinimo() bool { return s.StockActual < s.StockMinimo }
