package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement kinds recorded in inventario_movimientos.
const (
	MovimientoReestock = "reestock"
	MovimientoAdicion  = "adicion"
	MovimientoVenta    = "venta"
)

// InventarioMovimiento registra cada evento que afecta stock.
// Los movimientos "reestock" y "adicion" son inmutables; los de tipo "venta"
// se reescriben cuando se edita la compra origen y se eliminan cuando la
// compra se borra (con ajuste compensatorio de stock).
type InventarioMovimiento struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// OperacionID enlaza reestocks/adiciones con su archivo de período.
	// Las ventas no tienen operación.
	OperacionID *uuid.UUID `gorm:"type:uuid;index"`

	Seccion     string `gorm:"not null;index"`
	TipoMontura string `gorm:"not null"`
	TipoCompra  string `gorm:"not null"`

	Tipo     string `gorm:"not null;index"` // "reestock" | "adicion" | "venta"
	Cantidad int    `gorm:"not null"`       // siempre positivo; la dirección la implica Tipo

	Monto *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Nota  string
	// Referencia enlaza movimientos de venta con la compra que los originó.
	Referencia    *uuid.UUID `gorm:"type:uuid;index"`
	ClienteNombre string
	CreatedAt     time.Time `gorm:"index"`
}

func (InventarioMovimiento) TableName() string { return "inventario_movimientos" }
