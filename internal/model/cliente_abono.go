package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClienteAbono es un pago parcial contra una compra. No hay edición de monto:
// las correcciones se hacen borrando y recreando el abono.
type ClienteAbono struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FechaAbono time.Time       `gorm:"not null"`
	Nota       string
	CreatedAt  time.Time
}

func (ClienteAbono) TableName() string { return "cliente_abonos" }
