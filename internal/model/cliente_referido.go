package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Referral states.
const (
	ReferidoActivo   = "activo"
	ReferidoRedimido = "redimido"
)

// ClienteReferido vincula un referidor con un cliente referido.
// CashbackGenerado se calcula una sola vez al crear el registro, a partir del
// rango de precio de la compra calificante del referido.
type ClienteReferido struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteReferidorID uuid.UUID `gorm:"type:uuid;not null;index"`
	ClienteReferidoID  uuid.UUID `gorm:"type:uuid;not null;index"`

	FechaReferido     time.Time       `gorm:"not null"`
	Estado            string          `gorm:"not null;default:'activo';index"` // "activo" | "redimido"
	CashbackGenerado  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	RangoPrecioCompra string
	FechaRedimido     *time.Time
	CreatedAt         time.Time

	Referidor *Cliente `gorm:"foreignKey:ClienteReferidorID"`
	Referido  *Cliente `gorm:"foreignKey:ClienteReferidoID"`
}

func (ClienteReferido) TableName() string { return "cliente_referidos" }
