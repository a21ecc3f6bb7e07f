package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cliente es el registro maestro de un cliente de la óptica.
// CashbackAcumulado es la suma de cashback_generado de todos sus referidos
// activos como referidor; se mantiene denormalizado y se resetea a cero en
// bloque al redimir.
type Cliente struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombres         string    `gorm:"not null;index"`
	Cedula          string    `gorm:"uniqueIndex;not null"`
	FechaNacimiento *time.Time
	Telefono        string
	Correo          string
	FechaRegistro   time.Time `gorm:"not null"`

	EsReferido         bool            `gorm:"not null;default:false"`
	ClienteReferidorID *uuid.UUID      `gorm:"type:uuid;index"`
	CashbackAcumulado  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Referidor *Cliente `gorm:"foreignKey:ClienteReferidorID"`
}

func (Cliente) TableName() string { return "clientes" }
