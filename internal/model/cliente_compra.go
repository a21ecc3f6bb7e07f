package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase types. Only the first two are stock-trackable and accrue cashback.
const (
	CompraGafasFormuladas = "Gafas formuladas"
	CompraGafasSol        = "Gafas de sol"
	CompraConsulta        = "Consulta optometria"
)

// MonturaSinMontura is the sentinel for consultation-only visits.
const MonturaSinMontura = "Sin Montura"

// ClienteCompra es una compra registrada para un cliente.
// Abono es el total abonado denormalizado: suma de los cliente_abonos de la
// compra, recalculado en cada alta/baja de abono.
type ClienteCompra struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID uuid.UUID `gorm:"type:uuid;not null;index"`

	TipoLente   string `gorm:"not null"`
	TipoMontura string `gorm:"not null"`
	TipoCompra  string `gorm:"not null;index"`
	RangoPrecio string `gorm:"not null"`
	// Seccion es opcional: si el operador no la elige, se infiere de la
	// montura (premium) o la venta no impacta stock.
	Seccion *string

	PrecioTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Abono       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	MetodoPago  string
	NotaPago    string
	FechaCompra time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	Cliente *Cliente       `gorm:"foreignKey:ClienteID"`
	Abonos  []ClienteAbono `gorm:"foreignKey:CompraID"`
}

func (ClienteCompra) TableName() string { return "cliente_compras" }

// EsTrackeable reports whether the purchase counts for the stock ledger.
func (c *ClienteCompra) EsTrackeable() bool {
	return (c.TipoCompra == CompraGafasFormuladas || c.TipoCompra == CompraGafasSol) &&
		c.TipoMontura != MonturaSinMontura
}
