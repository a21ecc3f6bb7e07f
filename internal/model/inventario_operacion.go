package model

import (
	"time"

	"github.com/google/uuid"
)

// Operation kinds archived in inventario_operaciones.
const (
	OperacionReestockGlobal = "reestock_global"
	OperacionAdicionMinima  = "adicion_minima"
)

// InventarioOperacion archiva el cierre de un período (reestock global) o una
// adición específica. Detalles guarda el snapshot JSON del desglose de stock
// del período anterior. Las filas son inmutables después de creadas.
type InventarioOperacion struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo           string    `gorm:"not null;index"` // "reestock_global" | "adicion_minima"
	FechaOperacion time.Time `gorm:"not null;index"`
	CreatedBy      string    `gorm:"not null"`
	Descripcion    string
	// Detalles: snapshot estructurado (JSON) del stock por montura con
	// inicio/fin de período y totales agregados.
	Detalles  string `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
}

func (InventarioOperacion) TableName() string { return "inventario_operaciones" }

// DetalleOperacion is the JSON payload persisted in Detalles.
type DetalleOperacion struct {
	PeriodoInicio time.Time         `json:"periodo_inicio"`
	PeriodoFin    time.Time         `json:"periodo_fin"`
	Filas         []DetalleFila     `json:"filas"`
	Totales       DetalleTotales    `json:"totales"`
	Notas         map[string]string `json:"notas,omitempty"`
}

type DetalleFila struct {
	Seccion       string `json:"seccion"`
	TipoMontura   string `json:"tipo_montura"`
	TipoCompra    string `json:"tipo_compra"`
	StockInicial  int    `json:"stock_inicial"`
	StockAgregado int    `json:"stock_agregado"`
	StockSalidas  int    `json:"stock_salidas"`
	StockFinal    int    `json:"stock_final"`
}

type DetalleTotales struct {
	StockInicial  int `json:"stock_inicial"`
	StockAgregado int `json:"stock_agregado"`
	StockSalidas  int `json:"stock_salidas"`
	StockFinal    int `json:"stock_final"`
}
