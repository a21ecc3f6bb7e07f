package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReestockItem es una fila del formulario de reestock global. El caller debe
// enviar una entrada por cada combinación actualmente trackeada: cantidad 0
// significa "no agregar", no "omitir".
type ReestockItem struct {
	Seccion       string `json:"seccion" validate:"required"`
	TipoMontura   string `json:"tipo_montura" validate:"required"`
	TipoCompra    string `json:"tipo_compra" validate:"required"`
	CantidadNueva int    `json:"cantidad_nueva" validate:"min=0"`
}

type ReestockGlobalRequest struct {
	Descripcion string         `json:"descripcion"`
	StockNuevo  []ReestockItem `json:"stock_nuevo" validate:"required,min=1,dive"`
}

type AdicionEspecificaRequest struct {
	Seccion     string `json:"seccion" validate:"required"`
	TipoMontura string `json:"tipo_montura" validate:"required"`
	TipoCompra  string `json:"tipo_compra" validate:"required,oneof='Gafas formuladas' 'Gafas de sol'"`
	Cantidad    int    `json:"cantidad" validate:"required,min=1"`
	Nota        string `json:"nota"`
}

type OperacionResponse struct {
	ID             string `json:"id"`
	Tipo           string `json:"tipo"`
	Descripcion    string `json:"descripcion,omitempty"`
	FechaOperacion string `json:"fecha_operacion"`
	CreatedBy      string `json:"created_by"`
	Detalles       any    `json:"detalles,omitempty"`
}

type StockRowResponse struct {
	Seccion       string `json:"seccion"`
	TipoMontura   string `json:"tipo_montura"`
	TipoCompra    string `json:"tipo_compra"`
	StockInicial  int    `json:"stock_inicial"`
	StockAgregado int    `json:"stock_agregado"`
	StockSalidas  int    `json:"stock_salidas"`
	StockActual   int    `json:"stock_actual"`
	StockMinimo   int    `json:"stock_minimo"`
	PeriodoInicio string `json:"periodo_inicio"`
	Alerta        bool   `json:"alerta"`
}

// StockCardResponse agrupa las filas de una sección para el tablero.
type StockCardResponse struct {
	Seccion  string             `json:"seccion"`
	Monturas []StockRowResponse `json:"monturas"`
	Totales  StockTotales       `json:"totales"`
}

type StockTotales struct {
	StockInicial  int `json:"stock_inicial"`
	StockAgregado int `json:"stock_agregado"`
	StockSalidas  int `json:"stock_salidas"`
	StockActual   int `json:"stock_actual"`
}

type MovimientoResponse struct {
	ID            string           `json:"id"`
	OperacionID   *string          `json:"operacion_id,omitempty"`
	Seccion       string           `json:"seccion"`
	TipoMontura   string           `json:"tipo_montura"`
	TipoCompra    string           `json:"tipo_compra"`
	Tipo          string           `json:"tipo"`
	Cantidad      int              `json:"cantidad"`
	Monto         *decimal.Decimal `json:"monto,omitempty"`
	Nota          string           `json:"nota,omitempty"`
	Referencia    *string          `json:"referencia,omitempty"`
	ClienteNombre string           `json:"cliente_nombre,omitempty"`
	CreatedAt     string           `json:"created_at"`
}

type MovimientoFilter struct {
	Desde       string `form:"desde"`
	Hasta       string `form:"hasta"`
	Tipo        string `form:"tipo"`
	Seccion     string `form:"seccion"`
	OperacionID string `form:"operacion_id"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

// SincronizacionParams son los parámetros efectivos de una corrida de
// sincronización. El caller los resuelve (de inventario_config o de un
// override manual) y los pasa explícitos: la corrida nunca lee estado global.
type SincronizacionParams struct {
	FechaInicio    time.Time
	TrackingActivo bool
}

type SincronizacionResponse struct {
	TotalCompras       int `json:"total_compras"`
	TotalSincronizadas int `json:"total_sincronizadas"`
}

type UpdateStockMinimoRequest struct {
	Seccion     string `json:"seccion" validate:"required"`
	TipoMontura string `json:"tipo_montura" validate:"required"`
	TipoCompra  string `json:"tipo_compra" validate:"required"`
	StockMinimo int    `json:"stock_minimo" validate:"min=0"`
}

type ConfigInventarioRequest struct {
	FechaInicioTracking string `json:"fecha_inicio_tracking" validate:"required"` // YYYY-MM-DD
	TrackingActivo      bool   `json:"tracking_activo"`
}

type ConfigInventarioResponse struct {
	FechaInicioTracking string `json:"fecha_inicio_tracking"`
	TrackingActivo      bool   `json:"tracking_activo"`
}
