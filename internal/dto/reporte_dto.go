package dto

import "github.com/shopspring/decimal"

// DashboardInventario resume el movimiento de inventario de un período
// (day/week/month) junto con el dinero real recibido vía abonos.
type DashboardInventario struct {
	Periodo           string          `json:"periodo"`
	MonturasVendidas  int             `json:"monturas_vendidas"`
	Entradas          int             `json:"entradas"`
	Salidas           int             `json:"salidas"`
	DineroAcumulado   decimal.Decimal `json:"dinero_acumulado"`
	DineroRealEntrado decimal.Decimal `json:"dinero_real_entrado"`
	DineroPendiente   decimal.Decimal `json:"dinero_pendiente"`
}

// RotacionItem es una fila del reporte de rotación de inventario.
type RotacionItem struct {
	Seccion      string  `json:"seccion"`
	TipoMontura  string  `json:"tipo_montura"`
	StockActual  int     `json:"stock_actual"`
	StockMinimo  int     `json:"stock_minimo"`
	TotalVendido int     `json:"total_vendido"`
	Rotacion     float64 `json:"rotacion"`
}

// ClienteDeudor agrupa las compras con saldo pendiente de un cliente.
type ClienteDeudor struct {
	ClienteID         string          `json:"cliente_id"`
	ClienteNombre     string          `json:"cliente_nombre"`
	ClienteCedula     string          `json:"cliente_cedula"`
	TotalCompras      decimal.Decimal `json:"total_compras"`
	TotalAbonado      decimal.Decimal `json:"total_abonado"`
	SaldoPendiente    decimal.Decimal `json:"saldo_pendiente"`
	ComprasPendientes int             `json:"compras_pendientes"`
	UltimaCompra      string          `json:"ultima_compra"`
	Detalle           []DeudaDetalle  `json:"detalle"`
}

type DeudaDetalle struct {
	CompraID    string          `json:"compra_id"`
	Fecha       string          `json:"fecha"`
	TipoMontura string          `json:"tipo_montura"`
	RangoPrecio string          `json:"rango_precio"`
	PrecioTotal decimal.Decimal `json:"precio_total"`
	Abonado     decimal.Decimal `json:"abonado"`
	Saldo       decimal.Decimal `json:"saldo"`
}
