package dto

import "github.com/shopspring/decimal"

type CrearCompraRequest struct {
	ClienteID   string          `json:"cliente_id" validate:"omitempty,uuid"`
	TipoLente   string          `json:"tipo_lente" validate:"required"`
	TipoMontura string          `json:"tipo_montura" validate:"required"`
	TipoCompra  string          `json:"tipo_compra" validate:"required,oneof='Gafas formuladas' 'Gafas de sol' 'Consulta optometria'"`
	RangoPrecio string          `json:"rango_precio" validate:"required"`
	Seccion     *string         `json:"seccion"`
	PrecioTotal decimal.Decimal `json:"precio_total" validate:"min=0"`
	// AbonoInicial crea el primer abono del historial junto con la compra.
	AbonoInicial *decimal.Decimal `json:"abono_inicial" validate:"omitempty,gt=0"`
	MetodoPago   string           `json:"metodo_pago"`
	NotaPago     string           `json:"nota_pago"`
}

type ActualizarCompraRequest struct {
	TipoLente   *string          `json:"tipo_lente"`
	TipoMontura *string          `json:"tipo_montura"`
	TipoCompra  *string          `json:"tipo_compra" validate:"omitempty,oneof='Gafas formuladas' 'Gafas de sol' 'Consulta optometria'"`
	RangoPrecio *string          `json:"rango_precio"`
	Seccion     *string          `json:"seccion"`
	PrecioTotal *decimal.Decimal `json:"precio_total" validate:"omitempty,min=0"`
	MetodoPago  *string          `json:"metodo_pago"`
	NotaPago    *string          `json:"nota_pago"`
}

type CompraResponse struct {
	ID          string          `json:"id"`
	ClienteID   string          `json:"cliente_id"`
	TipoLente   string          `json:"tipo_lente"`
	TipoMontura string          `json:"tipo_montura"`
	TipoCompra  string          `json:"tipo_compra"`
	RangoPrecio string          `json:"rango_precio"`
	Seccion     *string         `json:"seccion,omitempty"`
	PrecioTotal decimal.Decimal `json:"precio_total"`
	Abonado     decimal.Decimal `json:"abonado"`
	SaldoDeuda  decimal.Decimal `json:"saldo_deuda"`
	MetodoPago  string          `json:"metodo_pago,omitempty"`
	FechaCompra string          `json:"fecha_compra"`
	Abonos      []AbonoResponse `json:"abonos,omitempty"`
}

type CrearAbonoRequest struct {
	Monto      decimal.Decimal `json:"monto" validate:"required,gt=0"`
	FechaAbono string          `json:"fecha_abono" validate:"required"` // YYYY-MM-DD
	Nota       string          `json:"nota"`
}

type AbonoResponse struct {
	ID         string          `json:"id"`
	CompraID   string          `json:"compra_id"`
	Monto      decimal.Decimal `json:"monto"`
	FechaAbono string          `json:"fecha_abono"`
	Nota       string          `json:"nota,omitempty"`
}
