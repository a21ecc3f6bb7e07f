package dto

import "github.com/shopspring/decimal"

type CrearClienteRequest struct {
	Nombres         string  `json:"nombres" validate:"required"`
	Cedula          string  `json:"cedula" validate:"required"`
	FechaNacimiento *string `json:"fecha_nacimiento"` // YYYY-MM-DD
	Telefono        string  `json:"telefono"`
	Correo          string  `json:"correo" validate:"omitempty,email"`
	// ClienteReferidorID marks the new customer as referred by an existing one.
	ClienteReferidorID *string `json:"cliente_referidor_id" validate:"omitempty,uuid"`
	// ComprasIniciales son compras registradas junto con el alta del cliente;
	// las calificantes generan cashback para el referidor.
	ComprasIniciales []CrearCompraRequest `json:"compras_iniciales" validate:"omitempty,dive"`
}

type ActualizarClienteRequest struct {
	Nombres         *string `json:"nombres"`
	Cedula          *string `json:"cedula"`
	FechaNacimiento *string `json:"fecha_nacimiento"`
	Telefono        *string `json:"telefono"`
	Correo          *string `json:"correo" validate:"omitempty,email"`
	// ClienteReferidorID: nil = sin cambio; "" = remover referidor;
	// uuid = asignar/cambiar referidor (retroactivo).
	ClienteReferidorID *string `json:"cliente_referidor_id"`
}

type ClienteResponse struct {
	ID                 string          `json:"id"`
	Nombres            string          `json:"nombres"`
	Cedula             string          `json:"cedula"`
	FechaNacimiento    *string         `json:"fecha_nacimiento,omitempty"`
	Telefono           string          `json:"telefono"`
	Correo             string          `json:"correo"`
	FechaRegistro      string          `json:"fecha_registro"`
	EsReferido         bool            `json:"es_referido"`
	ClienteReferidorID *string         `json:"cliente_referidor_id,omitempty"`
	CashbackAcumulado  decimal.Decimal `json:"cashback_acumulado"`
}

type ClienteFilter struct {
	Nombre string `form:"nombre"`
	Cedula string `form:"cedula"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type ReferidoResponse struct {
	ID                 string          `json:"id"`
	ClienteReferidorID string          `json:"cliente_referidor_id"`
	ClienteReferidoID  string          `json:"cliente_referido_id"`
	ReferidoNombre     string          `json:"referido_nombre,omitempty"`
	FechaReferido      string          `json:"fecha_referido"`
	Estado             string          `json:"estado"`
	CashbackGenerado   decimal.Decimal `json:"cashback_generado"`
	RangoPrecioCompra  string          `json:"rango_precio_compra,omitempty"`
	FechaRedimido      *string         `json:"fecha_redimido,omitempty"`
}

type RedimirCashbackResponse struct {
	ClienteID         string          `json:"cliente_id"`
	ReferidosRedimidos int             `json:"referidos_redimidos"`
	MontoRedimido     decimal.Decimal `json:"monto_redimido"`
	FechaRedencion    string          `json:"fecha_redencion"`
}
