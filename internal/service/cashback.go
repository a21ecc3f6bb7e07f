package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Cashback por rango de precio de la compra calificante, en pesos.
var (
	cashbackNivel1 = decimal.NewFromInt(10000) // hasta 300.000
	cashbackNivel2 = decimal.NewFromInt(15000) // hasta 600.000
	cashbackNivel3 = decimal.NewFromInt(20000) // hasta 1.000.000
	cashbackNivel4 = decimal.NewFromInt(25000) // hasta 1.500.000
	cashbackNivel5 = decimal.NewFromInt(30000) // 1.500.000 en adelante
)

// CalcularCashback mapea la etiqueta de rango de precio de una compra al
// monto de cashback que genera para el referidor. La etiqueta viene del
// formulario de compra ("300.000 - 600.000", "1.500.000 en adelante", ...):
// se toma la cota superior del rango, ignorando separadores de miles.
// Una etiqueta vacía o irreconocible genera el nivel mínimo.
func CalcularCashback(rangoPrecio string) decimal.Decimal {
	rango := strings.ToLower(strings.TrimSpace(rangoPrecio))
	if rango == "" {
		return cashbackNivel1
	}
	if strings.Contains(rango, "adelante") {
		return cashbackNivel5
	}

	tope := topeDeRango(rango)
	switch {
	case tope <= 0:
		return cashbackNivel1
	case tope <= 300000:
		return cashbackNivel1
	case tope <= 600000:
		return cashbackNivel2
	case tope <= 1000000:
		return cashbackNivel3
	case tope <= 1500000:
		return cashbackNivel4
	default:
		return cashbackNivel5
	}
}

// topeDeRango extrae el último número de la etiqueta (la cota superior),
// descartando puntos y espacios. Devuelve 0 si no hay dígitos.
func topeDeRango(rango string) int64 {
	var tope int64
	var actual int64
	enNumero := false
	for _, r := range rango {
		switch {
		case r >= '0' && r <= '9':
			actual = actual*10 + int64(r-'0')
			enNumero = true
		case r == '.' && enNumero:
			// separador de miles dentro del número
		default:
			if enNumero {
				tope = actual
				actual = 0
				enNumero = false
			}
		}
	}
	if enNumero {
		tope = actual
	}
	return tope
}
