package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalcularCashbackPorRango(t *testing.T) {
	cases := []struct {
		rango  string
		monto  int64
	}{
		{"Hasta 300.000", 10000},
		{"100.000 - 300.000", 10000},
		{"300.000 - 600.000", 15000},
		{"600.000 - 1.000.000", 20000},
		{"1.000.000 - 1.500.000", 25000},
		{"1.500.000 en adelante", 30000},
		{"EN ADELANTE", 30000},
		{"2.000.000 - 3.000.000", 30000},
	}
	for _, tc := range cases {
		t.Run(tc.rango, func(t *testing.T) {
			got := CalcularCashback(tc.rango)
			assert.True(t, got.Equal(decimal.NewFromInt(tc.monto)),
				"rango %q: esperaba %d, obtuve %s", tc.rango, tc.monto, got)
		})
	}
}

func TestCalcularCashbackEtiquetasRaras(t *testing.T) {
	// Vacío o sin dígitos cae al nivel mínimo, nunca falla.
	assert.True(t, CalcularCashback("").Equal(decimal.NewFromInt(10000)))
	assert.True(t, CalcularCashback("   ").Equal(decimal.NewFromInt(10000)))
	assert.True(t, CalcularCashback("rango desconocido").Equal(decimal.NewFromInt(10000)))
	// El separador de miles no cambia la cota: "600.000" es 600000, no 600.
	assert.True(t, CalcularCashback("hasta 600.000 pesos").Equal(decimal.NewFromInt(15000)))
}
