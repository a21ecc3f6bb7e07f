package service

import (
	"context"
	"testing"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type abonoFixture struct {
	svc     AbonoService
	abonos  *stubAbonoRepo
	compras *stubCompraRepo
}

func newAbonoFixture(t *testing.T) (*abonoFixture, *model.ClienteCompra) {
	t.Helper()
	f := &abonoFixture{
		abonos:  newStubAbonoRepo(),
		compras: newStubCompraRepo(),
	}
	f.svc = NewAbonoService(f.abonos, f.compras)

	compra := &model.ClienteCompra{
		ClienteID:   uuid.New(),
		TipoLente:   "Monofocal",
		TipoMontura: "Aluminio",
		TipoCompra:  model.CompraGafasFormuladas,
		RangoPrecio: "300.000 - 600.000",
		PrecioTotal: decimal.NewFromInt(400000),
		FechaCompra: time.Now(),
	}
	require.NoError(t, f.compras.Create(context.Background(), compra))
	return f, compra
}

func (f *abonoFixture) abonoTotal(t *testing.T, compraID uuid.UUID) decimal.Decimal {
	t.Helper()
	compra, err := f.compras.FindByID(context.Background(), compraID)
	require.NoError(t, err)
	return compra.Abono
}

func TestCrearAbonoRecalculaTotal(t *testing.T) {
	f, compra := newAbonoFixture(t)

	_, err := f.svc.CrearAbono(context.Background(), compra.ID, dto.CrearAbonoRequest{
		Monto:      decimal.NewFromInt(100000),
		FechaAbono: "2026-08-01",
	})
	require.NoError(t, err)

	resp, err := f.svc.CrearAbono(context.Background(), compra.ID, dto.CrearAbonoRequest{
		Monto:      decimal.NewFromInt(150000),
		FechaAbono: "2026-08-15",
		Nota:       "Segundo abono",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-08-15", resp.FechaAbono)

	// El denormalizado de la compra es la suma del historial.
	assert.True(t, f.abonoTotal(t, compra.ID).Equal(decimal.NewFromInt(250000)))

	historial, err := f.svc.ListarAbonos(context.Background(), compra.ID)
	require.NoError(t, err)
	require.Len(t, historial, 2)
	assert.True(t, historial[0].Monto.Equal(decimal.NewFromInt(100000)))
}

func TestCrearAbonoValidaciones(t *testing.T) {
	f, compra := newAbonoFixture(t)

	_, err := f.svc.CrearAbono(context.Background(), uuid.New(), dto.CrearAbonoRequest{
		Monto:      decimal.NewFromInt(1000),
		FechaAbono: "2026-08-01",
	})
	assert.Error(t, err, "compra inexistente")

	_, err = f.svc.CrearAbono(context.Background(), compra.ID, dto.CrearAbonoRequest{
		Monto:      decimal.NewFromInt(1000),
		FechaAbono: "01/08/2026",
	})
	assert.Error(t, err, "formato de fecha")
}

func TestEliminarAbonoRecalculaTotal(t *testing.T) {
	f, compra := newAbonoFixture(t)

	primero, err := f.svc.CrearAbono(context.Background(), compra.ID, dto.CrearAbonoRequest{
		Monto:      decimal.NewFromInt(100000),
		FechaAbono: "2026-08-01",
	})
	require.NoError(t, err)
	_, err = f.svc.CrearAbono(context.Background(), compra.ID, dto.CrearAbonoRequest{
		Monto:      decimal.NewFromInt(150000),
		FechaAbono: "2026-08-15",
	})
	require.NoError(t, err)

	id, err := uuid.Parse(primero.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.EliminarAbono(context.Background(), id))

	assert.True(t, f.abonoTotal(t, compra.ID).Equal(decimal.NewFromInt(150000)))

	assert.Error(t, f.svc.EliminarAbono(context.Background(), uuid.New()), "abono inexistente")
}
