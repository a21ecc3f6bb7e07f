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

type inventarioFixture struct {
	svc     InventarioService
	stock   *stubStockRepo
	movs    *stubMovimientoRepo
	ops     *stubOperacionRepo
	configs *stubConfigRepo
	compras *stubCompraRepo
}

func newInventarioFixture() *inventarioFixture {
	f := &inventarioFixture{
		stock:   newStubStockRepo(),
		movs:    newStubMovimientoRepo(),
		ops:     newStubOperacionRepo(),
		configs: newStubConfigRepo(),
		compras: newStubCompraRepo(),
	}
	f.svc = NewInventarioService(f.stock, f.movs, f.ops, f.configs, f.compras, testResolver(), nil)
	return f
}

func (f *inventarioFixture) seedRow(seccion, montura, compra string, inicial, agregado, salidas int) {
	seedStock(f.stock, seccion, montura, compra, inicial, agregado, salidas)
}

func seedStock(stock *stubStockRepo, seccion, montura, compra string, inicial, agregado, salidas int) {
	stock.rows[comboKey(seccion, montura, compra)] = &model.InventarioStock{
		ID:            uuid.New(),
		Seccion:       seccion,
		TipoMontura:   montura,
		TipoCompra:    compra,
		StockInicial:  inicial,
		StockAgregado: agregado,
		StockSalidas:  salidas,
		StockActual:   inicial + agregado - salidas,
		StockMinimo:   2,
		PeriodoInicio: time.Now().Add(-30 * 24 * time.Hour),
	}
}

func (f *inventarioFixture) row(t *testing.T, seccion, montura, compra string) *model.InventarioStock {
	t.Helper()
	row, ok := f.stock.rows[comboKey(seccion, montura, compra)]
	require.True(t, ok, "no existe la fila %s/%s/%s", seccion, montura, compra)
	return row
}

func compraGafas(seccion string) *model.ClienteCompra {
	c := &model.ClienteCompra{
		ID:          uuid.New(),
		ClienteID:   uuid.New(),
		TipoLente:   "Monofocal",
		TipoMontura: "Aluminio",
		TipoCompra:  model.CompraGafasFormuladas,
		RangoPrecio: "300.000 - 600.000",
		PrecioTotal: decimal.NewFromInt(450000),
		FechaCompra: time.Now(),
		CreatedAt:   time.Now(),
	}
	if seccion != "" {
		c.Seccion = &seccion
	}
	return c
}

// ── Reestock global ──────────────────────────────────────────────────────────

func TestReestockGlobalReiniciaPeriodo(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 5, 3) // actual 12
	f.seedRow("Económica", "Acetato", model.CompraGafasFormuladas, 4, 0, 4)   // actual 0

	resp, err := f.svc.RealizarReestockGlobal(context.Background(), "admin", dto.ReestockGlobalRequest{
		Descripcion: "Reestock mensual",
		StockNuevo: []dto.ReestockItem{
			{Seccion: "Económica", TipoMontura: "Aluminio", TipoCompra: model.CompraGafasFormuladas, CantidadNueva: 20},
			{Seccion: "Económica", TipoMontura: "Acetato", TipoCompra: model.CompraGafasFormuladas, CantidadNueva: 8},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, model.OperacionReestockGlobal, resp.Tipo)
	assert.Equal(t, "admin", resp.CreatedBy)

	// inicial = actual previo, agregado = cantidad nueva, salidas = 0.
	row := f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas)
	assert.Equal(t, 12, row.StockInicial)
	assert.Equal(t, 20, row.StockAgregado)
	assert.Equal(t, 0, row.StockSalidas)
	assert.Equal(t, 32, row.StockActual)

	row = f.row(t, "Económica", "Acetato", model.CompraGafasFormuladas)
	assert.Equal(t, 0, row.StockInicial)
	assert.Equal(t, 8, row.StockAgregado)
	assert.Equal(t, 8, row.StockActual)

	// El archivo guarda el snapshot del período cerrado, no el estado nuevo.
	require.Len(t, f.ops.ops, 1)
	for _, op := range f.ops.ops {
		assert.Contains(t, op.Detalles, `"stock_final":12`)
		assert.Contains(t, op.Detalles, `"stock_salidas":3`)
	}

	// Un movimiento de reestock por fila, enlazado a la operación.
	reestocks := f.movs.porTipo(model.MovimientoReestock)
	require.Len(t, reestocks, 2)
	for _, mov := range reestocks {
		require.NotNil(t, mov.OperacionID)
	}
}

func TestReestockGlobalCreaFilasNuevas(t *testing.T) {
	f := newInventarioFixture()

	_, err := f.svc.RealizarReestockGlobal(context.Background(), "admin", dto.ReestockGlobalRequest{
		StockNuevo: []dto.ReestockItem{
			{Seccion: "Piedras Preciosas", TipoMontura: "Taizu", TipoCompra: model.CompraGafasSol, CantidadNueva: 6},
		},
	})
	require.NoError(t, err)

	row := f.row(t, "Piedras Preciosas", "Taizu", model.CompraGafasSol)
	assert.Equal(t, 0, row.StockInicial)
	assert.Equal(t, 6, row.StockAgregado)
	assert.Equal(t, 6, row.StockActual)
}

func TestReestockGlobalOmiteMovimientosEnCero(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 0, 2)
	f.seedRow("Económica", "Acetato", model.CompraGafasFormuladas, 4, 0, 1)

	_, err := f.svc.RealizarReestockGlobal(context.Background(), "admin", dto.ReestockGlobalRequest{
		StockNuevo: []dto.ReestockItem{
			{Seccion: "Económica", TipoMontura: "Aluminio", TipoCompra: model.CompraGafasFormuladas, CantidadNueva: 5},
			{Seccion: "Económica", TipoMontura: "Acetato", TipoCompra: model.CompraGafasFormuladas, CantidadNueva: 0},
		},
	})
	require.NoError(t, err)

	// La fila en cero cierra período igual, pero sin movimiento de reestock.
	row := f.row(t, "Económica", "Acetato", model.CompraGafasFormuladas)
	assert.Equal(t, 3, row.StockInicial)
	assert.Equal(t, 0, row.StockAgregado)
	assert.Equal(t, 0, row.StockSalidas)

	require.Len(t, f.movs.porTipo(model.MovimientoReestock), 1)
	assert.Equal(t, "Aluminio", f.movs.porTipo(model.MovimientoReestock)[0].TipoMontura)
}

func TestReestockGlobalRechazaFormularioIncompleto(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 5, 3)
	f.seedRow("Económica", "Acetato", model.CompraGafasFormuladas, 4, 0, 4)

	_, err := f.svc.RealizarReestockGlobal(context.Background(), "admin", dto.ReestockGlobalRequest{
		StockNuevo: []dto.ReestockItem{
			{Seccion: "Económica", TipoMontura: "Aluminio", TipoCompra: model.CompraGafasFormuladas, CantidadNueva: 20},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Acetato")

	// Nada se escribió: la fila enviada tampoco cerró período.
	row := f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas)
	assert.Equal(t, 10, row.StockInicial)
	assert.Equal(t, 3, row.StockSalidas)
	assert.Empty(t, f.ops.ops)
	assert.Empty(t, f.movs.movs)
}

// ── Adición específica ───────────────────────────────────────────────────────

func TestAdicionEspecificaNoTocaPeriodo(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Metal", model.CompraGafasSol, 10, 0, 7) // actual 3

	resp, err := f.svc.AgregarStockEspecifico(context.Background(), "admin", dto.AdicionEspecificaRequest{
		Seccion:     "Económica",
		TipoMontura: "Metal",
		TipoCompra:  model.CompraGafasSol,
		Cantidad:    5,
		Nota:        "Llegó pedido",
	})
	require.NoError(t, err)
	assert.Equal(t, model.OperacionAdicionMinima, resp.Tipo)

	row := f.row(t, "Económica", "Metal", model.CompraGafasSol)
	assert.Equal(t, 10, row.StockInicial, "inicial intacto")
	assert.Equal(t, 5, row.StockAgregado)
	assert.Equal(t, 7, row.StockSalidas, "salidas intactas")
	assert.Equal(t, 8, row.StockActual)

	require.Len(t, f.movs.porTipo(model.MovimientoAdicion), 1)
	require.Len(t, f.ops.ops, 1)
}

// ── Ventas desde compras ─────────────────────────────────────────────────────

func TestRegistrarVentaDescuentaStock(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 0, 0)
	compra := compraGafas("Económica")

	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), compra, "Ana Pérez"))

	row := f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas)
	assert.Equal(t, 1, row.StockSalidas)
	assert.Equal(t, 9, row.StockActual)

	ventas := f.movs.porTipo(model.MovimientoVenta)
	require.Len(t, ventas, 1)
	mov := ventas[0]
	assert.Equal(t, 1, mov.Cantidad)
	assert.Equal(t, "Ana Pérez", mov.ClienteNombre)
	require.NotNil(t, mov.Referencia)
	assert.Equal(t, compra.ID, *mov.Referencia)
	require.NotNil(t, mov.Monto)
	assert.True(t, mov.Monto.Equal(decimal.NewFromInt(450000)))
}

func TestRegistrarVentaEsIdempotente(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 0, 0)
	compra := compraGafas("Económica")

	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), compra, "Ana"))
	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), compra, "Ana"))

	assert.Equal(t, 1, f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas).StockSalidas)
	assert.Len(t, f.movs.porTipo(model.MovimientoVenta), 1)
}

func TestRegistrarVentaFilaInexistenteQuedaNegativa(t *testing.T) {
	f := newInventarioFixture()
	compra := compraGafas("Económica")

	// La venta no se bloquea: crea la fila en cero y deja el actual en -1.
	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), compra, "Ana"))

	row := f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas)
	assert.Equal(t, 1, row.StockSalidas)
	assert.Equal(t, -1, row.StockActual)
}

func TestRegistrarVentaIgnoraNoTrackeables(t *testing.T) {
	f := newInventarioFixture()

	consulta := compraGafas("Económica")
	consulta.TipoCompra = model.CompraConsulta
	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), consulta, "Ana"))

	sinMontura := compraGafas("Económica")
	sinMontura.TipoMontura = model.MonturaSinMontura
	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), sinMontura, "Ana"))

	// Trackeable pero sin sección resoluble: tampoco impacta.
	sinSeccion := compraGafas("")
	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), sinSeccion, "Ana"))

	assert.Empty(t, f.stock.rows)
	assert.Empty(t, f.movs.movs)
}

func TestRegistrarVentaIgnoraElTrackingApagado(t *testing.T) {
	f := newInventarioFixture()
	f.configs.valores[model.ConfigTrackingActivo] = "false"
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 0, 0)

	// El switch de tracking frena la sincronización histórica, no la venta
	// en vivo: la compra descuenta stock igual.
	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), compraGafas("Económica"), "Ana"))

	assert.Equal(t, 1, f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas).StockSalidas)
	assert.Len(t, f.movs.porTipo(model.MovimientoVenta), 1)
}

func TestRegistrarVentaMonturaPremiumSinSeccion(t *testing.T) {
	f := newInventarioFixture()
	compra := compraGafas("")
	compra.TipoMontura = "RayBan"

	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), compra, "Ana"))

	row := f.row(t, "Piedras Preciosas", "RayBan", model.CompraGafasFormuladas)
	assert.Equal(t, 1, row.StockSalidas)
}

func TestActualizarVentaMigraCombinacion(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 0, 0)
	f.seedRow("Económica", "Acetato", model.CompraGafasFormuladas, 5, 0, 0)
	compra := compraGafas("Económica")
	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), compra, "Ana"))

	compra.TipoMontura = "Acetato"
	require.NoError(t, f.svc.ActualizarVentaDesdeCompra(context.Background(), compra, "Ana"))

	assert.Equal(t, 0, f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas).StockSalidas)
	assert.Equal(t, 1, f.row(t, "Económica", "Acetato", model.CompraGafasFormuladas).StockSalidas)

	ventas := f.movs.porTipo(model.MovimientoVenta)
	require.Len(t, ventas, 1)
	assert.Equal(t, "Acetato", ventas[0].TipoMontura)
}

func TestActualizarVentaEditadaFueraDelTracking(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 0, 0)
	compra := compraGafas("Económica")
	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), compra, "Ana"))

	// La compra pasa a consulta: la unidad vuelve y el movimiento desaparece.
	compra.TipoCompra = model.CompraConsulta
	require.NoError(t, f.svc.ActualizarVentaDesdeCompra(context.Background(), compra, "Ana"))

	assert.Equal(t, 0, f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas).StockSalidas)
	assert.Empty(t, f.movs.porTipo(model.MovimientoVenta))
}

func TestActualizarVentaSinMovimientoPrevioRegistra(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 0, 0)
	compra := compraGafas("Económica")

	require.NoError(t, f.svc.ActualizarVentaDesdeCompra(context.Background(), compra, "Ana"))

	assert.Equal(t, 1, f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas).StockSalidas)
	assert.Len(t, f.movs.porTipo(model.MovimientoVenta), 1)
}

func TestRevertirVentaEliminada(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 0, 0)
	compra := compraGafas("Económica")
	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), compra, "Ana"))

	require.NoError(t, f.svc.RevertirVentaEliminada(context.Background(), compra.ID))

	assert.Equal(t, 0, f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas).StockSalidas)
	assert.Empty(t, f.movs.movs)

	// Revertir una compra sin venta registrada es un no-op.
	require.NoError(t, f.svc.RevertirVentaEliminada(context.Background(), uuid.New()))
}

func TestDecrementarSalidasNoBajaDeCero(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 0, 0)

	require.NoError(t, f.stock.DecrementarSalidas(context.Background(), "Económica", "Aluminio", model.CompraGafasFormuladas))

	row := f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas)
	assert.Equal(t, 0, row.StockSalidas)
	assert.Equal(t, 10, row.StockActual)
}

// ── Sincronización histórica ─────────────────────────────────────────────────

func TestSincronizarNoduplicaVentas(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 0, 0)
	corte := time.Now().Add(-24 * time.Hour)

	yaSincronizada := compraGafas("Económica")
	pendiente := compraGafas("Económica")
	consulta := compraGafas("Económica")
	consulta.TipoCompra = model.CompraConsulta
	for _, c := range []*model.ClienteCompra{yaSincronizada, pendiente, consulta} {
		require.NoError(t, f.compras.Create(context.Background(), c))
	}
	require.NoError(t, f.svc.RegistrarVentaDesdeCompra(context.Background(), yaSincronizada, "Ana"))

	params := dto.SincronizacionParams{FechaInicio: corte, TrackingActivo: true}
	resp, err := f.svc.SincronizarComprasHistoricas(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCompras)
	assert.Equal(t, 1, resp.TotalSincronizadas)
	assert.Equal(t, 2, f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas).StockSalidas)

	// Segunda corrida: todo ya está reconciliado.
	resp, err = f.svc.SincronizarComprasHistoricas(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCompras)
	assert.Equal(t, 0, resp.TotalSincronizadas)
	assert.Equal(t, 2, f.row(t, "Económica", "Aluminio", model.CompraGafasFormuladas).StockSalidas)
	assert.Len(t, f.movs.porTipo(model.MovimientoVenta), 2)
}

func TestSincronizarConTrackingApagado(t *testing.T) {
	f := newInventarioFixture()
	require.NoError(t, f.compras.Create(context.Background(), compraGafas("Económica")))

	resp, err := f.svc.SincronizarComprasHistoricas(context.Background(), dto.SincronizacionParams{
		FechaInicio:    time.Now().Add(-24 * time.Hour),
		TrackingActivo: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalCompras)
	assert.Empty(t, f.movs.movs)
}

func TestSincronizarRespetaFechaDeCorte(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 0, 0)

	vieja := compraGafas("Económica")
	vieja.CreatedAt = time.Now().Add(-72 * time.Hour)
	nueva := compraGafas("Económica")
	require.NoError(t, f.compras.Create(context.Background(), vieja))
	require.NoError(t, f.compras.Create(context.Background(), nueva))

	resp, err := f.svc.SincronizarComprasHistoricas(context.Background(), dto.SincronizacionParams{
		FechaInicio:    time.Now().Add(-24 * time.Hour),
		TrackingActivo: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalCompras)
	assert.Equal(t, 1, resp.TotalSincronizadas)
}

// ── Configuración ────────────────────────────────────────────────────────────

func TestActualizarConfig(t *testing.T) {
	f := newInventarioFixture()

	err := f.svc.ActualizarConfig(context.Background(), "admin", dto.ConfigInventarioRequest{
		FechaInicioTracking: "no-es-fecha",
		TrackingActivo:      true,
	})
	require.Error(t, err)

	require.NoError(t, f.svc.ActualizarConfig(context.Background(), "admin", dto.ConfigInventarioRequest{
		FechaInicioTracking: "2026-01-15",
		TrackingActivo:      false,
	}))

	cfg, err := f.svc.ObtenerConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", cfg.FechaInicioTracking)
	assert.False(t, cfg.TrackingActivo)
}

func TestObtenerStockAgrupaPorSeccion(t *testing.T) {
	f := newInventarioFixture()
	f.seedRow("Económica", "Aluminio", model.CompraGafasFormuladas, 10, 2, 3)
	f.seedRow("Económica", "Acetato", model.CompraGafasSol, 5, 0, 1)
	f.seedRow("Piedras Preciosas", "Taizu", model.CompraGafasFormuladas, 8, 0, 0)

	cards, err := f.svc.ObtenerStock(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2)

	porSeccion := make(map[string]dto.StockCardResponse, len(cards))
	for _, card := range cards {
		porSeccion[card.Seccion] = card
	}
	economica := porSeccion["Económica"]
	require.Len(t, economica.Monturas, 2)
	assert.Equal(t, 15, economica.Totales.StockInicial)
	assert.Equal(t, 4, economica.Totales.StockSalidas)
	assert.Equal(t, 13, economica.Totales.StockActual)
}
