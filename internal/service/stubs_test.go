package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory StockRepository stub ───────────────────────────────────────────
// Reproduce la semántica de los contadores, incluido el recálculo de
// stock_actual que en producción hace el trigger.

type stubStockRepo struct {
	rows map[string]*model.InventarioStock
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{rows: make(map[string]*model.InventarioStock)}
}

func comboKey(seccion, tipoMontura, tipoCompra string) string {
	return strings.Join([]string{seccion, tipoMontura, tipoCompra}, "|")
}

func (r *stubStockRepo) recalcular(s *model.InventarioStock) {
	s.StockActual = s.StockInicial + s.StockAgregado - s.StockSalidas
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

func (r *stubStockRepo) Upsert(_ context.Context, s *model.InventarioStock) error {
	key := comboKey(s.Seccion, s.TipoMontura, s.TipoCompra)
	if existente, ok := r.rows[key]; ok {
		existente.StockMinimo = s.StockMinimo
		*s = *existente
		return nil
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.recalcular(s)
	copia := *s
	r.rows[key] = &copia
	return nil
}

func (r *stubStockRepo) Find(_ context.Context, seccion, tipoMontura, tipoCompra string) (*model.InventarioStock, error) {
	s, ok := r.rows[comboKey(seccion, tipoMontura, tipoCompra)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *s
	return &copia, nil
}

func (r *stubStockRepo) ListAll(_ context.Context) ([]model.InventarioStock, error) {
	keys := make([]string, 0, len(r.rows))
	for k := range r.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]model.InventarioStock, 0, len(keys))
	for _, k := range keys {
		out = append(out, *r.rows[k])
	}
	return out, nil
}

func (r *stubStockRepo) ListBySeccion(_ context.Context, seccion string) ([]model.InventarioStock, error) {
	var out []model.InventarioStock
	for _, s := range r.rows {
		if s.Seccion == seccion {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubStockRepo) IncrementarAgregado(_ context.Context, _ *gorm.DB, seccion, tipoMontura, tipoCompra string, cantidad int) error {
	s, ok := r.rows[comboKey(seccion, tipoMontura, tipoCompra)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.StockAgregado += cantidad
	r.recalcular(s)
	return nil
}

func (r *stubStockRepo) IncrementarSalidas(_ context.Context, seccion, tipoMontura, tipoCompra string) error {
	s, ok := r.rows[comboKey(seccion, tipoMontura, tipoCompra)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.StockSalidas++
	r.recalcular(s)
	return nil
}

func (r *stubStockRepo) DecrementarSalidas(_ context.Context, seccion, tipoMontura, tipoCompra string) error {
	s, ok := r.rows[comboKey(seccion, tipoMontura, tipoCompra)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if s.StockSalidas > 0 {
		s.StockSalidas--
	}
	r.recalcular(s)
	return nil
}

func (r *stubStockRepo) CerrarPeriodoTx(_ *gorm.DB, s *model.InventarioStock, cantidadNueva int) error {
	row, ok := r.rows[comboKey(s.Seccion, s.TipoMontura, s.TipoCompra)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.StockInicial = row.StockActual
	row.StockAgregado = cantidadNueva
	row.StockSalidas = 0
	row.PeriodoInicio = time.Now()
	r.recalcular(row)
	return nil
}

func (r *stubStockRepo) UpdateStockMinimo(_ context.Context, seccion, tipoMontura, tipoCompra string, minimo int) error {
	s, ok := r.rows[comboKey(seccion, tipoMontura, tipoCompra)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.StockMinimo = minimo
	return nil
}

func (r *stubStockRepo) ListBajoMinimo(_ context.Context) ([]model.InventarioStock, error) {
	var out []model.InventarioStock
	for _, s := range r.rows {
		if s.BajoMinimo() {
			out = append(out, *s)
		}
	}
	return out, nil
}

// ── In-memory MovimientoRepository stub ──────────────────────────────────────

type stubMovimientoRepo struct {
	movs map[uuid.UUID]*model.InventarioMovimiento
}

func newStubMovimientoRepo() *stubMovimientoRepo {
	return &stubMovimientoRepo{movs: make(map[uuid.UUID]*model.InventarioMovimiento)}
}

func (r *stubMovimientoRepo) Create(_ context.Context, m *model.InventarioMovimiento) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	copia := *m
	r.movs[m.ID] = &copia
	return nil
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.InventarioMovimiento) error {
	return r.Create(context.Background(), m)
}

func (r *stubMovimientoRepo) FindVentaByCompra(_ context.Context, compraID uuid.UUID) (*model.InventarioMovimiento, error) {
	for _, m := range r.movs {
		if m.Tipo == model.MovimientoVenta && m.Referencia != nil && *m.Referencia == compraID {
			copia := *m
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMovimientoRepo) Update(_ context.Context, m *model.InventarioMovimiento) error {
	if _, ok := r.movs[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copia := *m
	r.movs[m.ID] = &copia
	return nil
}

func (r *stubMovimientoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.movs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.movs, id)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter dto.MovimientoFilter) ([]model.InventarioMovimiento, int64, error) {
	var out []model.InventarioMovimiento
	for _, m := range r.movs {
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		if filter.Seccion != "" && m.Seccion != filter.Seccion {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovimientoRepo) ListEnRango(_ context.Context, desde, hasta time.Time) ([]model.InventarioMovimiento, error) {
	var out []model.InventarioMovimiento
	for _, m := range r.movs {
		if !m.CreatedAt.Before(desde) && m.CreatedAt.Before(hasta) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMovimientoRepo) ComprasSincronizadas(_ context.Context) (map[uuid.UUID]struct{}, error) {
	set := make(map[uuid.UUID]struct{})
	for _, m := range r.movs {
		if m.Tipo == model.MovimientoVenta && m.Referencia != nil {
			set[*m.Referencia] = struct{}{}
		}
	}
	return set, nil
}

func (r *stubMovimientoRepo) porTipo(tipo string) []*model.InventarioMovimiento {
	var out []*model.InventarioMovimiento
	for _, m := range r.movs {
		if m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

// ── In-memory OperacionRepository stub ───────────────────────────────────────

type stubOperacionRepo struct {
	ops map[uuid.UUID]*model.InventarioOperacion
}

func newStubOperacionRepo() *stubOperacionRepo {
	return &stubOperacionRepo{ops: make(map[uuid.UUID]*model.InventarioOperacion)}
}

func (r *stubOperacionRepo) CreateTx(_ *gorm.DB, op *model.InventarioOperacion) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	copia := *op
	r.ops[op.ID] = &copia
	return nil
}

func (r *stubOperacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventarioOperacion, error) {
	op, ok := r.ops[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *op
	return &copia, nil
}

func (r *stubOperacionRepo) List(_ context.Context, tipo string, limit int) ([]model.InventarioOperacion, error) {
	var out []model.InventarioOperacion
	for _, op := range r.ops {
		if tipo != "" && op.Tipo != tipo {
			continue
		}
		out = append(out, *op)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── In-memory ConfigRepository stub ──────────────────────────────────────────

type stubConfigRepo struct {
	valores map[string]string
}

func newStubConfigRepo() *stubConfigRepo {
	return &stubConfigRepo{valores: make(map[string]string)}
}

func (r *stubConfigRepo) Get(_ context.Context, clave string) (string, error) {
	v, ok := r.valores[clave]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubConfigRepo) GetOr(_ context.Context, clave, fallback string) (string, error) {
	if v, ok := r.valores[clave]; ok {
		return v, nil
	}
	return fallback, nil
}

func (r *stubConfigRepo) Set(_ context.Context, clave, valor, _ string) error {
	r.valores[clave] = valor
	return nil
}

// ── In-memory CompraRepository stub ──────────────────────────────────────────

type stubCompraRepo struct {
	compras map[uuid.UUID]*model.ClienteCompra
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.ClienteCompra)}
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

func (r *stubCompraRepo) Create(_ context.Context, c *model.ClienteCompra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	copia := *c
	r.compras[c.ID] = &copia
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ClienteCompra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *stubCompraRepo) FindConAbonos(ctx context.Context, id uuid.UUID) (*model.ClienteCompra, error) {
	return r.FindByID(ctx, id)
}

func (r *stubCompraRepo) Update(_ context.Context, c *model.ClienteCompra) error {
	if _, ok := r.compras[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copia := *c
	r.compras[c.ID] = &copia
	return nil
}

func (r *stubCompraRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.compras[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.compras, id)
	return nil
}

func (r *stubCompraRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]model.ClienteCompra, error) {
	var out []model.ClienteCompra
	for _, c := range r.compras {
		if c.ClienteID == clienteID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCompraRepo) ListDesde(_ context.Context, desde time.Time) ([]model.ClienteCompra, error) {
	var out []model.ClienteCompra
	for _, c := range r.compras {
		if !c.CreatedAt.Before(desde) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCompraRepo) ListCalificantes(_ context.Context, clienteID uuid.UUID) ([]model.ClienteCompra, error) {
	var out []model.ClienteCompra
	for _, c := range r.compras {
		if c.ClienteID != clienteID {
			continue
		}
		if c.TipoCompra != model.CompraGafasFormuladas && c.TipoCompra != model.CompraGafasSol {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaCompra.After(out[j].FechaCompra) })
	return out, nil
}

func (r *stubCompraRepo) SetAbonoTotal(_ context.Context, _ *gorm.DB, compraID uuid.UUID, total decimal.Decimal) error {
	c, ok := r.compras[compraID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Abono = total
	return nil
}

func (r *stubCompraRepo) ListConDeuda(_ context.Context) ([]model.ClienteCompra, error) {
	var out []model.ClienteCompra
	for _, c := range r.compras {
		if c.PrecioTotal.GreaterThan(c.Abono) {
			out = append(out, *c)
		}
	}
	return out, nil
}

// ── In-memory AbonoRepository stub ───────────────────────────────────────────

type stubAbonoRepo struct {
	abonos map[uuid.UUID]*model.ClienteAbono
}

func newStubAbonoRepo() *stubAbonoRepo {
	return &stubAbonoRepo{abonos: make(map[uuid.UUID]*model.ClienteAbono)}
}

func (r *stubAbonoRepo) CreateTx(_ *gorm.DB, a *model.ClienteAbono) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	copia := *a
	r.abonos[a.ID] = &copia
	return nil
}

func (r *stubAbonoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ClienteAbono, error) {
	a, ok := r.abonos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *a
	return &copia, nil
}

func (r *stubAbonoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.abonos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.abonos, id)
	return nil
}

func (r *stubAbonoRepo) DeleteByCompraTx(_ *gorm.DB, compraID uuid.UUID) error {
	for id, a := range r.abonos {
		if a.CompraID == compraID {
			delete(r.abonos, id)
		}
	}
	return nil
}

func (r *stubAbonoRepo) ListByCompra(_ context.Context, compraID uuid.UUID) ([]model.ClienteAbono, error) {
	var out []model.ClienteAbono
	for _, a := range r.abonos {
		if a.CompraID == compraID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaAbono.Before(out[j].FechaAbono) })
	return out, nil
}

func (r *stubAbonoRepo) SumByCompraTx(_ *gorm.DB, compraID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range r.abonos {
		if a.CompraID == compraID {
			total = total.Add(a.Monto)
		}
	}
	return total, nil
}

func (r *stubAbonoRepo) SumEnRango(_ context.Context, desde, hasta time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range r.abonos {
		if !a.FechaAbono.Before(desde) && a.FechaAbono.Before(hasta) {
			total = total.Add(a.Monto)
		}
	}
	return total, nil
}

// ── In-memory ReferidoRepository stub ────────────────────────────────────────

type stubReferidoRepo struct {
	refs map[uuid.UUID]*model.ClienteReferido
}

func newStubReferidoRepo() *stubReferidoRepo {
	return &stubReferidoRepo{refs: make(map[uuid.UUID]*model.ClienteReferido)}
}

func (r *stubReferidoRepo) DB() *gorm.DB { return nil }

func (r *stubReferidoRepo) Create(_ context.Context, ref *model.ClienteReferido) error {
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	copia := *ref
	r.refs[ref.ID] = &copia
	return nil
}

func (r *stubReferidoRepo) CreateTx(_ *gorm.DB, ref *model.ClienteReferido) error {
	return r.Create(context.Background(), ref)
}

func (r *stubReferidoRepo) FindVinculo(_ context.Context, referidorID, referidoID uuid.UUID) (*model.ClienteReferido, error) {
	for _, ref := range r.refs {
		if ref.ClienteReferidorID == referidorID && ref.ClienteReferidoID == referidoID {
			copia := *ref
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReferidoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.refs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.refs, id)
	return nil
}

func (r *stubReferidoRepo) ListByReferidor(_ context.Context, referidorID uuid.UUID) ([]model.ClienteReferido, error) {
	var out []model.ClienteReferido
	for _, ref := range r.refs {
		if ref.ClienteReferidorID == referidorID {
			out = append(out, *ref)
		}
	}
	return out, nil
}

func (r *stubReferidoRepo) ListActivosByReferidor(_ context.Context, referidorID uuid.UUID) ([]model.ClienteReferido, error) {
	var out []model.ClienteReferido
	for _, ref := range r.refs {
		if ref.ClienteReferidorID == referidorID && ref.Estado == model.ReferidoActivo {
			out = append(out, *ref)
		}
	}
	return out, nil
}

func (r *stubReferidoRepo) RedimirActivosTx(_ *gorm.DB, referidorID uuid.UUID, fecha time.Time) (int64, error) {
	var n int64
	for _, ref := range r.refs {
		if ref.ClienteReferidorID == referidorID && ref.Estado == model.ReferidoActivo {
			ref.Estado = model.ReferidoRedimido
			f := fecha
			ref.FechaRedimido = &f
			n++
		}
	}
	return n, nil
}

// ── In-memory ClienteRepository stub ─────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) DB() *gorm.DB { return nil }

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	copia := *c
	r.clientes[c.ID] = &copia
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *stubClienteRepo) FindByCedula(_ context.Context, cedula string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.Cedula == cedula {
			copia := *c
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	if _, ok := r.clientes[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copia := *c
	r.clientes[c.ID] = &copia
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.clientes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.clientes, id)
	return nil
}

func (r *stubClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) IncrementarCashback(_ context.Context, _ *gorm.DB, clienteID uuid.UUID, delta decimal.Decimal) error {
	c, ok := r.clientes[clienteID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	nuevo := c.CashbackAcumulado.Add(delta)
	if nuevo.IsNegative() {
		nuevo = decimal.Zero
	}
	c.CashbackAcumulado = nuevo
	return nil
}

func (r *stubClienteRepo) ResetCashbackTx(_ *gorm.DB, clienteID uuid.UUID) error {
	c, ok := r.clientes[clienteID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.CashbackAcumulado = decimal.Zero
	return nil
}
