package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/model"
	"github.com/JohnDGC/oh-my-glasses/internal/repository"
	"github.com/JohnDGC/oh-my-glasses/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventarioService es el libro mayor de stock: períodos por combinación
// (sección, montura, tipo de compra), movimientos derivados de compras y el
// archivo de operaciones.
type InventarioService interface {
	RealizarReestockGlobal(ctx context.Context, usuario string, req dto.ReestockGlobalRequest) (*dto.OperacionResponse, error)
	AgregarStockEspecifico(ctx context.Context, usuario string, req dto.AdicionEspecificaRequest) (*dto.OperacionResponse, error)

	// RegistrarVentaDesdeCompra descuenta una unidad por la compra dada.
	// No-op silencioso si la compra no es trackeable, no resuelve sección o
	// ya tiene movimiento de venta.
	RegistrarVentaDesdeCompra(ctx context.Context, compra *model.ClienteCompra, clienteNombre string) error
	// ActualizarVentaDesdeCompra reconcilia el movimiento de venta con el
	// estado editado de la compra (puede mover la unidad entre combinaciones,
	// crearla o revertirla).
	ActualizarVentaDesdeCompra(ctx context.Context, compra *model.ClienteCompra, clienteNombre string) error
	// RevertirVentaEliminada devuelve la unidad al stock y borra el
	// movimiento cuando la compra origen se elimina.
	RevertirVentaEliminada(ctx context.Context, compraID uuid.UUID) error

	SincronizarComprasHistoricas(ctx context.Context, params dto.SincronizacionParams) (*dto.SincronizacionResponse, error)

	ObtenerStock(ctx context.Context) ([]dto.StockCardResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) ([]dto.MovimientoResponse, int64, error)
	ListarOperaciones(ctx context.Context, tipo string, limit int) ([]dto.OperacionResponse, error)
	ObtenerOperacion(ctx context.Context, id uuid.UUID) (*dto.OperacionResponse, error)

	ActualizarStockMinimo(ctx context.Context, req dto.UpdateStockMinimoRequest) error
	ObtenerAlertas(ctx context.Context) ([]dto.StockRowResponse, error)

	ObtenerConfig(ctx context.Context) (*dto.ConfigInventarioResponse, error)
	ActualizarConfig(ctx context.Context, usuario string, req dto.ConfigInventarioRequest) error
}

type inventarioService struct {
	stockRepo  repository.StockRepository
	movRepo    repository.MovimientoRepository
	opRepo     repository.OperacionRepository
	configRepo repository.ConfigRepository
	compraRepo repository.CompraRepository
	resolver   *SeccionResolver
	dispatcher *worker.Dispatcher
}

func NewInventarioService(
	stockRepo repository.StockRepository,
	movRepo repository.MovimientoRepository,
	opRepo repository.OperacionRepository,
	configRepo repository.ConfigRepository,
	compraRepo repository.CompraRepository,
	resolver *SeccionResolver,
	dispatcher *worker.Dispatcher,
) InventarioService {
	return &inventarioService{
		stockRepo:  stockRepo,
		movRepo:    movRepo,
		opRepo:     opRepo,
		configRepo: configRepo,
		compraRepo: compraRepo,
		resolver:   resolver,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Reestock global ──────────────────────────────────────────────────────────
// Cierra el período de TODAS las filas enviadas en una sola transacción:
// archiva el snapshot previo como operación, resetea contadores
// (inicial = actual previo, agregado = cantidad nueva, salidas = 0) y deja un
// movimiento de reestock por fila. Es la única operación que reinicia salidas.

func (s *inventarioService) RealizarReestockGlobal(ctx context.Context, usuario string, req dto.ReestockGlobalRequest) (*dto.OperacionResponse, error) {
	ahora := time.Now()

	// El reestock es global: toda fila trackeada debe venir en el formulario,
	// si faltara alguna su período no se cerraría y el archivo quedaría
	// incompleto. Se valida antes de cualquier escritura.
	existentes, err := s.stockRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	porCombo := make(map[string]*model.InventarioStock, len(existentes))
	for i := range existentes {
		row := &existentes[i]
		porCombo[comboStock(row.Seccion, row.TipoMontura, row.TipoCompra)] = row
	}
	enviadas := make(map[string]bool, len(req.StockNuevo))
	for _, item := range req.StockNuevo {
		enviadas[comboStock(item.Seccion, item.TipoMontura, item.TipoCompra)] = true
	}
	var faltantes []string
	for i := range existentes {
		row := &existentes[i]
		if !enviadas[comboStock(row.Seccion, row.TipoMontura, row.TipoCompra)] {
			faltantes = append(faltantes, fmt.Sprintf("%s/%s/%s", row.Seccion, row.TipoMontura, row.TipoCompra))
		}
	}
	if len(faltantes) > 0 {
		return nil, fmt.Errorf("reestock incompleto: faltan las filas %s", strings.Join(faltantes, ", "))
	}

	// Las combinaciones que el formulario trae por primera vez se crean en cero.
	filas := make([]*model.InventarioStock, 0, len(req.StockNuevo))
	for _, item := range req.StockNuevo {
		row, ok := porCombo[comboStock(item.Seccion, item.TipoMontura, item.TipoCompra)]
		if !ok {
			row = &model.InventarioStock{
				Seccion:       item.Seccion,
				TipoMontura:   item.TipoMontura,
				TipoCompra:    item.TipoCompra,
				PeriodoInicio: ahora,
			}
			if err := s.stockRepo.Upsert(ctx, row); err != nil {
				return nil, fmt.Errorf("creando fila de stock %s/%s/%s: %w", item.Seccion, item.TipoMontura, item.TipoCompra, err)
			}
		}
		filas = append(filas, row)
	}

	detalle := model.DetalleOperacion{
		PeriodoInicio: periodoMasAntiguo(filas, ahora),
		PeriodoFin:    ahora,
	}
	for _, row := range filas {
		detalle.Filas = append(detalle.Filas, model.DetalleFila{
			Seccion:       row.Seccion,
			TipoMontura:   row.TipoMontura,
			TipoCompra:    row.TipoCompra,
			StockInicial:  row.StockInicial,
			StockAgregado: row.StockAgregado,
			StockSalidas:  row.StockSalidas,
			StockFinal:    row.StockActual,
		})
		detalle.Totales.StockInicial += row.StockInicial
		detalle.Totales.StockAgregado += row.StockAgregado
		detalle.Totales.StockSalidas += row.StockSalidas
		detalle.Totales.StockFinal += row.StockActual
	}
	detallesJSON, err := json.Marshal(detalle)
	if err != nil {
		return nil, err
	}

	op := &model.InventarioOperacion{
		ID:             uuid.New(),
		Tipo:           model.OperacionReestockGlobal,
		FechaOperacion: ahora,
		CreatedBy:      usuario,
		Descripcion:    req.Descripcion,
		Detalles:       string(detallesJSON),
	}

	err = runTx(ctx, s.stockRepo.DB(), func(tx *gorm.DB) error {
		if err := s.opRepo.CreateTx(tx, op); err != nil {
			return err
		}
		for i, item := range req.StockNuevo {
			if err := s.stockRepo.CerrarPeriodoTx(tx, filas[i], item.CantidadNueva); err != nil {
				return err
			}
			// La fila cierra período igual, pero sin unidades nuevas no hay
			// movimiento que registrar.
			if item.CantidadNueva == 0 {
				continue
			}
			mov := &model.InventarioMovimiento{
				OperacionID: &op.ID,
				Seccion:     item.Seccion,
				TipoMontura: item.TipoMontura,
				TipoCompra:  item.TipoCompra,
				Tipo:        model.MovimientoReestock,
				Cantidad:    item.CantidadNueva,
				Nota:        req.Descripcion,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reestock global: %w", err)
	}

	return operacionToResponse(op), nil
}

// ── Adición específica ───────────────────────────────────────────────────────
// Suma unidades a una sola combinación sin tocar el período: stock_agregado
// crece, salidas e inicial quedan intactos.

func (s *inventarioService) AgregarStockEspecifico(ctx context.Context, usuario string, req dto.AdicionEspecificaRequest) (*dto.OperacionResponse, error) {
	ahora := time.Now()

	row, err := s.stockRepo.Find(ctx, req.Seccion, req.TipoMontura, req.TipoCompra)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = &model.InventarioStock{
			Seccion:       req.Seccion,
			TipoMontura:   req.TipoMontura,
			TipoCompra:    req.TipoCompra,
			PeriodoInicio: ahora,
		}
		if err := s.stockRepo.Upsert(ctx, row); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	detalle := model.DetalleOperacion{
		PeriodoInicio: row.PeriodoInicio,
		PeriodoFin:    ahora,
		Filas: []model.DetalleFila{{
			Seccion:       row.Seccion,
			TipoMontura:   row.TipoMontura,
			TipoCompra:    row.TipoCompra,
			StockInicial:  row.StockInicial,
			StockAgregado: row.StockAgregado + req.Cantidad,
			StockSalidas:  row.StockSalidas,
			StockFinal:    row.StockActual + req.Cantidad,
		}},
	}
	detalle.Totales.StockInicial = detalle.Filas[0].StockInicial
	detalle.Totales.StockAgregado = detalle.Filas[0].StockAgregado
	detalle.Totales.StockSalidas = detalle.Filas[0].StockSalidas
	detalle.Totales.StockFinal = detalle.Filas[0].StockFinal
	detallesJSON, err := json.Marshal(detalle)
	if err != nil {
		return nil, err
	}

	op := &model.InventarioOperacion{
		ID:             uuid.New(),
		Tipo:           model.OperacionAdicionMinima,
		FechaOperacion: ahora,
		CreatedBy:      usuario,
		Descripcion:    req.Nota,
		Detalles:       string(detallesJSON),
	}

	err = runTx(ctx, s.stockRepo.DB(), func(tx *gorm.DB) error {
		if err := s.opRepo.CreateTx(tx, op); err != nil {
			return err
		}
		if err := s.stockRepo.IncrementarAgregado(ctx, tx, req.Seccion, req.TipoMontura, req.TipoCompra, req.Cantidad); err != nil {
			return err
		}
		mov := &model.InventarioMovimiento{
			OperacionID: &op.ID,
			Seccion:     req.Seccion,
			TipoMontura: req.TipoMontura,
			TipoCompra:  req.TipoCompra,
			Tipo:        model.MovimientoAdicion,
			Cantidad:    req.Cantidad,
			Nota:        req.Nota,
		}
		return s.movRepo.CreateTx(tx, mov)
	})
	if err != nil {
		return nil, fmt.Errorf("adición de stock: %w", err)
	}

	return operacionToResponse(op), nil
}

// ── Ventas ───────────────────────────────────────────────────────────────────

func (s *inventarioService) RegistrarVentaDesdeCompra(ctx context.Context, compra *model.ClienteCompra, clienteNombre string) error {
	if !compra.EsTrackeable() {
		return nil
	}

	// El switch de tracking gobierna solo la sincronización histórica: la
	// venta en vivo siempre descuenta stock.
	seccion, ok := s.resolver.Resolver(compra)
	if !ok {
		return nil
	}

	// Idempotencia: una compra genera a lo sumo un movimiento de venta.
	if _, err := s.movRepo.FindVentaByCompra(ctx, compra.ID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.registrarSalida(ctx, compra, seccion, clienteNombre)
}

func (s *inventarioService) registrarSalida(ctx context.Context, compra *model.ClienteCompra, seccion, clienteNombre string) error {
	if err := s.asegurarFila(ctx, seccion, compra.TipoMontura, compra.TipoCompra); err != nil {
		return err
	}
	if err := s.stockRepo.IncrementarSalidas(ctx, seccion, compra.TipoMontura, compra.TipoCompra); err != nil {
		return err
	}

	monto := compra.PrecioTotal
	mov := &model.InventarioMovimiento{
		Seccion:       seccion,
		TipoMontura:   compra.TipoMontura,
		TipoCompra:    compra.TipoCompra,
		Tipo:          model.MovimientoVenta,
		Cantidad:      1,
		Monto:         &monto,
		Referencia:    &compra.ID,
		ClienteNombre: clienteNombre,
		// El movimiento conserva la fecha de la compra: la sincronización
		// histórica no debe amontonar ventas viejas en el día de la corrida.
		CreatedAt: compra.CreatedAt,
	}
	if err := s.movRepo.Create(ctx, mov); err != nil {
		return err
	}

	s.notificarSiBajoMinimo(ctx, seccion, compra.TipoMontura, compra.TipoCompra)
	return nil
}

func (s *inventarioService) ActualizarVentaDesdeCompra(ctx context.Context, compra *model.ClienteCompra, clienteNombre string) error {
	mov, err := s.movRepo.FindVentaByCompra(ctx, compra.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// La compra no contaba antes; si ahora sí, se registra normal.
		return s.RegistrarVentaDesdeCompra(ctx, compra, clienteNombre)
	}
	if err != nil {
		return err
	}

	seccion, cuenta := "", false
	if compra.EsTrackeable() {
		seccion, cuenta = s.resolver.Resolver(compra)
	}

	if !cuenta {
		// La edición la dejó fuera del tracking: devolver la unidad.
		if err := s.stockRepo.DecrementarSalidas(ctx, mov.Seccion, mov.TipoMontura, mov.TipoCompra); err != nil {
			return err
		}
		return s.movRepo.Delete(ctx, mov.ID)
	}

	if mov.Seccion != seccion || mov.TipoMontura != compra.TipoMontura || mov.TipoCompra != compra.TipoCompra {
		// Migra la unidad entre combinaciones.
		if err := s.stockRepo.DecrementarSalidas(ctx, mov.Seccion, mov.TipoMontura, mov.TipoCompra); err != nil {
			return err
		}
		if err := s.asegurarFila(ctx, seccion, compra.TipoMontura, compra.TipoCompra); err != nil {
			return err
		}
		if err := s.stockRepo.IncrementarSalidas(ctx, seccion, compra.TipoMontura, compra.TipoCompra); err != nil {
			return err
		}
		s.notificarSiBajoMinimo(ctx, seccion, compra.TipoMontura, compra.TipoCompra)
	}

	monto := compra.PrecioTotal
	mov.Seccion = seccion
	mov.TipoMontura = compra.TipoMontura
	mov.TipoCompra = compra.TipoCompra
	mov.Monto = &monto
	mov.ClienteNombre = clienteNombre
	return s.movRepo.Update(ctx, mov)
}

func (s *inventarioService) RevertirVentaEliminada(ctx context.Context, compraID uuid.UUID) error {
	mov, err := s.movRepo.FindVentaByCompra(ctx, compraID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.stockRepo.DecrementarSalidas(ctx, mov.Seccion, mov.TipoMontura, mov.TipoCompra); err != nil {
		return err
	}
	return s.movRepo.Delete(ctx, mov.ID)
}

// ── Sincronización histórica ─────────────────────────────────────────────────
// Reconcilia cliente_compras contra los movimientos de venta existentes:
// toda compra trackeable creada desde la fecha de corte que aún no tenga
// movimiento genera uno. Correr dos veces no duplica nada.

func (s *inventarioService) SincronizarComprasHistoricas(ctx context.Context, params dto.SincronizacionParams) (*dto.SincronizacionResponse, error) {
	resp := &dto.SincronizacionResponse{}
	if !params.TrackingActivo {
		return resp, nil
	}

	compras, err := s.compraRepo.ListDesde(ctx, params.FechaInicio)
	if err != nil {
		return nil, err
	}
	sincronizadas, err := s.movRepo.ComprasSincronizadas(ctx)
	if err != nil {
		return nil, err
	}

	for i := range compras {
		compra := &compras[i]
		if !compra.EsTrackeable() {
			continue
		}
		seccion, ok := s.resolver.Resolver(compra)
		if !ok {
			continue
		}
		resp.TotalCompras++
		if _, ya := sincronizadas[compra.ID]; ya {
			continue
		}
		nombre := ""
		if compra.Cliente != nil {
			nombre = compra.Cliente.Nombres
		}
		if err := s.registrarSalida(ctx, compra, seccion, nombre); err != nil {
			return nil, fmt.Errorf("sincronizando compra %s: %w", compra.ID, err)
		}
		resp.TotalSincronizadas++
	}
	return resp, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *inventarioService) ObtenerStock(ctx context.Context) ([]dto.StockCardResponse, error) {
	rows, err := s.stockRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	porSeccion := make(map[string]*dto.StockCardResponse)
	var orden []string
	for i := range rows {
		row := &rows[i]
		card, ok := porSeccion[row.Seccion]
		if !ok {
			card = &dto.StockCardResponse{Seccion: row.Seccion}
			porSeccion[row.Seccion] = card
			orden = append(orden, row.Seccion)
		}
		card.Monturas = append(card.Monturas, stockToRow(row))
		card.Totales.StockInicial += row.StockInicial
		card.Totales.StockAgregado += row.StockAgregado
		card.Totales.StockSalidas += row.StockSalidas
		card.Totales.StockActual += row.StockActual
	}

	cards := make([]dto.StockCardResponse, 0, len(orden))
	for _, seccion := range orden {
		cards = append(cards, *porSeccion[seccion])
	}
	return cards, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) ([]dto.MovimientoResponse, int64, error) {
	movs, total, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.MovimientoResponse, 0, len(movs))
	for i := range movs {
		out = append(out, movimientoToResponse(&movs[i]))
	}
	return out, total, nil
}

func (s *inventarioService) ListarOperaciones(ctx context.Context, tipo string, limit int) ([]dto.OperacionResponse, error) {
	ops, err := s.opRepo.List(ctx, tipo, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OperacionResponse, 0, len(ops))
	for i := range ops {
		out = append(out, *operacionToResponse(&ops[i]))
	}
	return out, nil
}

func (s *inventarioService) ObtenerOperacion(ctx context.Context, id uuid.UUID) (*dto.OperacionResponse, error) {
	op, err := s.opRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return operacionToResponse(op), nil
}

func (s *inventarioService) ActualizarStockMinimo(ctx context.Context, req dto.UpdateStockMinimoRequest) error {
	return s.stockRepo.UpdateStockMinimo(ctx, req.Seccion, req.TipoMontura, req.TipoCompra, req.StockMinimo)
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.StockRowResponse, error) {
	rows, err := s.stockRepo.ListBajoMinimo(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockRowResponse, 0, len(rows))
	for i := range rows {
		out = append(out, stockToRow(&rows[i]))
	}
	return out, nil
}

// ── Configuración del tracking ───────────────────────────────────────────────

func (s *inventarioService) ObtenerConfig(ctx context.Context) (*dto.ConfigInventarioResponse, error) {
	fecha, err := s.configRepo.GetOr(ctx, model.ConfigFechaInicioTracking, "")
	if err != nil {
		return nil, err
	}
	activo, err := s.trackingActivo(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ConfigInventarioResponse{
		FechaInicioTracking: fecha,
		TrackingActivo:      activo,
	}, nil
}

func (s *inventarioService) ActualizarConfig(ctx context.Context, usuario string, req dto.ConfigInventarioRequest) error {
	if _, err := time.Parse("2006-01-02", req.FechaInicioTracking); err != nil {
		return fmt.Errorf("fecha_inicio_tracking inválida (se espera YYYY-MM-DD): %w", err)
	}
	if err := s.configRepo.Set(ctx, model.ConfigFechaInicioTracking, req.FechaInicioTracking, usuario); err != nil {
		return err
	}
	return s.configRepo.Set(ctx, model.ConfigTrackingActivo, strconv.FormatBool(req.TrackingActivo), usuario)
}

func (s *inventarioService) trackingActivo(ctx context.Context) (bool, error) {
	v, err := s.configRepo.GetOr(ctx, model.ConfigTrackingActivo, "true")
	if err != nil {
		return false, err
	}
	return v != "false", nil
}

// asegurarFila crea la fila de stock en cero si la combinación todavía no se
// trackea, para que la venta quede contada (y el actual en negativo, visible).
func (s *inventarioService) asegurarFila(ctx context.Context, seccion, tipoMontura, tipoCompra string) error {
	_, err := s.stockRepo.Find(ctx, seccion, tipoMontura, tipoCompra)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.stockRepo.Upsert(ctx, &model.InventarioStock{
			Seccion:       seccion,
			TipoMontura:   tipoMontura,
			TipoCompra:    tipoCompra,
			PeriodoInicio: time.Now(),
		})
	}
	return err
}

// notificarSiBajoMinimo encola la alerta de stock bajo. Best-effort: la venta
// nunca falla por no poder encolar.
func (s *inventarioService) notificarSiBajoMinimo(ctx context.Context, seccion, tipoMontura, tipoCompra string) {
	if s.dispatcher == nil {
		return
	}
	row, err := s.stockRepo.Find(ctx, seccion, tipoMontura, tipoCompra)
	if err != nil || !row.BajoMinimo() {
		return
	}
	_ = s.dispatcher.EnqueueAlerta(ctx, worker.AlertaJobPayload{
		Seccion:     row.Seccion,
		TipoMontura: row.TipoMontura,
		TipoCompra:  row.TipoCompra,
		StockActual: row.StockActual,
		StockMinimo: row.StockMinimo,
	})
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func stockToRow(row *model.InventarioStock) dto.StockRowResponse {
	return dto.StockRowResponse{
		Seccion:       row.Seccion,
		TipoMontura:   row.TipoMontura,
		TipoCompra:    row.TipoCompra,
		StockInicial:  row.StockInicial,
		StockAgregado: row.StockAgregado,
		StockSalidas:  row.StockSalidas,
		StockActual:   row.StockActual,
		StockMinimo:   row.StockMinimo,
		PeriodoInicio: row.PeriodoInicio.Format(time.RFC3339),
		Alerta:        row.BajoMinimo(),
	}
}

func movimientoToResponse(m *model.InventarioMovimiento) dto.MovimientoResponse {
	resp := dto.MovimientoResponse{
		ID:            m.ID.String(),
		Seccion:       m.Seccion,
		TipoMontura:   m.TipoMontura,
		TipoCompra:    m.TipoCompra,
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		Monto:         m.Monto,
		Nota:          m.Nota,
		ClienteNombre: m.ClienteNombre,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
	if m.OperacionID != nil {
		id := m.OperacionID.String()
		resp.OperacionID = &id
	}
	if m.Referencia != nil {
		ref := m.Referencia.String()
		resp.Referencia = &ref
	}
	return resp
}

func operacionToResponse(op *model.InventarioOperacion) *dto.OperacionResponse {
	resp := &dto.OperacionResponse{
		ID:             op.ID.String(),
		Tipo:           op.Tipo,
		Descripcion:    op.Descripcion,
		FechaOperacion: op.FechaOperacion.Format(time.RFC3339),
		CreatedBy:      op.CreatedBy,
	}
	if op.Detalles != "" {
		var detalle model.DetalleOperacion
		if err := json.Unmarshal([]byte(op.Detalles), &detalle); err == nil {
			resp.Detalles = detalle
		}
	}
	return resp
}

func comboStock(seccion, tipoMontura, tipoCompra string) string {
	return seccion + "|" + tipoMontura + "|" + tipoCompra
}

func periodoMasAntiguo(filas []*model.InventarioStock, fallback time.Time) time.Time {
	min := fallback
	for _, f := range filas {
		if !f.PeriodoInicio.IsZero() && f.PeriodoInicio.Before(min) {
			min = f.PeriodoInicio
		}
	}
	return min
}
