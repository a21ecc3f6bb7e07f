package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/model"
	"github.com/JohnDGC/oh-my-glasses/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dashboardCacheTTL = time.Minute

// ReporteService arma los agregados de lectura: dashboard de inventario por
// período, rotación por montura y cartera de deudores. El dashboard se cachea
// en Redis; el resto se calcula en línea.
type ReporteService interface {
	DashboardInventario(ctx context.Context, periodo string) (*dto.DashboardInventario, error)
	RotacionInventario(ctx context.Context) ([]dto.RotacionItem, error)
	Deudores(ctx context.Context) ([]dto.ClienteDeudor, error)
}

type reporteService struct {
	movRepo    repository.MovimientoRepository
	abonoRepo  repository.AbonoRepository
	stockRepo  repository.StockRepository
	compraRepo repository.CompraRepository
	rdb        *redis.Client
}

func NewReporteService(
	movRepo repository.MovimientoRepository,
	abonoRepo repository.AbonoRepository,
	stockRepo repository.StockRepository,
	compraRepo repository.CompraRepository,
	rdb *redis.Client,
) ReporteService {
	return &reporteService{
		movRepo:    movRepo,
		abonoRepo:  abonoRepo,
		stockRepo:  stockRepo,
		compraRepo: compraRepo,
		rdb:        rdb,
	}
}

func rangoPeriodo(periodo string, ahora time.Time) (time.Time, time.Time, error) {
	fin := ahora
	switch periodo {
	case "day":
		inicio := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
		return inicio, fin, nil
	case "week":
		return ahora.AddDate(0, 0, -7), fin, nil
	case "month":
		return ahora.AddDate(0, -1, 0), fin, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("periodo inválido %q (se espera day, week o month)", periodo)
	}
}

func (s *reporteService) DashboardInventario(ctx context.Context, periodo string) (*dto.DashboardInventario, error) {
	cacheKey := "dashboard:inventario:" + periodo

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.DashboardInventario
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	desde, hasta, err := rangoPeriodo(periodo, time.Now())
	if err != nil {
		return nil, err
	}

	movs, err := s.movRepo.ListEnRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardInventario{
		Periodo:           periodo,
		DineroAcumulado:   decimal.Zero,
		DineroRealEntrado: decimal.Zero,
		DineroPendiente:   decimal.Zero,
	}
	for i := range movs {
		mov := &movs[i]
		switch mov.Tipo {
		case model.MovimientoVenta:
			resp.MonturasVendidas += mov.Cantidad
			resp.Salidas += mov.Cantidad
			if mov.Monto != nil {
				resp.DineroAcumulado = resp.DineroAcumulado.Add(*mov.Monto)
			}
		case model.MovimientoReestock, model.MovimientoAdicion:
			resp.Entradas += mov.Cantidad
		}
	}

	abonado, err := s.abonoRepo.SumEnRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	resp.DineroRealEntrado = abonado
	resp.DineroPendiente = resp.DineroAcumulado.Sub(abonado)
	if resp.DineroPendiente.IsNegative() {
		resp.DineroPendiente = decimal.Zero
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, dashboardCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("dashboard no cacheado")
			}
		}
	}
	return resp, nil
}

func (s *reporteService) RotacionInventario(ctx context.Context) ([]dto.RotacionItem, error) {
	rows, err := s.stockRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RotacionItem, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		item := dto.RotacionItem{
			Seccion:      row.Seccion,
			TipoMontura:  row.TipoMontura,
			StockActual:  row.StockActual,
			StockMinimo:  row.StockMinimo,
			TotalVendido: row.StockSalidas,
		}
		disponible := row.StockInicial + row.StockAgregado
		if disponible > 0 {
			item.Rotacion = float64(row.StockSalidas) / float64(disponible)
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *reporteService) Deudores(ctx context.Context) ([]dto.ClienteDeudor, error) {
	compras, err := s.compraRepo.ListConDeuda(ctx)
	if err != nil {
		return nil, err
	}

	porCliente := make(map[string]*dto.ClienteDeudor)
	var orden []string
	for i := range compras {
		compra := &compras[i]
		clienteID := compra.ClienteID.String()
		deudor, ok := porCliente[clienteID]
		if !ok {
			deudor = &dto.ClienteDeudor{
				ClienteID:      clienteID,
				TotalCompras:   decimal.Zero,
				TotalAbonado:   decimal.Zero,
				SaldoPendiente: decimal.Zero,
			}
			if compra.Cliente != nil {
				deudor.ClienteNombre = compra.Cliente.Nombres
				deudor.ClienteCedula = compra.Cliente.Cedula
			}
			porCliente[clienteID] = deudor
			orden = append(orden, clienteID)
		}

		saldo := compra.PrecioTotal.Sub(compra.Abono)
		deudor.TotalCompras = deudor.TotalCompras.Add(compra.PrecioTotal)
		deudor.TotalAbonado = deudor.TotalAbonado.Add(compra.Abono)
		deudor.SaldoPendiente = deudor.SaldoPendiente.Add(saldo)
		deudor.ComprasPendientes++
		if fecha := compra.FechaCompra.Format("2006-01-02"); fecha > deudor.UltimaCompra {
			deudor.UltimaCompra = fecha
		}
		deudor.Detalle = append(deudor.Detalle, dto.DeudaDetalle{
			CompraID:    compra.ID.String(),
			Fecha:       compra.FechaCompra.Format("2006-01-02"),
			TipoMontura: compra.TipoMontura,
			RangoPrecio: compra.RangoPrecio,
			PrecioTotal: compra.PrecioTotal,
			Abonado:     compra.Abono,
			Saldo:       saldo,
		})
	}

	out := make([]dto.ClienteDeudor, 0, len(orden))
	for _, id := range orden {
		out = append(out, *porCliente[id])
	}
	return out, nil
}
