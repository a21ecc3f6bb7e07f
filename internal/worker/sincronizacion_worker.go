package worker

// sincronizacion_worker.go
// Processes reconciliation jobs from QueueSincronizacion: resolves the
// tracking cutoff from inventario_config and hands the explicit params to
// the reconciler. Safe to run repeatedly — the run is idempotent.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/model"
	"github.com/JohnDGC/oh-my-glasses/internal/repository"

	"github.com/rs/zerolog/log"
)

// Sincronizador is the slice of the inventory service the worker needs.
type Sincronizador interface {
	SincronizarComprasHistoricas(ctx context.Context, params dto.SincronizacionParams) (*dto.SincronizacionResponse, error)
}

type SincronizacionWorker struct {
	inventario Sincronizador
	configRepo repository.ConfigRepository
}

func NewSincronizacionWorker(inventario Sincronizador, configRepo repository.ConfigRepository) *SincronizacionWorker {
	return &SincronizacionWorker{inventario: inventario, configRepo: configRepo}
}

func (w *SincronizacionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload SincronizacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("sincronizacion_worker: invalid payload")
		return nil // malformed jobs don't retry
	}

	params, err := ResolverParamsSincronizacion(ctx, w.configRepo)
	if err != nil {
		return fmt.Errorf("sincronizacion_worker: resolviendo config: %w", err)
	}

	resp, err := w.inventario.SincronizarComprasHistoricas(ctx, params)
	if err != nil {
		return fmt.Errorf("sincronizacion_worker: %w", err)
	}

	log.Info().
		Str("solicitante", payload.Solicitante).
		Int("total_compras", resp.TotalCompras).
		Int("total_sincronizadas", resp.TotalSincronizadas).
		Msg("sincronizacion_worker: corrida completada")
	return nil
}

// ResolverParamsSincronizacion lee la configuración de tracking y la
// convierte en los parámetros explícitos que consume el reconciler.
func ResolverParamsSincronizacion(ctx context.Context, configRepo repository.ConfigRepository) (dto.SincronizacionParams, error) {
	params := dto.SincronizacionParams{}

	activo, err := configRepo.GetOr(ctx, model.ConfigTrackingActivo, "true")
	if err != nil {
		return params, err
	}
	params.TrackingActivo = activo != "false"

	fecha, err := configRepo.GetOr(ctx, model.ConfigFechaInicioTracking, "")
	if err != nil {
		return params, err
	}
	if fecha != "" {
		inicio, err := time.Parse("2006-01-02", fecha)
		if err != nil {
			return params, fmt.Errorf("fecha_inicio_tracking inválida %q: %w", fecha, err)
		}
		params.FechaInicio = inicio
	}
	return params, nil
}
