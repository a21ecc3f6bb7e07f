package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/dto"
	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubConfigRepo struct {
	valores map[string]string
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

type fakeSincronizador struct {
	params   *dto.SincronizacionParams
	err      error
	llamadas int
}

func (f *fakeSincronizador) SincronizarComprasHistoricas(_ context.Context, params dto.SincronizacionParams) (*dto.SincronizacionResponse, error) {
	f.llamadas++
	f.params = &params
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SincronizacionResponse{TotalCompras: 3, TotalSincronizadas: 1}, nil
}

func TestResolverParamsSincronizacion(t *testing.T) {
	ctx := context.Background()

	// Sin configuración: tracking activo desde el inicio de los tiempos.
	params, err := ResolverParamsSincronizacion(ctx, &stubConfigRepo{valores: map[string]string{}})
	require.NoError(t, err)
	assert.True(t, params.TrackingActivo)
	assert.True(t, params.FechaInicio.IsZero())

	params, err = ResolverParamsSincronizacion(ctx, &stubConfigRepo{valores: map[string]string{
		model.ConfigTrackingActivo:      "false",
		model.ConfigFechaInicioTracking: "2026-03-01",
	}})
	require.NoError(t, err)
	assert.False(t, params.TrackingActivo)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), params.FechaInicio)

	_, err = ResolverParamsSincronizacion(ctx, &stubConfigRepo{valores: map[string]string{
		model.ConfigFechaInicioTracking: "01/03/2026",
	}})
	assert.Error(t, err)
}

func TestSincronizacionWorkerProcess(t *testing.T) {
	sincronizador := &fakeSincronizador{}
	w := NewSincronizacionWorker(sincronizador, &stubConfigRepo{valores: map[string]string{
		model.ConfigFechaInicioTracking: "2026-01-01",
	}})

	payload, err := json.Marshal(SincronizacionJobPayload{Solicitante: "cron"})
	require.NoError(t, err)
	require.NoError(t, w.Process(context.Background(), payload))

	require.NotNil(t, sincronizador.params)
	assert.True(t, sincronizador.params.TrackingActivo)
	assert.Equal(t, 2026, sincronizador.params.FechaInicio.Year())
}

func TestSincronizacionWorkerPayloadInvalido(t *testing.T) {
	sincronizador := &fakeSincronizador{}
	w := NewSincronizacionWorker(sincronizador, &stubConfigRepo{valores: map[string]string{}})

	// Un payload corrupto no debe reintentarse.
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{no es json`)))
	assert.Zero(t, sincronizador.llamadas)
}

func TestSincronizacionWorkerPropagaError(t *testing.T) {
	sincronizador := &fakeSincronizador{err: errors.New("db caída")}
	w := NewSincronizacionWorker(sincronizador, &stubConfigRepo{valores: map[string]string{}})

	payload, _ := json.Marshal(SincronizacionJobPayload{Solicitante: "api"})
	assert.Error(t, w.Process(context.Background(), payload))
}
