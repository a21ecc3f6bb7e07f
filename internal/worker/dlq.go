package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Los trabajos que agotan sus reintentos terminan en una lista de Redis
// (dlq:{cola de origen}) para inspección manual. Nada los reencola solo.
const dlqPrefix = "dlq:"

type dlqEntrada struct {
	ColaOrigen string          `json:"cola_origen"`
	TipoJob    string          `json:"tipo_job"`
	Payload    json.RawMessage `json:"payload"`
	Motivo     string          `json:"motivo"`
	FalloEn    time.Time       `json:"fallo_en"`
	Intentos   int             `json:"intentos"`
}

func sendToDLQ(ctx context.Context, rdb *redis.Client, cola, tipoJob string, payload json.RawMessage, motivo string, intentos int) {
	entrada := dlqEntrada{
		ColaOrigen: cola,
		TipoJob:    tipoJob,
		Payload:    payload,
		Motivo:     motivo,
		FalloEn:    time.Now().UTC(),
		Intentos:   intentos,
	}

	data, err := json.Marshal(entrada)
	if err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: no se pudo serializar la entrada")
		return
	}

	if err := rdb.LPush(ctx, dlqPrefix+cola, data).Err(); err != nil {
		log.Error().Err(err).Str("cola", dlqPrefix+cola).Msg("dlq: no se pudo encolar")
		return
	}

	log.Warn().
		Str("cola", cola).
		Str("tipo_job", tipoJob).
		Str("motivo", motivo).
		Int("intentos", intentos).
		Msg("dlq: trabajo movido a la cola muerta")
}
