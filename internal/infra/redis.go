package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis abre el cliente de Redis y valida la conexión al arranque. Redis
// sostiene las colas de trabajos y la caché del dashboard, así que un Redis
// caído debe frenar el arranque, no fallar en silencio después.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
