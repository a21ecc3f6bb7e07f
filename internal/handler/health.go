package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health verifica la conectividad con Postgres y Redis. Devuelve 503 si
// cualquiera de los dos no responde dentro del timeout.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbOK := true
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbOK = false
		}

		redisOK := rdb.Ping(ctx).Err() == nil

		status := http.StatusOK
		if !dbOK || !redisOK {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"db":       estado(dbOK),
			"redis":    estado(redisOK),
			"servicio": "oh-my-glasses",
		})
	}
}

func estado(ok bool) string {
	if ok {
		return "conectado"
	}
	return "error"
}
