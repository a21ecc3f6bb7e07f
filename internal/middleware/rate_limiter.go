package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana acumula solicitudes por IP dentro de una ventana deslizante.
type ventana struct {
	mu     sync.Mutex
	count  int
	cierre time.Time
}

// limiter es un limitador por IP con ventana deslizante en memoria. El estado
// vive en el proceso: con varias réplicas cada una limita por su cuenta.
type limiter struct {
	mu       sync.Mutex
	ventanas map[string]*ventana
	limite   int
	duracion time.Duration
	mensaje  string
}

func newLimiter(limite int, duracion time.Duration, mensaje string) *limiter {
	l := &limiter{
		ventanas: make(map[string]*ventana),
		limite:   limite,
		duracion: duracion,
		mensaje:  mensaje,
	}
	go l.purgar()
	return l
}

func (l *limiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		l.mu.Lock()
		v, ok := l.ventanas[ip]
		if !ok {
			v = &ventana{}
			l.ventanas[ip] = v
		}
		l.mu.Unlock()

		v.mu.Lock()
		now := time.Now()
		if now.After(v.cierre) {
			v.count = 0
			v.cierre = now.Add(l.duracion)
		}
		v.count++
		excedido := v.count > l.limite
		cierre := v.cierre
		v.mu.Unlock()

		if excedido {
			c.Header("Retry-After", cierre.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

// purgar elimina ventanas vencidas para que las IPs que no vuelven no
// acumulen memoria.
func (l *limiter) purgar() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purgadas := 0

		l.mu.Lock()
		for ip, v := range l.ventanas {
			v.mu.Lock()
			if now.After(v.cierre) {
				delete(l.ventanas, ip)
				purgadas++
			}
			v.mu.Unlock()
		}
		restantes := len(l.ventanas)
		l.mu.Unlock()

		if purgadas > 0 {
			log.Debug().
				Int("purgadas", purgadas).
				Int("restantes", restantes).
				Msg("ventanas de rate limit purgadas")
		}
	}
}

// LoginRateLimiter limita los intentos de login a 20 por minuto por IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimiter(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.").handler()
}

// RateLimiter limita el resto de la API por IP con la ventana indicada.
func RateLimiter(limite int, duracion time.Duration) gin.HandlerFunc {
	return newLimiter(limite, duracion, "Demasiadas solicitudes. Intente nuevamente en un momento.").handler()
}
