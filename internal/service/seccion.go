package service

import (
	"strings"

	"github.com/JohnDGC/oh-my-glasses/internal/config"
	"github.com/JohnDGC/oh-my-glasses/internal/model"
)

// SeccionResolver decide a qué sección del inventario pertenece una compra.
//
// Reglas, en orden:
//  1. Sección explícita en la compra → gana siempre.
//  2. Montura de línea premium → la sección premium configurada.
//  3. Sin sección → la venta no impacta stock (devuelve "", false).
type SeccionResolver struct {
	premium        map[string]struct{}
	seccionPremium string
}

func NewSeccionResolver(cfg *config.Config) *SeccionResolver {
	premium := make(map[string]struct{})
	for _, m := range cfg.PremiumMonturasList() {
		premium[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	return &SeccionResolver{
		premium:        premium,
		seccionPremium: cfg.SeccionPremium,
	}
}

// Resolver devuelve la sección de la compra y si la venta debe contarse.
func (r *SeccionResolver) Resolver(compra *model.ClienteCompra) (string, bool) {
	if compra.Seccion != nil && strings.TrimSpace(*compra.Seccion) != "" {
		return strings.TrimSpace(*compra.Seccion), true
	}
	if _, ok := r.premium[strings.ToLower(strings.TrimSpace(compra.TipoMontura))]; ok {
		return r.seccionPremium, true
	}
	return "", false
}

// EsPremium reporta si la montura pertenece a la línea premium configurada.
func (r *SeccionResolver) EsPremium(tipoMontura string) bool {
	_, ok := r.premium[strings.ToLower(strings.TrimSpace(tipoMontura))]
	return ok
}
