package model

import "time"

// Configuration keys for the inventario_config KV table.
const (
	ConfigFechaInicioTracking = "fecha_inicio_tracking"
	ConfigTrackingActivo      = "tracking_activo"
)

// InventarioConfig es la tabla clave/valor de configuración del tracking de
// inventario (fecha de corte de sincronización y bandera de activación).
type InventarioConfig struct {
	Clave     string `gorm:"primaryKey"`
	Valor     string `gorm:"not null"`
	UpdatedBy string
	UpdatedAt time.Time
}

func (InventarioConfig) TableName() string { return "inventario_config" }
