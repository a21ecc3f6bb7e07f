package infra

import (
	"fmt"

	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches that GORM
// cannot express (the stock_actual recompute trigger and partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.ClienteCompra{},
		&model.ClienteAbono{},
		&model.ClienteReferido{},
		&model.InventarioStock{},
		&model.InventarioMovimiento{},
		&model.InventarioOperacion{},
		&model.InventarioConfig{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
// Each statement uses IF NOT EXISTS / OR REPLACE semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// stock_actual es derivado: el trigger lo recalcula en cada escritura.
		`CREATE OR REPLACE FUNCTION recalcular_stock_actual() RETURNS trigger AS $$
		BEGIN
		  NEW.stock_actual := NEW.stock_inicial + NEW.stock_agregado - NEW.stock_salidas;
		  RETURN NEW;
		END;
		$$ LANGUAGE plpgsql`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_inventario_stock_actual') THEN
		    CREATE TRIGGER trg_inventario_stock_actual
		        BEFORE INSERT OR UPDATE ON inventario_stock
		        FOR EACH ROW EXECUTE FUNCTION recalcular_stock_actual();
		  END IF;
		END $$`,
		// One venta movement per compra: the reconciler's idempotence key,
		// and the index behind FindVentaByCompra.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_movimientos_venta_compra') THEN
		    CREATE UNIQUE INDEX uni_movimientos_venta_compra
		        ON inventario_movimientos (referencia)
		        WHERE tipo = 'venta' AND referencia IS NOT NULL;
		  END IF;
		END $$`,
		// Referral lookup used by redemption and reassignment.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_referidos_referidor_estado') THEN
		    CREATE INDEX idx_referidos_referidor_estado
		        ON cliente_referidos (cliente_referidor_id, estado);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// RunMigrations applies the full schema for integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.ClienteCompra{},
		&model.ClienteAbono{},
		&model.ClienteReferido{},
		&model.InventarioStock{},
		&model.InventarioMovimiento{},
		&model.InventarioOperacion{},
		&model.InventarioConfig{},
	); err != nil {
		return err
	}
	return applySchemaPatches(db)
}
