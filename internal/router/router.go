package router

import (
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/config"
	"github.com/JohnDGC/oh-my-glasses/internal/handler"
	"github.com/JohnDGC/oh-my-glasses/internal/infra"
	"github.com/JohnDGC/oh-my-glasses/internal/middleware"
	"github.com/JohnDGC/oh-my-glasses/internal/repository"
	"github.com/JohnDGC/oh-my-glasses/internal/service"
	"github.com/JohnDGC/oh-my-glasses/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine plus the
// worker handlers the server main registers on the pool.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *worker.SincronizacionWorker, *worker.AlertaWorker) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)
	pdfGen := infra.NewPDFGenerator(cfg.PDFStoragePath)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	abonoRepo := repository.NewAbonoRepository(db)
	referidoRepo := repository.NewReferidoRepository(db)
	stockRepo := repository.NewStockRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	operacionRepo := repository.NewOperacionRepository(db)
	configRepo := repository.NewConfigRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	resolver := service.NewSeccionResolver(cfg)
	inventarioSvc := service.NewInventarioService(stockRepo, movimientoRepo, operacionRepo, configRepo, compraRepo, resolver, dispatcher)
	referidoSvc := service.NewReferidoService(referidoRepo, clienteRepo, compraRepo)
	abonoSvc := service.NewAbonoService(abonoRepo, compraRepo)
	compraSvc := service.NewCompraService(compraRepo, abonoRepo, clienteRepo, inventarioSvc, referidoSvc)
	clienteSvc := service.NewClienteService(clienteRepo, compraSvc, referidoSvc)
	reporteSvc := service.NewReporteService(movimientoRepo, abonoRepo, stockRepo, compraRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc, referidoSvc)
	comprasH := handler.NewComprasHandler(compraSvc, abonoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	reportesH := handler.NewReportesHandler(reporteSvc, stockRepo, pdfGen)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: asesor, optometra, administrador — declared per-endpoint
		todos := middleware.RequireRole("asesor", "optometra", "administrador")
		admin := middleware.RequireRole("administrador")

		clientes := v1.Group("/clientes")
		{
			clientes.POST("", todos, clientesH.Crear)
			clientes.GET("", todos, clientesH.Listar)
			clientes.GET("/:id", todos, clientesH.Obtener)
			clientes.PUT("/:id", todos, clientesH.Actualizar)
			clientes.DELETE("/:id", admin, clientesH.Eliminar)

			clientes.GET("/:id/referidos", todos, clientesH.ListarReferidos)
			clientes.POST("/:id/redimir-cashback", todos, clientesH.RedimirCashback)

			clientes.POST("/:id/compras", todos, comprasH.Crear)
			clientes.GET("/:id/compras", todos, comprasH.ListarPorCliente)
		}

		compras := v1.Group("/compras")
		{
			compras.GET("/:compraId", todos, comprasH.Obtener)
			compras.PUT("/:compraId", todos, comprasH.Actualizar)
			compras.DELETE("/:compraId", admin, comprasH.Eliminar)

			compras.POST("/:compraId/abonos", todos, comprasH.CrearAbono)
			compras.GET("/:compraId/abonos", todos, comprasH.ListarAbonos)
			compras.DELETE("/:compraId/abonos/:abonoId", admin, comprasH.EliminarAbono)
		}

		inv := v1.Group("/inventario")
		{
			inv.GET("/stock", todos, inventarioH.Stock)
			inv.GET("/movimientos", todos, inventarioH.Movimientos)
			inv.GET("/operaciones", todos, inventarioH.Operaciones)
			inv.GET("/operaciones/:id", todos, inventarioH.Operacion)
			inv.GET("/alertas", todos, inventarioH.Alertas)

			inv.POST("/reestock", admin, inventarioH.ReestockGlobal)
			inv.POST("/adiciones", admin, inventarioH.AdicionEspecifica)
			inv.POST("/sincronizar", admin, inventarioH.Sincronizar)
			inv.PUT("/stock-minimo", admin, inventarioH.ActualizarMinimo)
			inv.GET("/config", admin, inventarioH.Config)
			inv.PUT("/config", admin, inventarioH.ActualizarConfig)
		}

		reportes := v1.Group("/reportes")
		{
			reportes.GET("/dashboard", todos, reportesH.Dashboard)
			reportes.GET("/rotacion", todos, reportesH.Rotacion)
			reportes.GET("/deudores", todos, reportesH.Deudores)
			reportes.GET("/stock-pdf", admin, reportesH.InformeStockPDF)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	syncWorker := worker.NewSincronizacionWorker(inventarioSvc, configRepo)
	alertaWorker := worker.NewAlertaWorker(mailer, stockRepo, pdfGen, cfg.AlertEmail)

	return r, syncWorker, alertaWorker
}
