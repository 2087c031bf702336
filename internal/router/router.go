package router

import (
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/config"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/handler"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/infra"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/middleware"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/repository"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/service"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	"gorm.io/gorm"
)

const (
	defaultLoginRate = "20-M"
	defaultAPIRate   = "1000-M"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// rdb may be nil: the dashboard cache and the alert queue are then disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimit(newLimiter(cfg.APIRateLimit, defaultAPIRate),
		"Demasiadas solicitudes. Intente nuevamente en un momento."))

	// ── Infrastructure ───────────────────────────────────────────────────────
	loc := cfg.Location()
	cache := infra.NewCache(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	tipoServicioRepo := repository.NewTipoServicioRepository(db)
	servicioRepo := repository.NewServicioRepository(db)
	categoriaEgresoRepo := repository.NewCategoriaEgresoRepository(db)
	egresoRepo := repository.NewEgresoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, cache, loc)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo, movimientoStockRepo, dispatcher, cache, loc)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, movimientoStockRepo, usuarioRepo, dispatcher, cache, loc, cfg.BusinessName)
	tipoServicioSvc := service.NewTipoServicioService(tipoServicioRepo)
	servicioSvc := service.NewServicioService(servicioRepo, tipoServicioRepo, cache, loc)
	categoriaEgresoSvc := service.NewCategoriaEgresoService(categoriaEgresoRepo)
	egresoSvc := service.NewEgresoService(egresoRepo, categoriaEgresoRepo, cache, loc)
	historialSvc := service.NewHistorialService(ventaRepo, servicioRepo, egresoRepo, loc)
	dashboardSvc := service.NewDashboardService(ventaRepo, servicioRepo, egresoRepo, cache, loc, nil)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	tiposServicioH := handler.NewTiposServicioHandler(tipoServicioSvc)
	serviciosH := handler.NewServiciosHandler(servicioSvc)
	categoriasEgresoH := handler.NewCategoriasEgresoHandler(categoriaEgresoSvc)
	egresosH := handler.NewEgresosHandler(egresoSvc)
	historialH := handler.NewHistorialHandler(historialSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	jobsH := handler.NewJobsHandler(worker.NewDeadLetters(rdb))

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	loginLimiter := middleware.RateLimit(newLimiter(cfg.LoginRateLimit, defaultLoginRate),
		"Demasiados intentos de login. Intente en 1 minuto.")
	r.POST("/api/auth/login", loginLimiter, authH.Login)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	soloAdmin := middleware.RequireRole(middleware.RolAdmin)
	api := r.Group("/api", jwtMW)
	{
		api.GET("/auth/me", authH.Me)

		usuarios := api.Group("/admin/usuarios", soloAdmin)
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.POST("", usuariosH.Crear)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Eliminar)
		}

		jobs := api.Group("/admin/jobs", soloAdmin)
		{
			jobs.GET("/fallidos", jobsH.ListarFallidos)
			jobs.POST("/fallidos/reencolar", jobsH.Reencolar)
		}

		// Catalog: everyone reads, administrators write
		api.GET("/categorias", categoriasH.Listar)
		api.POST("/categorias", soloAdmin, categoriasH.Crear)
		api.PUT("/categorias/:id", soloAdmin, categoriasH.Actualizar)
		api.DELETE("/categorias/:id", soloAdmin, categoriasH.Eliminar)

		api.GET("/productos", productosH.Listar)
		api.GET("/productos/:id", productosH.ObtenerPorID)
		api.GET("/productos/:id/movimientos", productosH.Movimientos)
		api.POST("/productos", soloAdmin, productosH.Crear)
		api.PUT("/productos/:id", soloAdmin, productosH.Actualizar)
		api.DELETE("/productos/:id", soloAdmin, productosH.Eliminar)

		// DELETE checks the stored role of the caller inside the service
		ventas := api.Group("/ventas")
		{
			ventas.GET("", ventasH.ListarVentas)
			ventas.POST("", ventasH.RegistrarVenta)
			ventas.GET("/:id", ventasH.ObtenerVenta)
			ventas.GET("/:id/ticket", ventasH.Ticket)
			ventas.DELETE("/:id", ventasH.EliminarVenta)
		}

		tipos := api.Group("/service-types")
		{
			tipos.GET("", tiposServicioH.Listar)
			tipos.POST("", tiposServicioH.Crear)
			tipos.PUT("/:id", tiposServicioH.Actualizar)
			tipos.DELETE("/:id", tiposServicioH.Eliminar)
		}

		servicios := api.Group("/servicios")
		{
			servicios.GET("", serviciosH.Listar)
			servicios.POST("", serviciosH.Crear)
			servicios.PUT("/:id", serviciosH.Actualizar)
			servicios.DELETE("/:id", serviciosH.Eliminar)
		}

		catEgreso := api.Group("/expense-categories")
		{
			catEgreso.GET("", categoriasEgresoH.Listar)
			catEgreso.POST("", categoriasEgresoH.Crear)
			catEgreso.DELETE("/:id", categoriasEgresoH.Eliminar)
		}

		egresos := api.Group("/egresos")
		{
			egresos.GET("", egresosH.Listar)
			egresos.POST("", egresosH.Crear)
			egresos.DELETE("/:id", egresosH.Eliminar)
		}

		api.GET("/historial", historialH.Listar)
		api.GET("/historial/export", historialH.Exportar)

		api.GET("/dashboard/ventas-stats", dashboardH.VentasStats)
		api.GET("/dashboard/productos-mas-vendidos", dashboardH.ProductosMasVendidos)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// newLimiter falls back to def when the configured rate cannot be parsed.
func newLimiter(formatted, def string) *limiter.Limiter {
	l, err := middleware.NewLimiter(formatted)
	if err == nil {
		return l
	}
	log.Warn().Err(err).Str("rate", formatted).Str("fallback", def).Msg("invalid rate limit, using default")
	l, _ = middleware.NewLimiter(def)
	return l
}
