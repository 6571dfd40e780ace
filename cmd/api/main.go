package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/jhoicas/stockbill-api/docs"
	"github.com/jhoicas/stockbill-api/internal/application/analytics"
	"github.com/jhoicas/stockbill-api/internal/application/auth"
	"github.com/jhoicas/stockbill-api/internal/application/billing"
	"github.com/jhoicas/stockbill-api/internal/application/inventory"
	"github.com/jhoicas/stockbill-api/internal/application/ports"
	"github.com/jhoicas/stockbill-api/internal/application/reports"
	"github.com/jhoicas/stockbill-api/internal/application/usecase"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/cache"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/csvexport"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/excel"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/kafka"
	infrapdf "github.com/jhoicas/stockbill-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/realtime"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/stockbill-api/internal/interfaces/http"
	"github.com/jhoicas/stockbill-api/pkg/config"
	"github.com/jhoicas/stockbill-api/pkg/logger"
)

// @title                       StockBill API
// @version                     1.0
// @description                 Inventario, facturación y reportes multiusuario.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	// .env es opcional; las variables del entorno tienen prioridad.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Eventos de stock: websocket siempre; Kafka y Redis si están configurados.
	hub := realtime.NewHub()
	go hub.Run(ctx)
	publishers := []ports.StockEventPublisher{hub}

	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Error().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("kafka no disponible, se omite")
		} else {
			defer producer.Close()
			publishers = append(publishers, producer)
			log.Info().Str("topic", cfg.Kafka.Topic).Msg("publicando eventos en Kafka")
		}
	}

	var authLimiter httpRouter.RateLimiter
	redisClient, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de Redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
		authLimiter = cache.NewFixedWindowLimiter(redisClient, cfg.Redis.RateLimit, cfg.Redis.RateLimitWindow)
		publishers = append(publishers, cache.NewEventPublisher(redisClient))
	}
	publisher := realtime.NewFanout(publishers...)

	stockUC := inventory.NewStockUseCase(productRepo, movementRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, txRunner, stockUC, publisher)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	customerUC := billing.NewCustomerUseCase(customerRepo, invoiceRepo)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, stockUC, invoiceRepo, publisher)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	documentUC := billing.NewDocumentUseCase(invoiceRepo, customerRepo, userRepo, pdfGenerator, xmlexport.NewUBLBuilder(""))
	reportUC := reports.NewReportUseCase(productRepo, categoryRepo, invoiceRepo, userRepo, map[string]reports.Renderer{
		reports.FormatPDF:  pdfGenerator,
		reports.FormatXLSX: excel.NewRenderer(),
		reports.FormatCSV:  csvexport.NewRenderer(),
	})

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(os.Stdout))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		if err := pool.Ping(c.UserContext()); err != nil {
			status = "degraded"
		}
		return c.JSON(fiber.Map{"status": status, "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		CategoryUC:  categoryUC,
		StockUC:     stockUC,
		CustomerUC:  customerUC,
		InvoiceUC:   invoiceUC,
		DocumentUC:  documentUC,
		DashboardUC: analytics.NewDashboardUseCase(productRepo, categoryRepo, customerRepo, invoiceRepo),
		AnalyticsUC: analytics.NewAnalyticsUseCase(invoiceRepo),
		ReportUC:    reportUC,
		Hub:         hub,
		AuthLimiter: authLimiter,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()

	log.Info().Msg("aplicación detenida")
}
