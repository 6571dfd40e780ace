// seed carga datos de demostración: usuario de prueba, categorías, productos con su stock
// inicial, clientes y dos facturas. Todo pasa por los casos de uso, así el libro de
// movimientos queda cuadrado con el stock.
//
// Uso: go run ./cmd/seed
// Credenciales: test@example.com / password123
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockbill-api/internal/application/auth"
	"github.com/jhoicas/stockbill-api/internal/application/billing"
	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/application/inventory"
	"github.com/jhoicas/stockbill-api/internal/application/usecase"
	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockbill-api/pkg/config"
	"github.com/jhoicas/stockbill-api/pkg/logger"
)

const (
	seedEmail    = "test@example.com"
	seedPassword = "password123"
)

type seedCategory struct {
	name, description, color string
}

type seedProduct struct {
	category          int
	name, description string
	sku, supplier     string
	price, cost       string
	stock, threshold  int
}

type seedLine struct {
	product, quantity int
}

type seedInvoice struct {
	customer      int
	tax, discount string
	status        string
	lines         []seedLine
}

var categories = []seedCategory{
	{"Electronics", "Electronic devices and gadgets", "#3B82F6"},
	{"Clothing", "Apparel and accessories", "#10B981"},
	{"Books", "Books and publications", "#F59E0B"},
	{"Home & Garden", "Home improvement and garden supplies", "#EF4444"},
}

var products = []seedProduct{
	{0, "Laptop Dell XPS 13", "High-performance laptop for professionals", "DELL-XPS-13-001", "Dell Inc.", "899.99", "650.00", 25, 5},
	{0, "iPhone 15 Pro", "Latest Apple smartphone", "APPLE-IP15-PRO", "Apple Inc.", "1199.99", "800.00", 15, 3},
	{0, "Samsung Galaxy Tab S9", "Android tablet with S Pen", "SAMSUNG-TAB-S9", "Samsung Electronics", "649.99", "450.00", 8, 5},
	{1, "Nike Air Force 1", "Classic white sneakers", "NIKE-AF1-WHITE", "Nike Inc.", "129.99", "70.00", 50, 10},
	{1, "Levi's 501 Jeans", "Original fit blue jeans", "LEVIS-501-BLUE", "Levi Strauss & Co.", "89.99", "45.00", 75, 15},
	{2, "The Great Gatsby", "Classic American novel by F. Scott Fitzgerald", "BOOK-GATSBY-001", "Penguin Random House", "12.99", "6.00", 100, 20},
	{2, "JavaScript: The Good Parts", "Programming book by Douglas Crockford", "BOOK-JS-GOOD", "O'Reilly Media", "29.99", "15.00", 35, 8},
	{3, "Dyson V15 Vacuum", "Cordless vacuum cleaner", "DYSON-V15-001", "Dyson Ltd.", "449.99", "280.00", 12, 3},
	{3, "Garden Hose 50ft", "Heavy-duty garden hose", "HOSE-50FT-001", "Garden Supply Co.", "39.99", "20.00", 30, 8},
}

var customers = []dto.CreateCustomerRequest{
	{Name: "John Smith", Email: "john.smith@example.com", Phone: "+1-555-0123", Address: "123 Main St, Anytown, USA"},
	{Name: "Jane Doe", Email: "jane.doe@example.com", Phone: "+1-555-0456", Address: "456 Oak Ave, Another City, USA"},
	{Name: "Bob Johnson", Email: "bob.johnson@example.com", Phone: "+1-555-0789", Address: "789 Pine Rd, Somewhere, USA"},
}

var invoices = []seedInvoice{
	{customer: 0, tax: "106.40", discount: "0", status: entity.InvoiceStatusPaid, lines: []seedLine{{0, 1}, {3, 1}, {5, 2}}},
	{customer: 1, tax: "148.00", discount: "50.00", status: entity.InvoiceStatusPending, lines: []seedLine{{1, 1}, {2, 1}}},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	stockUC := inventory.NewStockUseCase(productRepo, postgres.NewStockMovementRepository(pool))

	s := seeder{
		auth:     auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer}),
		category: usecase.NewCategoryUseCase(categoryRepo),
		product:  usecase.NewProductUseCase(productRepo, categoryRepo, txRunner, stockUC, nil),
		customer: billing.NewCustomerUseCase(customerRepo, invoiceRepo),
		invoice:  billing.NewInvoiceUseCase(txRunner, stockUC, invoiceRepo, nil),
	}
	if err := s.run(ctx); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			log.Warn().Str("email", seedEmail).Msg("el usuario de prueba ya existe, no se vuelve a sembrar")
			return
		}
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().
		Int("categories", len(categories)).
		Int("products", len(products)).
		Int("customers", len(customers)).
		Int("invoices", len(invoices)).
		Str("email", seedEmail).
		Str("password", seedPassword).
		Msg("base de datos sembrada")
}

type seeder struct {
	auth     *auth.AuthUseCase
	category *usecase.CategoryUseCase
	product  *usecase.ProductUseCase
	customer *billing.CustomerUseCase
	invoice  *billing.InvoiceUseCase
}

func (s seeder) run(ctx context.Context) error {
	user, err := s.auth.Register(ctx, dto.RegisterRequest{Name: "Test User", Email: seedEmail, Password: seedPassword})
	if err != nil {
		return err
	}
	userID := user.User.ID

	categoryIDs := make([]string, 0, len(categories))
	for _, c := range categories {
		out, err := s.category.Create(ctx, userID, dto.CreateCategoryRequest{Name: c.name, Description: c.description, Color: c.color})
		if err != nil {
			return fmt.Errorf("categoría %s: %w", c.name, err)
		}
		categoryIDs = append(categoryIDs, out.ID)
	}

	productIDs := make([]string, 0, len(products))
	for _, p := range products {
		price := decimal.RequireFromString(p.price)
		cost := decimal.RequireFromString(p.cost)
		stock, threshold := p.stock, p.threshold
		out, err := s.product.Create(ctx, userID, dto.CreateProductRequest{
			Name:              p.name,
			Description:       p.description,
			SKU:               p.sku,
			CategoryID:        categoryIDs[p.category],
			Price:             &price,
			CostPrice:         &cost,
			StockQuantity:     &stock,
			LowStockThreshold: &threshold,
			Supplier:          p.supplier,
		})
		if err != nil {
			return fmt.Errorf("producto %s: %w", p.sku, err)
		}
		productIDs = append(productIDs, out.ID)
	}

	customerIDs := make([]string, 0, len(customers))
	for _, c := range customers {
		out, err := s.customer.Create(ctx, userID, c)
		if err != nil {
			return fmt.Errorf("cliente %s: %w", c.Name, err)
		}
		customerIDs = append(customerIDs, out.ID)
	}

	for i, inv := range invoices {
		in := dto.CreateInvoiceRequest{
			CustomerID: customerIDs[inv.customer],
			TaxAmount:  decimal.RequireFromString(inv.tax),
			Discount:   decimal.RequireFromString(inv.discount),
		}
		for _, l := range inv.lines {
			in.Items = append(in.Items, dto.InvoiceItemRequest{ProductID: productIDs[l.product], Quantity: l.quantity})
		}
		out, err := s.invoice.Create(ctx, userID, in)
		if err != nil {
			return fmt.Errorf("factura %d: %w", i+1, err)
		}
		if inv.status != entity.InvoiceStatusPending {
			if _, err := s.invoice.UpdateStatus(ctx, userID, out.ID, dto.UpdateInvoiceStatusRequest{Status: inv.status}); err != nil {
				return fmt.Errorf("factura %s: estado: %w", out.InvoiceNo, err)
			}
		}
	}
	return nil
}
