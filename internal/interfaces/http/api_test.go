package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockbill-api/internal/application/analytics"
	"github.com/jhoicas/stockbill-api/internal/application/auth"
	"github.com/jhoicas/stockbill-api/internal/application/billing"
	"github.com/jhoicas/stockbill-api/internal/application/inventory"
	"github.com/jhoicas/stockbill-api/internal/application/reports"
	"github.com/jhoicas/stockbill-api/internal/application/usecase"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/csvexport"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/xmlexport"
	apphttp "github.com/jhoicas/stockbill-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type denyAfter struct{ n, seen int }

func (d *denyAfter) Allow(context.Context, string) (bool, error) {
	d.seen++
	return d.seen <= d.n, nil
}

func newServer(t *testing.T, limiter apphttp.RateLimiter) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	users, categories, products := store.Users(), store.Categories(), store.Products()
	customers, invoices, movements := store.Customers(), store.Invoices(), store.Movements()

	stockUC := inventory.NewStockUseCase(products, movements)
	pdfGen := pdf.NewMarotoPDFGenerator()

	deps := apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		ProductUC:   usecase.NewProductUseCase(products, categories, store, stockUC, nil),
		CategoryUC:  usecase.NewCategoryUseCase(categories),
		StockUC:     stockUC,
		CustomerUC:  billing.NewCustomerUseCase(customers, invoices),
		InvoiceUC:   billing.NewInvoiceUseCase(store, stockUC, invoices, nil),
		DocumentUC:  billing.NewDocumentUseCase(invoices, customers, users, pdfGen, xmlexport.NewUBLBuilder("")),
		DashboardUC: analytics.NewDashboardUseCase(products, categories, customers, invoices),
		AnalyticsUC: analytics.NewAnalyticsUseCase(invoices),
		ReportUC: reports.NewReportUseCase(products, categories, invoices, users, map[string]reports.Renderer{
			reports.FormatCSV: csvexport.NewRenderer(),
			reports.FormatPDF: pdfGen,
		}),
		AuthLimiter: limiter,
		JWTSecret:   testJWTSecret,
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func register(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, data := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Tienda", "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	out := decode[struct {
		Token string `json:"token"`
	}](t, data)
	require.NotEmpty(t, out.Token)
	return out.Token
}

type idOnly struct {
	ID string `json:"id"`
}

// seedCatalog crea categoría, producto con stock y cliente; devuelve (productID, customerID).
func seedCatalog(t *testing.T, app *fiber.App, token string, stock int) (string, string) {
	t.Helper()
	resp, data := call(t, app, http.MethodPost, "/api/categories", token, map[string]any{
		"name": "Electronics", "description": "Gadgets",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	cat := decode[struct {
		Category idOnly `json:"category"`
	}](t, data)

	resp, data = call(t, app, http.MethodPost, "/api/products", token, map[string]any{
		"name": "Cable", "description": "USB-C", "sku": "CAB-001",
		"category_id": cat.Category.ID, "price": 10, "cost_price": 4, "stock_quantity": stock,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	prod := decode[struct {
		Product idOnly `json:"product"`
	}](t, data)

	resp, data = call(t, app, http.MethodPost, "/api/customers", token, map[string]any{
		"name": "Ana", "email": "ana@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	cust := decode[struct {
		Customer idOnly `json:"customer"`
	}](t, data)

	return prod.Product.ID, cust.Customer.ID
}

type productStock struct {
	StockQuantity  int `json:"stock_quantity"`
	StockMovements []struct {
		Type     string `json:"type"`
		Quantity int    `json:"quantity"`
		Reason   string `json:"reason"`
	} `json:"stock_movements"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_RutasProtegidasSinToken(t *testing.T) {
	app := newServer(t, nil)
	resp, _ := call(t, app, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_LoginCredencialesInvalidas(t *testing.T) {
	app := newServer(t, nil)
	register(t, app, "dueno@example.com")

	resp, data := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "dueno@example.com", "password": "otra-clave",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(data), "INVALID_CREDENTIALS")

	resp, _ = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nadie@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "email inexistente responde igual que clave errónea")
}

func TestAPI_RegistroValidaCampos(t *testing.T) {
	app := newServer(t, nil)
	resp, data := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "no-es-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[struct {
		Code   string `json:"code"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}](t, data)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.NotEmpty(t, body.Fields, "debe listar los campos inválidos")
}

func TestAPI_RateLimitEnAuth(t *testing.T) {
	app := newServer(t, &denyAfter{n: 1})
	register(t, app, "uno@example.com")

	resp, _ := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "uno@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturación e inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_FacturaDescuentaStockYBorrarLoRestaura(t *testing.T) {
	app := newServer(t, nil)
	token := register(t, app, "f@example.com")
	productID, customerID := seedCatalog(t, app, token, 10)

	resp, data := call(t, app, http.MethodPost, "/api/invoices", token, map[string]any{
		"customer_id": customerID,
		"items":       []map[string]any{{"product_id": productID, "quantity": 3}},
		"tax_amount":  2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	created := decode[struct {
		Message string `json:"message"`
		Invoice struct {
			ID          string          `json:"id"`
			InvoiceNo   string          `json:"invoice_no"`
			TotalAmount decimal.Decimal `json:"total_amount"`
		} `json:"invoice"`
	}](t, data)
	assert.NotEmpty(t, created.Message)
	assert.Equal(t, "INV-0001", created.Invoice.InvoiceNo)
	assert.True(t, decimal.NewFromInt(32).Equal(created.Invoice.TotalAmount), "3·10 + 2 = 32, obtenido %s", created.Invoice.TotalAmount)

	_, data = call(t, app, http.MethodGet, "/api/products/"+productID, token, nil)
	p := decode[productStock](t, data)
	assert.Equal(t, 7, p.StockQuantity)
	require.NotEmpty(t, p.StockMovements)
	assert.Equal(t, "OUT", p.StockMovements[0].Type, "el movimiento más reciente es la venta")

	resp, data = call(t, app, http.MethodDelete, "/api/invoices/"+created.Invoice.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	_, data = call(t, app, http.MethodGet, "/api/products/"+productID, token, nil)
	p = decode[productStock](t, data)
	assert.Equal(t, 10, p.StockQuantity, "borrar la factura devuelve el stock")
	assert.Equal(t, "IN", p.StockMovements[0].Type)
	assert.Equal(t, "Invoice cancellation", p.StockMovements[0].Reason)

	_, data = call(t, app, http.MethodGet, "/api/products/"+productID+"/ledger", token, nil)
	ledger := decode[struct {
		Consistent    bool `json:"consistent"`
		LedgerBalance int  `json:"ledger_balance"`
	}](t, data)
	assert.True(t, ledger.Consistent, "el libro debe cuadrar con el stock")
	assert.Equal(t, 10, ledger.LedgerBalance)
}

func TestAPI_StockInsuficienteNoCreaFactura(t *testing.T) {
	app := newServer(t, nil)
	token := register(t, app, "s@example.com")
	productID, customerID := seedCatalog(t, app, token, 2)

	resp, data := call(t, app, http.MethodPost, "/api/invoices", token, map[string]any{
		"customer_id": customerID,
		"items":       []map[string]any{{"product_id": productID, "quantity": 5}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), "INSUFFICIENT_STOCK")

	_, data = call(t, app, http.MethodGet, "/api/invoices", token, nil)
	list := decode[struct {
		Invoices []idOnly `json:"invoices"`
	}](t, data)
	assert.Empty(t, list.Invoices, "no debe quedar factura")

	_, data = call(t, app, http.MethodGet, "/api/products/"+productID, token, nil)
	assert.Equal(t, 2, decode[productStock](t, data).StockQuantity, "el stock no cambia")
}

func TestAPI_FacturaPagadaNoSeBorra(t *testing.T) {
	app := newServer(t, nil)
	token := register(t, app, "p@example.com")
	productID, customerID := seedCatalog(t, app, token, 5)

	_, data := call(t, app, http.MethodPost, "/api/invoices", token, map[string]any{
		"customer_id": customerID,
		"items":       []map[string]any{{"product_id": productID, "quantity": 1}},
	})
	inv := decode[struct {
		Invoice idOnly `json:"invoice"`
	}](t, data)

	resp, data := call(t, app, http.MethodPut, "/api/invoices/"+inv.Invoice.ID+"/status", token, map[string]string{"status": "PAID"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	resp, data = call(t, app, http.MethodDelete, "/api/invoices/"+inv.Invoice.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), "PAID_INVOICE")
}

func TestAPI_BorradoBloqueadoPorDependientes(t *testing.T) {
	app := newServer(t, nil)
	token := register(t, app, "d@example.com")
	productID, customerID := seedCatalog(t, app, token, 5)

	_, data := call(t, app, http.MethodGet, "/api/products/"+productID, token, nil)
	var prod struct {
		CategoryID string `json:"category_id"`
	}
	require.NoError(t, json.Unmarshal(data, &prod))

	resp, data := call(t, app, http.MethodDelete, "/api/categories/"+prod.CategoryID, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	cat := decode[struct {
		Code         string `json:"code"`
		ProductCount *int   `json:"product_count"`
	}](t, data)
	assert.Equal(t, "HAS_DEPENDENTS", cat.Code)
	require.NotNil(t, cat.ProductCount)
	assert.Equal(t, 1, *cat.ProductCount)

	call(t, app, http.MethodPost, "/api/invoices", token, map[string]any{
		"customer_id": customerID,
		"items":       []map[string]any{{"product_id": productID, "quantity": 1}},
	})
	resp, data = call(t, app, http.MethodDelete, "/api/customers/"+customerID, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	cust := decode[struct {
		InvoiceCount *int `json:"invoice_count"`
	}](t, data)
	require.NotNil(t, cust.InvoiceCount)
	assert.Equal(t, 1, *cust.InvoiceCount)
}

func TestAPI_AislamientoEntreUsuarios(t *testing.T) {
	app := newServer(t, nil)
	owner := register(t, app, "owner@example.com")
	other := register(t, app, "other@example.com")
	productID, _ := seedCatalog(t, app, owner, 3)

	resp, _ := call(t, app, http.MethodGet, "/api/products/"+productID, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "otro usuario no debe ver el producto")

	resp, _ = call(t, app, http.MethodDelete, "/api/products/"+productID, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_IDsMalFormados(t *testing.T) {
	app := newServer(t, nil)
	token := register(t, app, "ids@example.com")
	productID, customerID := seedCatalog(t, app, token, 5)

	for _, path := range []string{
		"/api/products/abc",
		"/api/products/abc/ledger",
		"/api/categories/abc",
		"/api/customers/abc",
		"/api/invoices/abc",
		"/api/invoices/abc/pdf",
	} {
		resp, data := call(t, app, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "NOT_FOUND", decode[struct {
			Code string `json:"code"`
		}](t, data).Code, path)
	}

	resp, _ := call(t, app, http.MethodDelete, "/api/invoices/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	bodies := map[string]map[string]any{
		"cliente": {
			"customer_id": "x",
			"items":       []map[string]any{{"product_id": productID, "quantity": 1}},
		},
		"producto": {
			"customer_id": customerID,
			"items":       []map[string]any{{"product_id": "x", "quantity": 1}},
		},
	}
	for name, body := range bodies {
		resp, data := call(t, app, http.MethodPost, "/api/invoices", token, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
		assert.Equal(t, "VALIDATION", decode[struct {
			Code string `json:"code"`
		}](t, data).Code, name)
	}

	_, data := call(t, app, http.MethodGet, "/api/products/"+productID, token, nil)
	assert.Equal(t, 5, decode[productStock](t, data).StockQuantity, "el stock no cambia")
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos y reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_DocumentosDeFactura(t *testing.T) {
	app := newServer(t, nil)
	token := register(t, app, "doc@example.com")
	productID, customerID := seedCatalog(t, app, token, 5)

	_, data := call(t, app, http.MethodPost, "/api/invoices", token, map[string]any{
		"customer_id": customerID,
		"items":       []map[string]any{{"product_id": productID, "quantity": 2}},
	})
	inv := decode[struct {
		Invoice idOnly `json:"invoice"`
	}](t, data)

	resp, data := call(t, app, http.MethodGet, "/api/invoices/"+inv.Invoice.ID+"/xml", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Contains(t, resp.Header.Get(apphttp.HeaderDigest), "sha-256=")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "factura_INV-0001.xml")
	assert.Contains(t, string(data), "INV-0001")

	resp, data = call(t, app, http.MethodGet, "/api/invoices/"+inv.Invoice.ID+"/pdf", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "debe ser un PDF")
}

func TestAPI_ReporteInventarioCSV(t *testing.T) {
	app := newServer(t, nil)
	token := register(t, app, "rep@example.com")
	seedCatalog(t, app, token, 4)

	resp, data := call(t, app, http.MethodGet, "/api/reports/inventory?format=csv", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".csv")
	assert.Contains(t, string(data), "Cable")
	assert.Contains(t, string(data), "40.00", "valor = 4 · 10")

	resp, _ = call(t, app, http.MethodGet, "/api/reports/inventory?format=docx", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "formato no soportado")
}

func TestAPI_DashboardSinFacturas(t *testing.T) {
	app := newServer(t, nil)
	token := register(t, app, "dash@example.com")
	seedCatalog(t, app, token, 4)

	resp, data := call(t, app, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.NotEmpty(t, body)

	resp, data = call(t, app, http.MethodGet, "/api/analytics", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	an := decode[struct {
		TotalInvoices     int             `json:"total_invoices"`
		AverageOrderValue decimal.Decimal `json:"average_order_value"`
	}](t, data)
	assert.Zero(t, an.TotalInvoices)
	assert.True(t, an.AverageOrderValue.IsZero(), "sin facturas el ticket promedio es 0")
}
