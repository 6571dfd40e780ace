// Package xmlexport genera la factura como XML estilo UBL 2.1 y su digest canónico (C14N + SHA-256).
package xmlexport

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	appbilling "github.com/jhoicas/stockbill-api/internal/application/billing"
	"github.com/jhoicas/stockbill-api/internal/domain/entity"
	"github.com/jhoicas/stockbill-api/internal/domain/repository"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// InvoiceElementID atributo Id de la raíz, referenciable desde una firma.
const InvoiceElementID = "invoice"

var _ appbilling.InvoiceXMLBuilder = (*UBLBuilder)(nil)

// UBLBuilder implementa billing.InvoiceXMLBuilder.
type UBLBuilder struct {
	currency string
}

// NewUBLBuilder crea el builder. currency vacío usa "USD".
func NewUBLBuilder(currency string) *UBLBuilder {
	if currency == "" {
		currency = "USD"
	}
	return &UBLBuilder{currency: currency}
}

// BuildInvoiceXML serializa la factura con emisor, cliente, líneas e impuestos.
func (b *UBLBuilder) BuildInvoiceXML(invoice *repository.InvoiceDetail, seller *entity.User, customer *entity.Customer) ([]byte, error) {
	if invoice == nil || seller == nil || customer == nil {
		return nil, fmt.Errorf("xml: faltan factura, emisor o cliente")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)
	root.CreateAttr("Id", InvoiceElementID)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "ID", invoice.InvoiceNo)
	cbc(root, "UUID", invoice.ID)
	cbc(root, "IssueDate", invoice.CreatedAt.UTC().Format("2006-01-02"))
	cbc(root, "IssueTime", invoice.CreatedAt.UTC().Format("15:04:05Z"))
	if invoice.DueDate != nil {
		cbc(root, "DueDate", invoice.DueDate.UTC().Format("2006-01-02"))
	}
	if invoice.Notes != "" {
		cbc(root, "Note", invoice.Notes)
	}
	cbc(root, "DocumentCurrencyCode", b.currency)
	cbc(root, "LineCountNumeric", strconv.Itoa(len(invoice.Items)))

	supplier := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	cbc(supplier.CreateElement("cac:PartyIdentification"), "ID", seller.ID)
	cbc(supplier.CreateElement("cac:PartyName"), "Name", seller.Name)
	cbc(supplier.CreateElement("cac:Contact"), "ElectronicMail", seller.Email)

	b.writeCustomer(root, customer)

	subtotal := decimal.Zero
	for _, it := range invoice.Items {
		subtotal = subtotal.Add(it.Total)
	}

	tax := root.CreateElement("cac:TaxTotal")
	b.amount(tax, "TaxAmount", invoice.TaxAmount)

	if invoice.Discount.IsPositive() {
		allowance := root.CreateElement("cac:AllowanceCharge")
		cbc(allowance, "ChargeIndicator", "false")
		b.amount(allowance, "Amount", invoice.Discount)
	}

	monetary := root.CreateElement("cac:LegalMonetaryTotal")
	b.amount(monetary, "LineExtensionAmount", subtotal)
	b.amount(monetary, "TaxInclusiveAmount", subtotal.Add(invoice.TaxAmount))
	b.amount(monetary, "AllowanceTotalAmount", invoice.Discount)
	b.amount(monetary, "PayableAmount", invoice.TotalAmount)

	for i, it := range invoice.Items {
		b.writeLine(root, i+1, it)
	}

	doc.Indent(2)
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("xml: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

// Digest canonicaliza el documento (C14N inclusivo) y devuelve su SHA-256 en Base64.
func (b *UBLBuilder) Digest(xmlDoc []byte) (string, error) {
	canonical, err := canonicalize(xmlDoc)
	if err != nil {
		return "", fmt.Errorf("xml: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

// canonicalize aplica C14N; la declaración XML no forma parte de la forma canónica.
func canonicalize(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("<?xml")) {
		if end := bytes.Index(data, []byte("?>")); end >= 0 {
			data = data[end+2:]
		}
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func (b *UBLBuilder) writeCustomer(root *etree.Element, customer *entity.Customer) {
	party := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	id := party.CreateElement("cac:PartyIdentification")
	cbc(id, "ID", customer.ID)
	cbc(party.CreateElement("cac:PartyName"), "Name", customer.Name)

	if customer.Address != "" {
		addr := party.CreateElement("cac:PostalAddress").CreateElement("cac:AddressLine")
		cbc(addr, "Line", customer.Address)
	}
	if customer.PANNumber != "" || customer.VATNumber != "" {
		scheme := party.CreateElement("cac:PartyTaxScheme")
		if customer.VATNumber != "" {
			cbc(scheme, "CompanyID", customer.VATNumber).CreateAttr("schemeName", "VAT")
		} else {
			cbc(scheme, "CompanyID", customer.PANNumber).CreateAttr("schemeName", "PAN")
		}
	}
	if customer.Email != "" || customer.Phone != "" {
		contact := party.CreateElement("cac:Contact")
		if customer.Phone != "" {
			cbc(contact, "Telephone", customer.Phone)
		}
		if customer.Email != "" {
			cbc(contact, "ElectronicMail", customer.Email)
		}
	}
}

func (b *UBLBuilder) writeLine(root *etree.Element, n int, it repository.InvoiceLine) {
	line := root.CreateElement("cac:InvoiceLine")
	cbc(line, "ID", strconv.Itoa(n))
	cbc(line, "InvoicedQuantity", strconv.Itoa(it.Quantity)).CreateAttr("unitCode", "EA")
	b.amount(line, "LineExtensionAmount", it.Total)

	if it.Discount.IsPositive() {
		allowance := line.CreateElement("cac:AllowanceCharge")
		cbc(allowance, "ChargeIndicator", "false")
		b.amount(allowance, "Amount", it.Discount)
	}

	item := line.CreateElement("cac:Item")
	cbc(item, "Description", it.ProductName)
	cbc(item.CreateElement("cac:SellersItemIdentification"), "ID", it.ProductSKU)
	if it.CategoryName != "" {
		cbc(item.CreateElement("cac:CommodityClassification"), "ItemClassificationCode", it.CategoryName)
	}

	b.amount(line.CreateElement("cac:Price"), "PriceAmount", it.UnitPrice)
}

func cbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

func (b *UBLBuilder) amount(parent *etree.Element, local string, d decimal.Decimal) {
	cbc(parent, local, d.Round(2).StringFixed(2)).CreateAttr("currencyID", b.currency)
}
