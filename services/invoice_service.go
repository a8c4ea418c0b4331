package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go-bookstore/models"
	"go-bookstore/store"

	"github.com/go-pdf/fpdf"
)

const invoiceURLExpiry = 7 * 24 * time.Hour

// InvoiceService renders a PDF summary of an order, stores it and publishes
// a long-lived signed URL on the order row.
type InvoiceService struct {
	orders  store.OrderRepository
	storage FileStorage
}

func NewInvoiceService(orders store.OrderRepository, storage FileStorage) *InvoiceService {
	return &InvoiceService{
		orders:  orders,
		storage: storage,
	}
}

// Generate renders the invoice for an order, uploads it (overwriting any
// prior invoice for that order) and persists the signed URL. An unknown
// order fails before anything is uploaded, and orders owned by someone else
// read as not found unless the caller is an admin.
func (s *InvoiceService) Generate(ctx context.Context, orderID, customerID string, isAdmin bool) (string, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if !isAdmin && order.CustomerID != customerID {
		return "", store.ErrOrderNotFound
	}

	data, err := renderInvoice(order)
	if err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}

	objectPath := invoiceObjectPath(orderID)
	if err := s.storage.Upload(ctx, objectPath, data, "application/pdf"); err != nil {
		return "", fmt.Errorf("failed to upload invoice: %w", err)
	}

	url, err := s.storage.PresignedGet(ctx, objectPath, invoiceURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign invoice url: %w", err)
	}

	if err := s.orders.SetInvoiceURL(ctx, orderID, url); err != nil {
		return "", err
	}

	return url, nil
}

func invoiceObjectPath(orderID string) string {
	return fmt.Sprintf("invoices/%s.pdf", orderID)
}

// InvoiceNumber derives a stable human-readable invoice number from the
// order id.
func InvoiceNumber(orderID string) string {
	compact := strings.ToUpper(strings.ReplaceAll(orderID, "-", ""))
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return "INV-" + compact
}

// renderInvoice emits a single-page document: header, invoice number,
// customer email and one aggregate line for the whole order.
func renderInvoice(order *models.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "Invoice")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Invoice number: %s", InvoiceNumber(order.ID)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Billed to: %s", order.CustomerEmail))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(140, 8, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(140, 8, order.Name, "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("$%.2f", order.AmountTotal), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(140, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("$%.2f", order.AmountTotal), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
