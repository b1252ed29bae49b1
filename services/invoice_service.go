package services

import (
	"fmt"
	"time"

	"eduglobal_go/config"
	"eduglobal_go/database"
	"eduglobal_go/models"

	"gorm.io/gorm"
)

func invoicePrefix() string {
	if config.AppConfig != nil && config.AppConfig.InvoicePrefix != "" {
		return config.AppConfig.InvoicePrefix
	}
	return "INV"
}

// InvoiceService computes invoice totals and persists immutable snapshots.
// Invoices are deliberately independent of the fee ledger.
type InvoiceService struct {
	db *gorm.DB
}

func NewInvoiceService() *InvoiceService {
	return &InvoiceService{db: database.DB}
}

// InvoiceItemInput is one ad hoc line item supplied at generation time.
type InvoiceItemInput struct {
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gte=1"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// InvoiceTotals is the computed arithmetic of an invoice.
type InvoiceTotals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	AfterDiscount  float64 `json:"after_discount"`
	GSTAmount      float64 `json:"gst_amount"`
	Total          float64 `json:"total"`
}

// ComputeInvoiceTotals is deterministic: the same inputs always produce the
// same totals. The discounted subtotal is clamped at zero before GST.
func ComputeInvoiceTotals(items []InvoiceItemInput, discountType string, discountValue float64, applyGST bool, gstPercentage float64) InvoiceTotals {
	var totals InvoiceTotals
	for _, item := range items {
		totals.Subtotal += item.UnitPrice * float64(item.Quantity)
	}

	if discountType == models.DiscountTypePercentage {
		totals.DiscountAmount = totals.Subtotal * discountValue / 100
	} else {
		totals.DiscountAmount = discountValue
	}

	totals.AfterDiscount = totals.Subtotal - totals.DiscountAmount
	if totals.AfterDiscount < 0 {
		totals.AfterDiscount = 0
	}

	if applyGST {
		totals.GSTAmount = totals.AfterDiscount * gstPercentage / 100
	}
	totals.Total = totals.AfterDiscount + totals.GSTAmount
	return totals
}

// FormatInvoiceNumber derives the candidate number from the millisecond
// clock: the prefix plus the last six digits of epoch millis.
func FormatInvoiceNumber(prefix string, at time.Time) string {
	millis := at.UnixMilli()
	return fmt.Sprintf("%s-%06d", prefix, millis%1000000)
}

// NextInvoiceNumber returns a number that does not collide with an existing
// invoice. Two generations inside the same millisecond window would
// otherwise produce duplicates, so taken candidates are skipped by stepping
// the clock forward.
func (s *InvoiceService) NextInvoiceNumber(prefix string) (string, error) {
	at := time.Now()
	for attempt := 0; attempt < 1000; attempt++ {
		candidate := FormatInvoiceNumber(prefix, at)
		var count int64
		if err := s.db.Model(&models.Invoice{}).
			Where("invoice_number = ?", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		at = at.Add(time.Millisecond)
	}
	return "", fmt.Errorf("could not allocate a unique invoice number")
}

// GenerateInvoice computes totals from the inputs and persists the invoice
// with its items as a single snapshot. Totals are never recalculated after
// this point.
func (s *InvoiceService) GenerateInvoice(studentID uint, items []InvoiceItemInput,
	discountType string, discountValue float64, applyGST bool, gstPercentage float64,
	terms string) (*models.Invoice, error) {

	if len(items) == 0 {
		return nil, fmt.Errorf("invoice must have at least one item")
	}

	var student models.Student
	if err := s.db.First(&student, studentID).Error; err != nil {
		return nil, fmt.Errorf("student not found: %w", err)
	}

	totals := ComputeInvoiceTotals(items, discountType, discountValue, applyGST, gstPercentage)

	number, err := s.NextInvoiceNumber(invoicePrefix())
	if err != nil {
		return nil, err
	}

	invoice := models.Invoice{
		InvoiceNumber:  number,
		StudentID:      studentID,
		Status:         "unpaid",
		Subtotal:       totals.Subtotal,
		DiscountType:   discountType,
		DiscountValue:  discountValue,
		DiscountAmount: totals.DiscountAmount,
		GSTApplied:     applyGST,
		GSTPercentage:  gstPercentage,
		GSTAmount:      totals.GSTAmount,
		TotalAmount:    totals.Total,
		Terms:          terms,
		IssuedAt:       time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		for _, item := range items {
			row := models.InvoiceItem{
				InvoiceID:   invoice.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Amount:      item.UnitPrice * float64(item.Quantity),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Items").Preload("Student").First(&invoice, invoice.ID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}
