package controllers

import (
	"strconv"
	"time"

	"eduglobal_go/config"
	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/services"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type InvoiceController struct {
	invoices *services.InvoiceService
}

func NewInvoiceController() *InvoiceController {
	return &InvoiceController{invoices: services.NewInvoiceService()}
}

type GenerateInvoiceRequest struct {
	StudentID     uint                        `json:"student_id" validate:"required"`
	Items         []services.InvoiceItemInput `json:"items" validate:"required,min=1,dive"`
	DiscountType  string                      `json:"discount_type" validate:"omitempty,oneof=percentage flat"`
	DiscountValue float64                     `json:"discount_value" validate:"gte=0"`
	ApplyGST      bool                        `json:"apply_gst"`
	GSTPercentage float64                     `json:"gst_percentage" validate:"gte=0"`
	Terms         string                      `json:"terms"`
}

// GetInvoices returns invoices with pagination
func (ic *InvoiceController) GetInvoices(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var invoices []models.Invoice
	var total int64

	query := database.DB.Model(&models.Invoice{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}

	query.Count(&total)

	if err := query.Preload("Student").
		Offset(offset).Limit(limit).Order("issued_at DESC").Find(&invoices).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch invoices",
		})
	}

	return c.JSON(fiber.Map{
		"invoices": invoices,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetInvoice returns one invoice with its items
func (ic *InvoiceController) GetInvoice(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice ID",
		})
	}

	var invoice models.Invoice
	if err := database.DB.Preload("Student").Preload("Items").
		First(&invoice, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found",
		})
	}

	return c.JSON(fiber.Map{
		"invoice": invoice,
	})
}

// GenerateInvoice creates an immutable invoice snapshot from ad hoc line
// items. A missing GST percentage falls back to the configured default.
func (ic *InvoiceController) GenerateInvoice(c *fiber.Ctx) error {
	var req GenerateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if req.DiscountType == "" {
		req.DiscountType = models.DiscountTypeFlat
	}
	if req.ApplyGST && req.GSTPercentage == 0 {
		req.GSTPercentage = config.AppConfig.DefaultGSTPercent
	}

	invoice, err := ic.invoices.GenerateInvoice(
		req.StudentID, req.Items,
		req.DiscountType, req.DiscountValue,
		req.ApplyGST, req.GSTPercentage,
		req.Terms,
	)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	middleware.LogActivity(c, "CREATE", "invoices", invoice.ID, fiber.Map{
		"invoice_number": invoice.InvoiceNumber,
		"total_amount":   invoice.TotalAmount,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Invoice generated successfully",
		"invoice": invoice,
	})
}

// MarkInvoicePaid flips an invoice to paid. Totals stay frozen.
func (ic *InvoiceController) MarkInvoicePaid(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice ID",
		})
	}

	var invoice models.Invoice
	if err := database.DB.First(&invoice, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found",
		})
	}

	if invoice.Status == "paid" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Invoice is already paid",
		})
	}

	now := time.Now()
	if err := database.DB.Model(&invoice).Updates(map[string]interface{}{
		"status":  "paid",
		"paid_at": now,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update invoice",
		})
	}

	middleware.LogActivity(c, "UPDATE", "invoices", invoice.ID, fiber.Map{"status": "paid"})

	return c.JSON(fiber.Map{
		"message": "Invoice marked as paid",
		"invoice": invoice,
	})
}
