package controllers

import (
	"errors"
	"strconv"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/services"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
)

// FeePaymentController exposes the fee ledger: structure assignment, payment
// collection and per-student customization. All mutations go through the
// ledger service so the invariants live in one place.
type FeePaymentController struct {
	ledger *services.FeeLedgerService
}

func NewFeePaymentController() *FeePaymentController {
	return &FeePaymentController{ledger: services.NewFeeLedgerService()}
}

type AssignStructureRequest struct {
	FeeStructureID uint   `json:"fee_structure_id" validate:"required"`
	StudentIDs     []uint `json:"student_ids" validate:"required,min=1"`
	DueDate        string `json:"due_date"`
}

type UpdatePaymentRequest struct {
	AmountPaid float64 `json:"amount_paid" validate:"gte=0"`
}

type CustomizeFeeRequest struct {
	StudentID               uint    `json:"student_id" validate:"required"`
	FeeStructureComponentID uint    `json:"fee_structure_component_id" validate:"required"`
	CustomAmount            float64 `json:"custom_amount" validate:"gte=0"`
	Reason                  string  `json:"reason"`
}

// AssignStructure applies a fee structure to a batch of students
func (fc *FeePaymentController) AssignStructure(c *fiber.Ctx) error {
	var req AssignStructureRequest
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

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid due_date, expected YYYY-MM-DD",
		})
	}

	result, err := fc.ledger.AssignStructure(req.FeeStructureID, req.StudentIDs, dueDate)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyStudentSet),
			errors.Is(err, services.ErrStructureInactive),
			errors.Is(err, services.ErrNoComponents):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, services.ErrAlreadyAssigned):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to assign fee structure",
			})
		}
	}

	middleware.LogActivity(c, "ASSIGN", "fee_structures", req.FeeStructureID, result)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Fee structure assigned successfully",
		"result":  result,
	})
}

// GetStudentLedger returns every ledger row for one student
func (fc *FeePaymentController) GetStudentLedger(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("studentId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(studentID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var payments []models.FeePayment
	if err := database.DB.Preload("Component.FeeType").
		Where("student_id = ?", student.ID).
		Order("due_date ASC").Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch ledger",
		})
	}

	var totalDue, totalPaid float64
	for _, p := range payments {
		totalDue += p.AmountDue
		totalPaid += p.AmountPaid
	}

	return c.JSON(fiber.Map{
		"student":  student,
		"payments": payments,
		"summary": fiber.Map{
			"total_due":     totalDue,
			"total_paid":    totalPaid,
			"total_pending": totalDue - totalPaid,
		},
	})
}

// GetPayments lists ledger rows across students, filterable by status
func (fc *FeePaymentController) GetPayments(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var payments []models.FeePayment
	var total int64

	query := database.DB.Model(&models.FeePayment{})
	if status := c.Query("status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}

	query.Count(&total)

	if err := query.Preload("Student").Preload("Component.FeeType").
		Offset(offset).Limit(limit).Order("due_date ASC").Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}

	return c.JSON(fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// UpdatePayment records a collection against one ledger row. The submitted
// amount is the new cumulative total, not a delta.
func (fc *FeePaymentController) UpdatePayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var req UpdatePaymentRequest
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

	payment, err := fc.ledger.UpdatePayment(uint(id), req.AmountPaid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNegativeAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, services.ErrVersionConflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Payment row not found",
			})
		}
	}

	middleware.LogActivity(c, "COLLECT", "fee_payments", payment.ID, fiber.Map{
		"amount_paid": req.AmountPaid,
		"status":      payment.PaymentStatus,
	})

	return c.JSON(fiber.Map{
		"message": "Payment recorded successfully",
		"payment": payment,
	})
}

// CustomizeFee sets a per-student amount override for one component
func (fc *FeePaymentController) CustomizeFee(c *fiber.Ctx) error {
	var req CustomizeFeeRequest
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

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	customization, err := fc.ledger.ApplyCustomAmount(
		req.StudentID, req.FeeStructureComponentID, req.CustomAmount, req.Reason)
	if err != nil {
		if errors.Is(err, services.ErrNegativeAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to apply customization",
		})
	}

	middleware.LogActivity(c, "CUSTOMIZE", "fee_customizations", customization.ID, customization)

	return c.JSON(fiber.Map{
		"message":       "Fee customization applied successfully",
		"customization": customization,
	})
}

// GetCustomizations lists overrides for one student
func (fc *FeePaymentController) GetCustomizations(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("studentId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var customizations []models.StudentFeeCustomization
	if err := database.DB.Preload("Component.FeeType").
		Where("student_id = ?", uint(studentID)).
		Find(&customizations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch customizations",
		})
	}

	return c.JSON(fiber.Map{
		"customizations": customizations,
	})
}
