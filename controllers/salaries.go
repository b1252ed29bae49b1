package controllers

import (
	"strconv"
	"time"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type SalaryController struct{}

type SalaryRequest struct {
	UserID  uint    `json:"user_id" validate:"required"`
	Month   string  `json:"month" validate:"required"` // YYYY-MM
	Amount  float64 `json:"amount" validate:"required,gte=0"`
	Remarks string  `json:"remarks"`
}

// GetSalaries lists salary records, filterable by staff member and month
func (sc *SalaryController) GetSalaries(c *fiber.Ctx) error {
	var salaries []models.Salary

	query := database.DB.Model(&models.Salary{}).Preload("User")
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if month := c.Query("month"); month != "" {
		query = query.Where("month = ?", month)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("month DESC").Find(&salaries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch salaries",
		})
	}

	return c.JSON(fiber.Map{
		"salaries": salaries,
	})
}

// CreateSalary records a salary entry for one staff member and month
func (sc *SalaryController) CreateSalary(c *fiber.Ctx) error {
	var req SalaryRequest
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

	if _, err := time.Parse("2006-01", req.Month); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month, expected YYYY-MM",
		})
	}

	var user models.User
	if err := database.DB.First(&user, req.UserID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Staff member not found",
		})
	}

	var existing models.Salary
	if err := database.DB.Where("user_id = ? AND month = ?", req.UserID, req.Month).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Salary already recorded for this staff member and month",
		})
	}

	salary := models.Salary{
		UserID:  req.UserID,
		Month:   req.Month,
		Amount:  req.Amount,
		Status:  models.ExpenseStatusPending,
		Remarks: req.Remarks,
	}
	if err := database.DB.Create(&salary).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record salary",
		})
	}

	middleware.LogActivity(c, "CREATE", "salaries", salary.ID, salary)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Salary recorded successfully",
		"salary":  salary,
	})
}

// MarkSalaryPaid marks a salary entry as paid and stamps the payout date.
// Only paid salaries count toward the profit and loss report.
func (sc *SalaryController) MarkSalaryPaid(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid salary ID",
		})
	}

	var salary models.Salary
	if err := database.DB.First(&salary, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Salary record not found",
		})
	}

	if salary.Status == models.ExpenseStatusPaid {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Salary is already marked paid",
		})
	}

	now := time.Now()
	if err := database.DB.Model(&salary).Updates(map[string]interface{}{
		"status":  models.ExpenseStatusPaid,
		"paid_on": now,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update salary",
		})
	}

	middleware.LogActivity(c, "UPDATE", "salaries", salary.ID, fiber.Map{"status": "paid"})

	return c.JSON(fiber.Map{
		"message": "Salary marked as paid",
		"salary":  salary,
	})
}

// DeleteSalary removes a pending salary record. Paid records stay, they are
// part of the expense history.
func (sc *SalaryController) DeleteSalary(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid salary ID",
		})
	}

	var salary models.Salary
	if err := database.DB.First(&salary, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Salary record not found",
		})
	}

	if salary.Status == models.ExpenseStatusPaid {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete a paid salary record",
		})
	}

	if err := database.DB.Delete(&salary).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete salary record",
		})
	}

	middleware.LogActivity(c, "DELETE", "salaries", salary.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Salary record deleted successfully",
	})
}
