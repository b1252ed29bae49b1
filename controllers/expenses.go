package controllers

import (
	"strconv"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type ExpenseController struct{}

type ExpenseRequest struct {
	HostelID    uint    `json:"hostel_id"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" validate:"required,gte=0"`
	ExpenseDate string  `json:"expense_date"`
	Status      string  `json:"status" validate:"omitempty,oneof=paid pending"`
}

// GetHostelExpenses lists hostel expenses, optionally for one hostel
func (ec *ExpenseController) GetHostelExpenses(c *fiber.Ctx) error {
	var expenses []models.HostelExpense

	query := database.DB.Model(&models.HostelExpense{}).Preload("Hostel")
	if hostelID := c.Query("hostel_id"); hostelID != "" {
		query = query.Where("hostel_id = ?", hostelID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("expense_date DESC").Find(&expenses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch hostel expenses",
		})
	}

	return c.JSON(fiber.Map{
		"expenses": expenses,
	})
}

// CreateHostelExpense records an expense against a hostel
func (ec *ExpenseController) CreateHostelExpense(c *fiber.Ctx) error {
	var req ExpenseRequest
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
	if req.HostelID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "hostel_id is required",
		})
	}

	var hostel models.Hostel
	if err := database.DB.First(&hostel, req.HostelID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Hostel not found",
		})
	}

	expenseDate, err := parseDate(req.ExpenseDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid expense_date, expected YYYY-MM-DD",
		})
	}

	status := req.Status
	if status == "" {
		status = models.ExpenseStatusPending
	}

	expense := models.HostelExpense{
		HostelID:    req.HostelID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		ExpenseDate: expenseDate,
		Status:      status,
	}
	if err := database.DB.Create(&expense).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record expense",
		})
	}

	middleware.LogActivity(c, "CREATE", "hostel_expenses", expense.ID, expense)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Hostel expense recorded successfully",
		"expense": expense,
	})
}

// UpdateHostelExpense updates an expense record
func (ec *ExpenseController) UpdateHostelExpense(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid expense ID",
		})
	}

	var expense models.HostelExpense
	if err := database.DB.First(&expense, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Expense not found",
		})
	}

	updates, ok := expenseUpdates(c)
	if !ok {
		return nil
	}

	if err := database.DB.Model(&expense).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update expense",
		})
	}

	middleware.LogActivity(c, "UPDATE", "hostel_expenses", expense.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Expense updated successfully",
		"expense": expense,
	})
}

// DeleteHostelExpense removes an expense record
func (ec *ExpenseController) DeleteHostelExpense(c *fiber.Ctx) error {
	return deleteExpense[models.HostelExpense](c, "hostel_expenses")
}

// GetOfficeExpenses lists office expenses
func (ec *ExpenseController) GetOfficeExpenses(c *fiber.Ctx) error {
	var expenses []models.OfficeExpense

	query := database.DB.Model(&models.OfficeExpense{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("expense_date DESC").Find(&expenses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch office expenses",
		})
	}

	return c.JSON(fiber.Map{
		"expenses": expenses,
	})
}

// CreateOfficeExpense records an office expense
func (ec *ExpenseController) CreateOfficeExpense(c *fiber.Ctx) error {
	var req ExpenseRequest
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

	expenseDate, err := parseDate(req.ExpenseDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid expense_date, expected YYYY-MM-DD",
		})
	}

	status := req.Status
	if status == "" {
		status = models.ExpenseStatusPending
	}

	expense := models.OfficeExpense{
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		ExpenseDate: expenseDate,
		Status:      status,
	}
	if err := database.DB.Create(&expense).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record expense",
		})
	}

	middleware.LogActivity(c, "CREATE", "office_expenses", expense.ID, expense)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Office expense recorded successfully",
		"expense": expense,
	})
}

// UpdateOfficeExpense updates an office expense record
func (ec *ExpenseController) UpdateOfficeExpense(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid expense ID",
		})
	}

	var expense models.OfficeExpense
	if err := database.DB.First(&expense, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Expense not found",
		})
	}

	updates, ok := expenseUpdates(c)
	if !ok {
		return nil
	}

	if err := database.DB.Model(&expense).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update expense",
		})
	}

	middleware.LogActivity(c, "UPDATE", "office_expenses", expense.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Expense updated successfully",
		"expense": expense,
	})
}

// DeleteOfficeExpense removes an office expense record
func (ec *ExpenseController) DeleteOfficeExpense(c *fiber.Ctx) error {
	return deleteExpense[models.OfficeExpense](c, "office_expenses")
}

// GetPersonalExpenses lists personal expenses (owner only)
func (ec *ExpenseController) GetPersonalExpenses(c *fiber.Ctx) error {
	var expenses []models.PersonalExpense

	query := database.DB.Model(&models.PersonalExpense{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("expense_date DESC").Find(&expenses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch personal expenses",
		})
	}

	return c.JSON(fiber.Map{
		"expenses": expenses,
	})
}

// CreatePersonalExpense records a personal expense
func (ec *ExpenseController) CreatePersonalExpense(c *fiber.Ctx) error {
	var req ExpenseRequest
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

	expenseDate, err := parseDate(req.ExpenseDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid expense_date, expected YYYY-MM-DD",
		})
	}

	status := req.Status
	if status == "" {
		status = models.ExpenseStatusPending
	}

	expense := models.PersonalExpense{
		Description: req.Description,
		Amount:      req.Amount,
		ExpenseDate: expenseDate,
		Status:      status,
	}
	if err := database.DB.Create(&expense).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record expense",
		})
	}

	middleware.LogActivity(c, "CREATE", "personal_expenses", expense.ID, expense)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Personal expense recorded successfully",
		"expense": expense,
	})
}

// DeletePersonalExpense removes a personal expense record
func (ec *ExpenseController) DeletePersonalExpense(c *fiber.Ctx) error {
	return deleteExpense[models.PersonalExpense](c, "personal_expenses")
}

// expenseUpdates parses the shared partial-update body for expense records.
// On a bad request it writes the error response itself and returns ok=false.
func expenseUpdates(c *fiber.Ctx) (map[string]interface{}, bool) {
	var req struct {
		Category    *string  `json:"category"`
		Description *string  `json:"description"`
		Amount      *float64 `json:"amount"`
		ExpenseDate *string  `json:"expense_date"`
		Status      *string  `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
		return nil, false
	}

	updates := map[string]interface{}{}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Amount must not be negative",
			})
			return nil, false
		}
		updates["amount"] = *req.Amount
	}
	if req.ExpenseDate != nil {
		d, err := parseDate(*req.ExpenseDate)
		if err != nil {
			c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid expense_date, expected YYYY-MM-DD",
			})
			return nil, false
		}
		updates["expense_date"] = d
	}
	if req.Status != nil {
		if *req.Status != models.ExpenseStatusPaid && *req.Status != models.ExpenseStatusPending {
			c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Status must be paid or pending",
			})
			return nil, false
		}
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
		return nil, false
	}
	return updates, true
}

func deleteExpense[T any](c *fiber.Ctx, resource string) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid expense ID",
		})
	}

	var expense T
	if err := database.DB.First(&expense, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Expense not found",
		})
	}

	if err := database.DB.Delete(&expense).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete expense",
		})
	}

	middleware.LogActivity(c, "DELETE", resource, uint(id), nil)

	return c.JSON(fiber.Map{
		"message": "Expense deleted successfully",
	})
}
