package controllers

import (
	"strconv"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type FeeTypeController struct{}

type FeeTypeRequest struct {
	Name      string  `json:"name" validate:"required"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Frequency string  `json:"frequency" validate:"required,oneof=one_time monthly yearly"`
}

// GetFeeTypes returns the fee catalog
func (fc *FeeTypeController) GetFeeTypes(c *fiber.Ctx) error {
	var feeTypes []models.FeeType

	query := database.DB.Model(&models.FeeType{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	if err := query.Order("name ASC").Find(&feeTypes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch fee types",
		})
	}

	return c.JSON(fiber.Map{
		"fee_types": feeTypes,
	})
}

// CreateFeeType adds a named charge to the catalog
func (fc *FeeTypeController) CreateFeeType(c *fiber.Ctx) error {
	var req FeeTypeRequest
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

	var existing models.FeeType
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Fee type already exists",
		})
	}

	feeType := models.FeeType{
		Name:      req.Name,
		Category:  req.Category,
		Amount:    req.Amount,
		Frequency: req.Frequency,
		IsActive:  true,
	}
	if err := database.DB.Create(&feeType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create fee type",
		})
	}

	middleware.LogActivity(c, "CREATE", "fee_types", feeType.ID, feeType)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Fee type created successfully",
		"fee_type": feeType,
	})
}

// UpdateFeeType updates a catalog entry. Changing the amount only affects
// structures built afterwards; existing ledger rows keep their amount_due.
func (fc *FeeTypeController) UpdateFeeType(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee type ID",
		})
	}

	var feeType models.FeeType
	if err := database.DB.First(&feeType, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee type not found",
		})
	}

	var req struct {
		Name      *string  `json:"name"`
		Category  *string  `json:"category"`
		Amount    *float64 `json:"amount"`
		Frequency *string  `json:"frequency"`
		IsActive  *bool    `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Amount must not be negative",
			})
		}
		updates["amount"] = *req.Amount
	}
	if req.Frequency != nil {
		if !utils.IsValidFrequency(*req.Frequency) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid frequency",
			})
		}
		updates["frequency"] = *req.Frequency
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	if err := database.DB.Model(&feeType).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update fee type",
		})
	}

	middleware.LogActivity(c, "UPDATE", "fee_types", feeType.ID, updates)

	return c.JSON(fiber.Map{
		"message":  "Fee type updated successfully",
		"fee_type": feeType,
	})
}

// DeleteFeeType removes a catalog entry. Blocked while any structure
// component references it, otherwise materialized ledger rows would point at
// a dangling fee type.
func (fc *FeeTypeController) DeleteFeeType(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee type ID",
		})
	}

	var feeType models.FeeType
	if err := database.DB.First(&feeType, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee type not found",
		})
	}

	var referenceCount int64
	database.DB.Model(&models.FeeStructureComponent{}).
		Where("fee_type_id = ?", feeType.ID).Count(&referenceCount)
	if referenceCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete fee type referenced by fee structures",
		})
	}

	if err := database.DB.Delete(&feeType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete fee type",
		})
	}

	middleware.LogActivity(c, "DELETE", "fee_types", feeType.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Fee type deleted successfully",
	})
}
