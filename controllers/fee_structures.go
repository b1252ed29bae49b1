package controllers

import (
	"strconv"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FeeStructureController struct{}

type FeeStructureComponentRequest struct {
	FeeTypeID uint    `json:"fee_type_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Frequency string  `json:"frequency" validate:"required,oneof=one_time monthly yearly"`
}

type FeeStructureRequest struct {
	Name         string                         `json:"name" validate:"required"`
	UniversityID uint                           `json:"university_id" validate:"required"`
	CourseID     uint                           `json:"course_id" validate:"required"`
	Components   []FeeStructureComponentRequest `json:"components" validate:"required,min=1,dive"`
}

// GetFeeStructures returns all fee structures with their components
func (fc *FeeStructureController) GetFeeStructures(c *fiber.Ctx) error {
	var structures []models.FeeStructure

	query := database.DB.Model(&models.FeeStructure{}).
		Preload("University").Preload("Course").Preload("Components.FeeType")

	if universityID := c.Query("university_id"); universityID != "" {
		query = query.Where("university_id = ?", universityID)
	}
	if courseID := c.Query("course_id"); courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	if err := query.Order("name ASC").Find(&structures).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch fee structures",
		})
	}

	return c.JSON(fiber.Map{
		"fee_structures": structures,
	})
}

// GetFeeStructure returns one fee structure by ID
func (fc *FeeStructureController) GetFeeStructure(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee structure ID",
		})
	}

	var structure models.FeeStructure
	if err := database.DB.
		Preload("University").Preload("Course").Preload("Components.FeeType").
		First(&structure, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee structure not found",
		})
	}

	return c.JSON(fiber.Map{
		"fee_structure": structure,
	})
}

// CreateFeeStructure creates a structure with its components in one
// transaction. Component amounts override the catalog defaults.
func (fc *FeeStructureController) CreateFeeStructure(c *fiber.Ctx) error {
	var req FeeStructureRequest
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

	var course models.Course
	if err := database.DB.First(&course, req.CourseID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Course not found",
		})
	}
	if course.UniversityID != req.UniversityID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Course does not belong to the given university",
		})
	}

	// All referenced fee types must exist and be active
	feeTypeIDs := make([]uint, 0, len(req.Components))
	for _, comp := range req.Components {
		feeTypeIDs = append(feeTypeIDs, comp.FeeTypeID)
	}
	var feeTypeCount int64
	database.DB.Model(&models.FeeType{}).
		Where("id IN ? AND is_active = ?", feeTypeIDs, true).Count(&feeTypeCount)
	if feeTypeCount != int64(len(feeTypeIDs)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "One or more fee types are unknown or inactive",
		})
	}

	structure := models.FeeStructure{
		Name:         req.Name,
		UniversityID: req.UniversityID,
		CourseID:     req.CourseID,
		IsActive:     true,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&structure).Error; err != nil {
			return err
		}
		for _, comp := range req.Components {
			component := models.FeeStructureComponent{
				FeeStructureID: structure.ID,
				FeeTypeID:      comp.FeeTypeID,
				Amount:         comp.Amount,
				Frequency:      comp.Frequency,
			}
			if err := tx.Create(&component).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create fee structure",
		})
	}

	database.DB.Preload("Components.FeeType").First(&structure, structure.ID)

	middleware.LogActivity(c, "CREATE", "fee_structures", structure.ID, fiber.Map{
		"name":       structure.Name,
		"components": len(req.Components),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Fee structure created successfully",
		"fee_structure": structure,
	})
}

// UpdateFeeStructure updates the structure's name or active flag. Component
// changes go through dedicated endpoints so materialized ledger rows are
// never silently rewritten.
func (fc *FeeStructureController) UpdateFeeStructure(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee structure ID",
		})
	}

	var structure models.FeeStructure
	if err := database.DB.First(&structure, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee structure not found",
		})
	}

	var req struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"is_active"`
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
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	if err := database.DB.Model(&structure).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update fee structure",
		})
	}

	middleware.LogActivity(c, "UPDATE", "fee_structures", structure.ID, updates)

	return c.JSON(fiber.Map{
		"message":       "Fee structure updated successfully",
		"fee_structure": structure,
	})
}

// AddComponent appends a component to a structure. Existing assignments are
// not retroactively extended; reassign the structure to materialize the new
// component for already-covered students.
func (fc *FeeStructureController) AddComponent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee structure ID",
		})
	}

	var structure models.FeeStructure
	if err := database.DB.First(&structure, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee structure not found",
		})
	}

	var req FeeStructureComponentRequest
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

	var feeType models.FeeType
	if err := database.DB.Where("id = ? AND is_active = ?", req.FeeTypeID, true).First(&feeType).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Fee type unknown or inactive",
		})
	}

	component := models.FeeStructureComponent{
		FeeStructureID: structure.ID,
		FeeTypeID:      req.FeeTypeID,
		Amount:         req.Amount,
		Frequency:      req.Frequency,
	}
	if err := database.DB.Create(&component).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add component",
		})
	}

	database.DB.Preload("FeeType").First(&component, component.ID)

	middleware.LogActivity(c, "CREATE", "fee_structure_components", component.ID, component)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Component added successfully",
		"component": component,
	})
}

// RemoveComponent deletes a component from a structure. Blocked once ledger
// rows reference it, since those rows are the billing history.
func (fc *FeeStructureController) RemoveComponent(c *fiber.Ctx) error {
	componentID, err := strconv.ParseUint(c.Params("componentId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid component ID",
		})
	}

	var component models.FeeStructureComponent
	if err := database.DB.First(&component, uint(componentID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Component not found",
		})
	}

	var ledgerRows int64
	database.DB.Model(&models.FeePayment{}).
		Where("fee_structure_component_id = ?", component.ID).Count(&ledgerRows)
	if ledgerRows > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot remove component with existing ledger rows",
		})
	}

	if err := database.DB.Delete(&component).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove component",
		})
	}

	middleware.LogActivity(c, "DELETE", "fee_structure_components", component.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Component removed successfully",
	})
}
