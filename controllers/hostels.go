package controllers

import (
	"strconv"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type HostelController struct{}

type HostelRequest struct {
	Name         string `json:"name" validate:"required"`
	UniversityID uint   `json:"university_id"`
	Address      string `json:"address"`
	Capacity     int    `json:"capacity" validate:"gte=0"`
}

// GetHostels returns all hostels, optionally filtered by university
func (hc *HostelController) GetHostels(c *fiber.Ctx) error {
	var hostels []models.Hostel

	query := database.DB.Model(&models.Hostel{}).Preload("University")
	if universityID := c.Query("university_id"); universityID != "" {
		query = query.Where("university_id = ?", universityID)
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	if err := query.Order("name ASC").Find(&hostels).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch hostels",
		})
	}

	return c.JSON(fiber.Map{
		"hostels": hostels,
	})
}

// GetHostel returns one hostel with its resident count
func (hc *HostelController) GetHostel(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid hostel ID",
		})
	}

	var hostel models.Hostel
	if err := database.DB.Preload("University").First(&hostel, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Hostel not found",
		})
	}

	var residents int64
	database.DB.Model(&models.Student{}).Where("hostel_id = ?", hostel.ID).Count(&residents)

	return c.JSON(fiber.Map{
		"hostel":    hostel,
		"residents": residents,
	})
}

// CreateHostel creates a new hostel
func (hc *HostelController) CreateHostel(c *fiber.Ctx) error {
	var req HostelRequest
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

	if req.UniversityID != 0 {
		var university models.University
		if err := database.DB.First(&university, req.UniversityID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "University not found",
			})
		}
	}

	hostel := models.Hostel{
		Name:         req.Name,
		UniversityID: req.UniversityID,
		Address:      req.Address,
		Capacity:     req.Capacity,
		IsActive:     true,
	}
	if err := database.DB.Create(&hostel).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create hostel",
		})
	}

	middleware.LogActivity(c, "CREATE", "hostels", hostel.ID, hostel)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Hostel created successfully",
		"hostel":  hostel,
	})
}

// UpdateHostel updates an existing hostel
func (hc *HostelController) UpdateHostel(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid hostel ID",
		})
	}

	var hostel models.Hostel
	if err := database.DB.First(&hostel, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Hostel not found",
		})
	}

	var req struct {
		Name     *string `json:"name"`
		Address  *string `json:"address"`
		Capacity *int    `json:"capacity"`
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
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	if err := database.DB.Model(&hostel).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update hostel",
		})
	}

	middleware.LogActivity(c, "UPDATE", "hostels", hostel.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Hostel updated successfully",
		"hostel":  hostel,
	})
}

// DeleteHostel soft-deletes a hostel unless students live there or expenses
// reference it.
func (hc *HostelController) DeleteHostel(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid hostel ID",
		})
	}

	var hostel models.Hostel
	if err := database.DB.First(&hostel, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Hostel not found",
		})
	}

	var residents int64
	database.DB.Model(&models.Student{}).Where("hostel_id = ?", hostel.ID).Count(&residents)
	if residents > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete hostel with resident students",
		})
	}

	var expenseCount int64
	database.DB.Model(&models.HostelExpense{}).Where("hostel_id = ?", hostel.ID).Count(&expenseCount)
	if expenseCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete hostel with recorded expenses",
		})
	}

	if err := database.DB.Delete(&hostel).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete hostel",
		})
	}

	middleware.LogActivity(c, "DELETE", "hostels", hostel.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Hostel deleted successfully",
	})
}
