package controllers

import (
	"strconv"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type UniversityController struct{}

type UniversityRequest struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required"`
	Country string `json:"country"`
	City    string `json:"city"`
	Website string `json:"website"`
}

// GetUniversities returns all universities with pagination
func (uc *UniversityController) GetUniversities(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var universities []models.University
	var total int64

	query := database.DB.Model(&models.University{})

	if country := c.Query("country"); country != "" {
		query = query.Where("country = ?", country)
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	query.Count(&total)

	if err := query.Offset(offset).Limit(limit).Order("name ASC").Find(&universities).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch universities",
		})
	}

	return c.JSON(fiber.Map{
		"universities": universities,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUniversity returns one university with its courses and hostels
func (uc *UniversityController) GetUniversity(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid university ID",
		})
	}

	var university models.University
	if err := database.DB.Preload("Courses").Preload("Hostels").
		First(&university, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "University not found",
		})
	}

	return c.JSON(fiber.Map{
		"university": university,
	})
}

// CreateUniversity creates a new university
func (uc *UniversityController) CreateUniversity(c *fiber.Ctx) error {
	var req UniversityRequest
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

	var existing models.University
	if err := database.DB.Where("name = ? OR code = ?", req.Name, req.Code).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "University with this name or code already exists",
		})
	}

	university := models.University{
		Name:     req.Name,
		Code:     req.Code,
		Country:  req.Country,
		City:     req.City,
		Website:  req.Website,
		IsActive: true,
	}
	if err := database.DB.Create(&university).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create university",
		})
	}

	middleware.LogActivity(c, "CREATE", "universities", university.ID, university)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "University created successfully",
		"university": university,
	})
}

// UpdateUniversity updates an existing university
func (uc *UniversityController) UpdateUniversity(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid university ID",
		})
	}

	var university models.University
	if err := database.DB.First(&university, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "University not found",
		})
	}

	var updateData models.University
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := database.DB.Model(&university).Updates(map[string]interface{}{
		"name":      firstNonEmpty(updateData.Name, university.Name),
		"code":      firstNonEmpty(updateData.Code, university.Code),
		"country":   firstNonEmpty(updateData.Country, university.Country),
		"city":      firstNonEmpty(updateData.City, university.City),
		"website":   firstNonEmpty(updateData.Website, university.Website),
		"is_active": updateData.IsActive,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update university",
		})
	}

	middleware.LogActivity(c, "UPDATE", "universities", university.ID, updateData)

	return c.JSON(fiber.Map{
		"message":    "University updated successfully",
		"university": university,
	})
}

// DeleteUniversity soft-deletes a university. Blocked while students still
// reference it so historical reports keep resolving names.
func (uc *UniversityController) DeleteUniversity(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid university ID",
		})
	}

	var university models.University
	if err := database.DB.First(&university, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "University not found",
		})
	}

	var studentCount int64
	database.DB.Model(&models.Student{}).Where("university_id = ?", university.ID).Count(&studentCount)
	if studentCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete university with enrolled students",
		})
	}

	if err := database.DB.Delete(&university).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete university",
		})
	}

	middleware.LogActivity(c, "DELETE", "universities", university.ID, nil)

	return c.JSON(fiber.Map{
		"message": "University deleted successfully",
	})
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
