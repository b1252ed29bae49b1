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

type AcademicSessionController struct{}

type AcademicSessionRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAcademicSessions returns all academic sessions
func (asc *AcademicSessionController) GetAcademicSessions(c *fiber.Ctx) error {
	var sessions []models.AcademicSession

	query := database.DB.Model(&models.AcademicSession{})
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	if err := query.Order("name DESC").Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch academic sessions",
		})
	}

	return c.JSON(fiber.Map{
		"academic_sessions": sessions,
	})
}

// CreateAcademicSession creates a new academic session
func (asc *AcademicSessionController) CreateAcademicSession(c *fiber.Ctx) error {
	var req AcademicSessionRequest
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

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid start_date, expected YYYY-MM-DD",
		})
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid end_date, expected YYYY-MM-DD",
		})
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "end_date must not be before start_date",
		})
	}

	var existing models.AcademicSession
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Academic session already exists",
		})
	}

	session := models.AcademicSession{
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		IsActive:  true,
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create academic session",
		})
	}

	middleware.LogActivity(c, "CREATE", "academic_sessions", session.ID, session)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":          "Academic session created successfully",
		"academic_session": session,
	})
}

// UpdateAcademicSession updates an academic session
func (asc *AcademicSessionController) UpdateAcademicSession(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.AcademicSession
	if err := database.DB.First(&session, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Academic session not found",
		})
	}

	var req struct {
		Name      *string `json:"name"`
		StartDate *string `json:"start_date"`
		EndDate   *string `json:"end_date"`
		IsActive  *bool   `json:"is_active"`
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
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid start_date, expected YYYY-MM-DD",
			})
		}
		updates["start_date"] = d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid end_date, expected YYYY-MM-DD",
			})
		}
		updates["end_date"] = d
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	if err := database.DB.Model(&session).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update academic session",
		})
	}

	middleware.LogActivity(c, "UPDATE", "academic_sessions", session.ID, updates)

	return c.JSON(fiber.Map{
		"message":          "Academic session updated successfully",
		"academic_session": session,
	})
}

// DeleteAcademicSession soft-deletes a session unless students reference it
func (asc *AcademicSessionController) DeleteAcademicSession(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.AcademicSession
	if err := database.DB.First(&session, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Academic session not found",
		})
	}

	var studentCount int64
	database.DB.Model(&models.Student{}).Where("academic_session_id = ?", session.ID).Count(&studentCount)
	if studentCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete academic session with enrolled students",
		})
	}

	if err := database.DB.Delete(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete academic session",
		})
	}

	middleware.LogActivity(c, "DELETE", "academic_sessions", session.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Academic session deleted successfully",
	})
}
