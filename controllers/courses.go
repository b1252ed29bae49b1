package controllers

import (
	"strconv"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type CourseController struct{}

type CourseRequest struct {
	Name          string `json:"name" validate:"required"`
	Code          string `json:"code"`
	UniversityID  uint   `json:"university_id" validate:"required"`
	DurationYears int    `json:"duration_years" validate:"gte=0"`
	Description   string `json:"description"`
}

// GetCourses returns all courses, optionally filtered by university
func (cc *CourseController) GetCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var courses []models.Course
	var total int64

	query := database.DB.Model(&models.Course{})

	if universityID := c.Query("university_id"); universityID != "" {
		query = query.Where("university_id = ?", universityID)
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	query.Count(&total)

	if err := query.Preload("University").
		Offset(offset).Limit(limit).Order("name ASC").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch courses",
		})
	}

	return c.JSON(fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetCourse returns one course by ID
func (cc *CourseController) GetCourse(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := database.DB.Preload("University").First(&course, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	return c.JSON(fiber.Map{
		"course": course,
	})
}

// CreateCourse creates a new course under a university
func (cc *CourseController) CreateCourse(c *fiber.Ctx) error {
	var req CourseRequest
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

	var university models.University
	if err := database.DB.First(&university, req.UniversityID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "University not found",
		})
	}

	course := models.Course{
		Name:          req.Name,
		Code:          req.Code,
		UniversityID:  req.UniversityID,
		DurationYears: req.DurationYears,
		Description:   req.Description,
		IsActive:      true,
	}
	if err := database.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create course",
		})
	}

	database.DB.Preload("University").First(&course, course.ID)

	middleware.LogActivity(c, "CREATE", "courses", course.ID, course)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Course created successfully",
		"course":  course,
	})
}

// UpdateCourse updates an existing course
func (cc *CourseController) UpdateCourse(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := database.DB.First(&course, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	var updateData models.Course
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Moving a course between universities would orphan its fee structures
	updateData.UniversityID = course.UniversityID

	if err := database.DB.Model(&course).Updates(map[string]interface{}{
		"name":           firstNonEmpty(updateData.Name, course.Name),
		"code":           firstNonEmpty(updateData.Code, course.Code),
		"duration_years": updateData.DurationYears,
		"description":    firstNonEmpty(updateData.Description, course.Description),
		"is_active":      updateData.IsActive,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update course",
		})
	}

	middleware.LogActivity(c, "UPDATE", "courses", course.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Course updated successfully",
		"course":  course,
	})
}

// DeleteCourse soft-deletes a course unless students are enrolled in it
func (cc *CourseController) DeleteCourse(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := database.DB.First(&course, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	var studentCount int64
	database.DB.Model(&models.Student{}).Where("course_id = ?", course.ID).Count(&studentCount)
	if studentCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete course with enrolled students",
		})
	}

	if err := database.DB.Delete(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete course",
		})
	}

	middleware.LogActivity(c, "DELETE", "courses", course.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Course deleted successfully",
	})
}
