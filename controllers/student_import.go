package controllers

import (
	"fmt"
	"strings"
	"time"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ImportStudents bulk-admits students from an uploaded XLSX sheet. Expected
// columns, in order: First Name, Last Name, Email, Phone, Batch,
// University Code, Agent Email. The first row is treated as a header.
// Rows are processed independently; failures are reported per row number.
func (sc *StudentController) ImportStudents(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file upload",
		})
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only .xlsx files are supported",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open uploaded file",
		})
	}
	defer src.Close()

	workbook, err := excelize.OpenReader(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse XLSX file",
		})
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Workbook has no sheets",
		})
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read sheet rows",
		})
	}
	if len(rows) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Sheet has no data rows",
		})
	}

	// Resolve reference data once up front
	universityByCode := map[string]uint{}
	var universities []models.University
	database.DB.Find(&universities)
	for _, u := range universities {
		universityByCode[strings.ToUpper(u.Code)] = u.ID
	}

	agentByEmail := map[string]uint{}
	var agents []models.Agent
	database.DB.Find(&agents)
	for _, a := range agents {
		if a.Email != "" {
			agentByEmail[strings.ToLower(a.Email)] = a.ID
		}
	}

	now := time.Now()
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	var admittedThisYear int64
	database.DB.Model(&models.Student{}).Unscoped().
		Where("created_at >= ?", yearStart).Count(&admittedThisYear)

	cell := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	created := 0
	errors := map[string]string{}

	for i, row := range rows[1:] {
		rowNum := i + 2 // sheet row number, header included
		firstName := cell(row, 0)
		if firstName == "" {
			errors[fmt.Sprintf("row %d", rowNum)] = "first name is required"
			continue
		}

		student := models.Student{
			FirstName: firstName,
			LastName:  cell(row, 1),
			Email:     cell(row, 2),
			Phone:     cell(row, 3),
			Batch:     cell(row, 4),
			Status:    "active",
		}

		if code := cell(row, 5); code != "" {
			universityID, ok := universityByCode[strings.ToUpper(code)]
			if !ok {
				errors[fmt.Sprintf("row %d", rowNum)] = fmt.Sprintf("unknown university code %q", code)
				continue
			}
			student.UniversityID = universityID
		}
		if email := cell(row, 6); email != "" {
			agentID, ok := agentByEmail[strings.ToLower(email)]
			if !ok {
				errors[fmt.Sprintf("row %d", rowNum)] = fmt.Sprintf("unknown agent email %q", email)
				continue
			}
			student.AgentID = agentID
		}

		admittedThisYear++
		student.AdmissionNumber = utils.GenerateAdmissionNumber(now.Year(), admittedThisYear)

		if err := database.DB.Create(&student).Error; err != nil {
			admittedThisYear--
			errors[fmt.Sprintf("row %d", rowNum)] = "failed to save student"
			continue
		}
		created++
	}

	middleware.LogActivity(c, "IMPORT", "students", 0, fiber.Map{
		"created": created,
		"failed":  len(errors),
	})

	return c.JSON(fiber.Map{
		"message": "Import processed",
		"created": created,
		"errors":  errors,
	})
}
