package controllers

import (
	"encoding/json"
	"strconv"
	"time"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/storage"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type StudentController struct{}

type StudentRequest struct {
	FirstName         string `json:"first_name" validate:"required"`
	LastName          string `json:"last_name"`
	Email             string `json:"email" validate:"omitempty,email"`
	Phone             string `json:"phone"`
	DateOfBirth       string `json:"date_of_birth"`
	Gender            string `json:"gender"`
	Address           string `json:"address"`
	PassportNumber    string `json:"passport_number"`
	Batch             string `json:"batch"`
	UniversityID      uint   `json:"university_id"`
	CourseID          uint   `json:"course_id"`
	AcademicSessionID uint   `json:"academic_session_id"`
	AgentID           uint   `json:"agent_id"`
	HostelID          uint   `json:"hostel_id"`
	GuardianName      string `json:"guardian_name"`
	GuardianPhone     string `json:"guardian_phone"`
	Notes             string `json:"notes"`
}

// GetStudents returns students with pagination and entity filters
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var students []models.Student
	var total int64

	query := database.DB.Model(&models.Student{})

	if universityID := c.Query("university_id"); universityID != "" {
		query = query.Where("university_id = ?", universityID)
	}
	if courseID := c.Query("course_id"); courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if sessionID := c.Query("academic_session_id"); sessionID != "" {
		query = query.Where("academic_session_id = ?", sessionID)
	}
	if agentID := c.Query("agent_id"); agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	if hostelID := c.Query("hostel_id"); hostelID != "" {
		query = query.Where("hostel_id = ?", hostelID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if batch := c.Query("batch"); batch != "" {
		query = query.Where("batch = ?", batch)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR admission_number LIKE ?", like, like, like)
	}

	query.Count(&total)

	if err := query.Preload("University").Preload("Course").Preload("Agent").
		Offset(offset).Limit(limit).Order("created_at DESC").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStudent returns one student with all relationships and ledger rows
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.
		Preload("University").Preload("Course").Preload("AcademicSession").
		Preload("Agent").Preload("Hostel").
		Preload("FeePayments.Component.FeeType").
		First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	return c.JSON(fiber.Map{
		"student": student,
	})
}

// CreateStudent admits a new student. The admission number is generated from
// the admission year plus a per-year sequence.
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req StudentRequest
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

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date_of_birth, expected YYYY-MM-DD",
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
	if req.AgentID != 0 {
		var agent models.Agent
		if err := database.DB.First(&agent, req.AgentID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Agent not found",
			})
		}
	}

	now := time.Now()
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	var admittedThisYear int64
	database.DB.Model(&models.Student{}).Unscoped().
		Where("created_at >= ?", yearStart).Count(&admittedThisYear)

	student := models.Student{
		AdmissionNumber:   utils.GenerateAdmissionNumber(now.Year(), admittedThisYear+1),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		DateOfBirth:       dob,
		Gender:            req.Gender,
		Address:           req.Address,
		PassportNumber:    req.PassportNumber,
		Batch:             req.Batch,
		UniversityID:      req.UniversityID,
		CourseID:          req.CourseID,
		AcademicSessionID: req.AcademicSessionID,
		AgentID:           req.AgentID,
		HostelID:          req.HostelID,
		Status:            "active",
		GuardianName:      req.GuardianName,
		GuardianPhone:     req.GuardianPhone,
		Notes:             req.Notes,
	}
	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create student",
		})
	}

	database.DB.Preload("University").Preload("Course").Preload("Agent").First(&student, student.ID)

	middleware.LogActivity(c, "CREATE", "students", student.ID, fiber.Map{
		"admission_number": student.AdmissionNumber,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// UpdateStudent updates an existing student profile. The admission number is
// immutable.
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var updateData models.Student
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updateData.AdmissionNumber = student.AdmissionNumber
	updateData.ID = student.ID
	updateData.Documents = student.Documents

	if err := database.DB.Model(&student).Omit("created_at").Updates(&updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student",
		})
	}

	database.DB.Preload("University").Preload("Course").Preload("Agent").First(&student, student.ID)

	middleware.LogActivity(c, "UPDATE", "students", student.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// DeleteStudent soft-deletes a student unless ledger rows exist. Students
// with fee history are marked withdrawn instead.
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var paymentCount int64
	database.DB.Model(&models.FeePayment{}).Where("student_id = ?", student.ID).Count(&paymentCount)
	if paymentCount > 0 {
		if err := database.DB.Model(&student).Update("status", "withdrawn").Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to withdraw student",
			})
		}
		middleware.LogActivity(c, "UPDATE", "students", student.ID, fiber.Map{"status": "withdrawn"})
		return c.JSON(fiber.Map{
			"message": "Student has fee history and was marked withdrawn instead of deleted",
		})
	}

	if err := database.DB.Delete(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete student",
		})
	}

	middleware.LogActivity(c, "DELETE", "students", student.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Student deleted successfully",
	})
}

// UploadDocuments accepts a multipart batch of documents for one student.
// Each file is uploaded independently; failures are collected per file so
// one bad upload does not sink the batch.
func (sc *StudentController) UploadDocuments(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files in request",
		})
	}

	storageService, err := storage.NewStorageService()
	if err != nil {
		logrus.WithError(err).Error("Failed to create storage service")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Document storage is unavailable",
		})
	}

	documents := map[string]string{}
	if !student.Documents.IsNull() {
		if err := json.Unmarshal(student.Documents, &documents); err != nil {
			documents = map[string]string{}
		}
	}

	uploaded := map[string]string{}
	failures := map[string]string{}

	// The form field name is the document type, e.g. "passport"
	for docType, files := range form.File {
		for _, file := range files {
			url, err := storageService.UploadDocument(file, "students", student.ID)
			if err != nil {
				failures[file.Filename] = err.Error()
				continue
			}
			documents[docType] = url
			uploaded[docType] = url
		}
	}

	if len(uploaded) > 0 {
		docsJSON, err := json.Marshal(documents)
		if err == nil {
			if err := database.DB.Model(&student).Update("documents", models.JSON(docsJSON)).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to save document references",
				})
			}
		}
	}

	middleware.LogActivity(c, "UPLOAD", "students", student.ID, fiber.Map{
		"uploaded": len(uploaded),
		"failed":   len(failures),
	})

	status := fiber.StatusOK
	if len(uploaded) == 0 {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"message":  "Document upload processed",
		"uploaded": uploaded,
		"failures": failures,
	})
}

// DeleteDocument removes one document from a student, both from S3 and from
// the stored references.
func (sc *StudentController) DeleteDocument(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}
	docType := c.Params("type")
	if docType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Document type is required",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	documents := map[string]string{}
	if !student.Documents.IsNull() {
		if err := json.Unmarshal(student.Documents, &documents); err != nil {
			documents = map[string]string{}
		}
	}

	url, ok := documents[docType]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	}

	storageService, err := storage.NewStorageService()
	if err == nil {
		if err := storageService.DeleteDocument(url); err != nil {
			logrus.WithError(err).Warn("Failed to delete document from S3")
		}
	}

	delete(documents, docType)
	docsJSON, _ := json.Marshal(documents)
	if err := database.DB.Model(&student).Update("documents", models.JSON(docsJSON)).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update document references",
		})
	}

	middleware.LogActivity(c, "DELETE", "student_documents", student.ID, fiber.Map{"type": docType})

	return c.JSON(fiber.Map{
		"message": "Document deleted successfully",
	})
}
