package controllers

import (
	"strconv"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
)

type StaffController struct{}

type CreateStaffRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"required,oneof=owner admin accountant counselor"`
	Country  string `json:"country"`
}

// GetStaff returns all staff accounts with pagination
func (sc *StaffController) GetStaff(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var users []models.User
	var total int64

	query := database.DB.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if country := c.Query("country"); country != "" {
		query = query.Where("country = ?", country)
	}

	query.Count(&total)

	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch staff",
		})
	}

	return c.JSON(fiber.Map{
		"staff": users,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStaffMember returns one staff account by ID
func (sc *StaffController) GetStaffMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid staff ID",
		})
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staff member not found",
		})
	}

	return c.JSON(fiber.Map{
		"staff": user,
	})
}

// CreateStaff creates a new staff account with a generated temporary
// password. The account holder must change it at first login.
func (sc *StaffController) CreateStaff(c *fiber.Ctx) error {
	var req CreateStaffRequest
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

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Username already exists",
		})
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate temporary password",
		})
	}
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Username:             req.Username,
		Password:             hashed,
		Email:                req.Email,
		Phone:                req.Phone,
		Role:                 req.Role,
		Country:              req.Country,
		Status:               "active",
		PasswordResetByAdmin: true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create staff account",
		})
	}

	middleware.LogActivity(c, "CREATE", "users", user.ID, fiber.Map{"username": user.Username, "role": user.Role})

	// The temporary password is returned once; it is never stored in clear
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Staff account created successfully",
		"staff":         user,
		"temp_password": tempPassword,
	})
}

// UpdateStaff updates a staff account's profile fields
func (sc *StaffController) UpdateStaff(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid staff ID",
		})
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staff member not found",
		})
	}

	var updateData struct {
		Email   *string `json:"email"`
		Phone   *string `json:"phone"`
		Role    *string `json:"role"`
		Country *string `json:"country"`
		Status  *string `json:"status"`
		Avatar  *string `json:"avatar"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if updateData.Email != nil {
		updates["email"] = *updateData.Email
	}
	if updateData.Phone != nil {
		updates["phone"] = *updateData.Phone
	}
	if updateData.Role != nil {
		if !utils.IsValidRole(*updateData.Role) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid role",
			})
		}
		updates["role"] = *updateData.Role
	}
	if updateData.Country != nil {
		updates["country"] = *updateData.Country
	}
	if updateData.Status != nil {
		updates["status"] = *updateData.Status
	}
	if updateData.Avatar != nil {
		updates["avatar"] = *updateData.Avatar
	}

	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update staff account",
		})
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Staff account updated successfully",
		"staff":   user,
	})
}

// UpdateStaffCountry sets only the country assignment of a staff member
func (sc *StaffController) UpdateStaffCountry(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid staff ID",
		})
	}

	var req struct {
		Country string `json:"country" validate:"required"`
	}
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

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staff member not found",
		})
	}

	if err := database.DB.Model(&user).Update("country", req.Country).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update country",
		})
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, fiber.Map{"country": req.Country})

	return c.JSON(fiber.Map{
		"message": "Country updated successfully",
		"staff":   user,
	})
}

// ResetStaffPassword generates a fresh temporary password for an account
func (sc *StaffController) ResetStaffPassword(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid staff ID",
		})
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staff member not found",
		})
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate temporary password",
		})
	}
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"password":                hashed,
		"password_reset_by_admin": true,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reset password",
		})
	}

	middleware.LogActivity(c, "RESET_PASSWORD", "users", user.ID, nil)

	return c.JSON(fiber.Map{
		"message":       "Password reset successfully",
		"temp_password": tempPassword,
	})
}

// DeactivateStaff marks an account inactive instead of deleting it, so the
// activity history stays attributable.
func (sc *StaffController) DeactivateStaff(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid staff ID",
		})
	}

	current, _ := middleware.GetCurrentUser(c)
	if current != nil && current.ID == uint(id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot deactivate your own account",
		})
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staff member not found",
		})
	}

	if err := database.DB.Model(&user).Update("status", "inactive").Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to deactivate staff account",
		})
	}

	middleware.LogActivity(c, "DEACTIVATE", "users", user.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Staff account deactivated",
	})
}
