package controllers

import (
	"strconv"
	"time"

	"eduglobal_go/database"
	"eduglobal_go/middleware"
	"eduglobal_go/models"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AgentController struct{}

type AgentRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Phone          string  `json:"phone"`
	Country        string  `json:"country"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=100"`
}

// GetAgents returns all agents with pagination
func (ac *AgentController) GetAgents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var agents []models.Agent
	var total int64

	query := database.DB.Model(&models.Agent{})

	if country := c.Query("country"); country != "" {
		query = query.Where("country = ?", country)
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	query.Count(&total)

	if err := query.Offset(offset).Limit(limit).Order("name ASC").Find(&agents).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch agents",
		})
	}

	return c.JSON(fiber.Map{
		"agents": agents,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetAgent returns one agent with their referred students
func (ac *AgentController) GetAgent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid agent ID",
		})
	}

	var agent models.Agent
	if err := database.DB.Preload("Students").First(&agent, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Agent not found",
		})
	}

	return c.JSON(fiber.Map{
		"agent": agent,
	})
}

// CreateAgent creates a new agent
func (ac *AgentController) CreateAgent(c *fiber.Ctx) error {
	var req AgentRequest
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

	agent := models.Agent{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Country:        req.Country,
		CommissionRate: req.CommissionRate,
		IsActive:       true,
	}
	if err := database.DB.Create(&agent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create agent",
		})
	}

	middleware.LogActivity(c, "CREATE", "agents", agent.ID, agent)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Agent created successfully",
		"agent":   agent,
	})
}

// UpdateAgent updates an existing agent. Changing the commission rate only
// affects future commission calculations, which are always computed live.
func (ac *AgentController) UpdateAgent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid agent ID",
		})
	}

	var agent models.Agent
	if err := database.DB.First(&agent, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Agent not found",
		})
	}

	var req struct {
		Name           *string  `json:"name"`
		Email          *string  `json:"email"`
		Phone          *string  `json:"phone"`
		Country        *string  `json:"country"`
		CommissionRate *float64 `json:"commission_rate"`
		IsActive       *bool    `json:"is_active"`
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
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.CommissionRate != nil {
		if *req.CommissionRate < 0 || *req.CommissionRate > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "commission_rate must be between 0 and 100",
			})
		}
		updates["commission_rate"] = *req.CommissionRate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	if err := database.DB.Model(&agent).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update agent",
		})
	}

	middleware.LogActivity(c, "UPDATE", "agents", agent.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Agent updated successfully",
		"agent":   agent,
	})
}

// DeleteAgent soft-deletes an agent unless students still reference them
func (ac *AgentController) DeleteAgent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid agent ID",
		})
	}

	var agent models.Agent
	if err := database.DB.First(&agent, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Agent not found",
		})
	}

	var studentCount int64
	database.DB.Model(&models.Student{}).Where("agent_id = ?", agent.ID).Count(&studentCount)
	if studentCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete agent with referred students",
		})
	}

	if err := database.DB.Delete(&agent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete agent",
		})
	}

	middleware.LogActivity(c, "DELETE", "agents", agent.ID, nil)

	return c.JSON(fiber.Map{
		"message": "Agent deleted successfully",
	})
}

// SetCommissionPayout toggles the manually tracked payout flag for one
// agent. The commission amount itself always comes from the report service.
func (ac *AgentController) SetCommissionPayout(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid agent ID",
		})
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=Paid Unpaid"`
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

	var agent models.Agent
	if err := database.DB.First(&agent, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Agent not found",
		})
	}

	user, _ := middleware.GetCurrentUser(c)

	var payout models.CommissionPayout
	err = database.DB.Where("agent_id = ?", agent.ID).First(&payout).Error
	switch {
	case err == nil:
		payout.Status = req.Status
	case err == gorm.ErrRecordNotFound:
		payout = models.CommissionPayout{AgentID: agent.ID, Status: req.Status}
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load payout record",
		})
	}

	if req.Status == "Paid" {
		now := time.Now()
		payout.MarkedPaidAt = &now
		if user != nil {
			payout.MarkedByID = user.ID
		}
	} else {
		payout.MarkedPaidAt = nil
		payout.MarkedByID = 0
	}

	if err := database.DB.Save(&payout).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update payout status",
		})
	}

	middleware.LogActivity(c, "UPDATE", "commission_payouts", payout.ID, fiber.Map{
		"agent_id": agent.ID,
		"status":   req.Status,
	})

	return c.JSON(fiber.Map{
		"message": "Commission payout status updated",
		"payout":  payout,
	})
}
