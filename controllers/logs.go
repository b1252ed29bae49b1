package controllers

import (
	"strconv"
	"time"

	"eduglobal_go/database"
	"eduglobal_go/models"
	"eduglobal_go/services"

	"github.com/gofiber/fiber/v2"
)

type LogController struct {
	archive *services.LogArchiveService
}

func NewLogController() *LogController {
	return &LogController{archive: services.NewLogArchiveService()}
}

// GetLogs returns activity logs with pagination and filters
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset := (page - 1) * limit

	var logs []models.ActivityLog
	var total int64

	query := database.DB.Model(&models.ActivityLog{})

	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if from := c.Query("from"); from != "" {
		if d, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", d)
		}
	}
	if to := c.Query("to"); to != "" {
		if d, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", d.AddDate(0, 0, 1))
		}
	}

	query.Count(&total)

	if err := query.Preload("User").
		Offset(offset).Limit(limit).Order("created_at DESC").Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs": logs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetLogStats returns per-action and per-resource counts for the dashboard
func (lc *LogController) GetLogStats(c *fiber.Ctx) error {
	type countRow struct {
		Key   string `json:"key"`
		Count int64  `json:"count"`
	}

	var byAction []countRow
	if err := database.DB.Model(&models.ActivityLog{}).
		Select("action AS `key`, COUNT(*) AS count").
		Group("action").Scan(&byAction).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute log stats",
		})
	}

	var byResource []countRow
	if err := database.DB.Model(&models.ActivityLog{}).
		Select("resource AS `key`, COUNT(*) AS count").
		Group("resource").Scan(&byResource).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute log stats",
		})
	}

	var total int64
	database.DB.Model(&models.ActivityLog{}).Count(&total)

	return c.JSON(fiber.Map{
		"total":       total,
		"by_action":   byAction,
		"by_resource": byResource,
	})
}

// ExportLogs downloads the filtered logs as CSV
func (lc *LogController) ExportLogs(c *fiber.Ctx) error {
	var logs []models.ActivityLog

	query := database.DB.Model(&models.ActivityLog{}).Preload("User")
	if from := c.Query("from"); from != "" {
		if d, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", d)
		}
	}
	if to := c.Query("to"); to != "" {
		if d, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", d.AddDate(0, 0, 1))
		}
	}

	if err := query.Order("created_at DESC").Limit(10000).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	header := []string{"ID", "User", "Action", "Resource", "Resource ID", "IP Address", "Created At"}
	rows := make([][]string, 0, len(logs))
	for _, log := range logs {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(log.ID), 10),
			log.User.Username,
			log.Action,
			log.Resource,
			strconv.FormatUint(uint64(log.ResourceID), 10),
			log.IPAddress,
			log.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return sendCSV(c, "activity-logs", header, rows)
}

// FlushLogs forces the Redis-cached logs into the database immediately
func (lc *LogController) FlushLogs(c *fiber.Ctx) error {
	if err := lc.archive.FlushCachedLogsToDatabase(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to flush cached logs: " + err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cached logs flushed to database",
	})
}

// GetArchives lists the archived log bundles in S3
func (lc *LogController) GetArchives(c *fiber.Ctx) error {
	archives, err := lc.archive.GetArchivedLogs()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch archives",
		})
	}
	return c.JSON(fiber.Map{
		"archives": archives,
	})
}

// DownloadArchive streams one archived log bundle from S3
func (lc *LogController) DownloadArchive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid archive ID",
		})
	}

	reader, fileName, err := lc.archive.DownloadArchivedLogs(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer reader.Close()

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.SendStream(reader)
}
