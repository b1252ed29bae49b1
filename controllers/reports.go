package controllers

import (
	"strconv"
	"time"

	"eduglobal_go/config"
	"eduglobal_go/services"
	"eduglobal_go/utils"

	"github.com/gofiber/fiber/v2"
)

// ReportController exposes the six reports as JSON plus CSV exports. Reports
// are always recomputed per request from current data.
type ReportController struct {
	reports *services.ReportService
}

func NewReportController() *ReportController {
	return &ReportController{reports: services.NewReportService()}
}

// AgentWise returns the agent-wise student and fee report
func (rc *ReportController) AgentWise(c *fiber.Ctx) error {
	rows, err := rc.reports.AgentWiseReport()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build agent-wise report",
		})
	}
	return c.JSON(fiber.Map{
		"report": rows,
	})
}

// UniversityFees returns the per-university fee summary
func (rc *ReportController) UniversityFees(c *fiber.Ctx) error {
	rows, err := rc.reports.UniversityFeeSummary()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build university fee summary",
		})
	}
	return c.JSON(fiber.Map{
		"report": rows,
	})
}

// ProfitAndLoss returns the yearly income vs expenses summary
func (rc *ReportController) ProfitAndLoss(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Query("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid year",
		})
	}

	report, err := rc.reports.ProfitAndLoss(year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build profit and loss report",
		})
	}
	return c.JSON(fiber.Map{
		"report": report,
	})
}

// HostelExpenses returns the per-hostel expense summary
func (rc *ReportController) HostelExpenses(c *fiber.Ctx) error {
	rows, err := rc.reports.HostelExpenseSummary()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build hostel expense summary",
		})
	}
	return c.JSON(fiber.Map{
		"report": rows,
	})
}

// DueAlerts returns every outstanding ledger row with severity flags
func (rc *ReportController) DueAlerts(c *fiber.Ctx) error {
	threshold := config.AppConfig.DueAlertThresholdDays
	if t := c.Query("threshold_days"); t != "" {
		parsed, err := strconv.Atoi(t)
		if err != nil || parsed < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid threshold_days",
			})
		}
		threshold = parsed
	}

	rows, err := rc.reports.DueAlerts(threshold)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build due alerts",
		})
	}
	return c.JSON(fiber.Map{
		"report":         rows,
		"threshold_days": threshold,
	})
}

// AgentCommissions returns the commission report with payout flags
func (rc *ReportController) AgentCommissions(c *fiber.Ctx) error {
	rows, err := rc.reports.AgentCommissionReport()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build agent commission report",
		})
	}
	return c.JSON(fiber.Map{
		"report": rows,
	})
}

// sendCSV writes a CSV download response with the standard export filename
func sendCSV(c *fiber.Ctx, reportName string, header []string, rows [][]string) error {
	csvText, err := utils.BuildCSV(header, rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render CSV",
		})
	}

	filename := utils.CSVExportFilename(reportName, time.Now())
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.SendString(csvText)
}

// ExportAgentWise downloads the agent-wise report as CSV
func (rc *ReportController) ExportAgentWise(c *fiber.Ctx) error {
	rows, err := rc.reports.AgentWiseReport()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build agent-wise report",
		})
	}
	header, data := services.AgentWiseCSV(rows)
	return sendCSV(c, "agent-wise-report", header, data)
}

// ExportUniversityFees downloads the university fee summary as CSV
func (rc *ReportController) ExportUniversityFees(c *fiber.Ctx) error {
	rows, err := rc.reports.UniversityFeeSummary()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build university fee summary",
		})
	}
	header, data := services.UniversityFeeSummaryCSV(rows)
	return sendCSV(c, "university-fee-summary", header, data)
}

// ExportProfitAndLoss downloads the profit and loss report as CSV
func (rc *ReportController) ExportProfitAndLoss(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Query("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid year",
		})
	}

	report, err := rc.reports.ProfitAndLoss(year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build profit and loss report",
		})
	}
	header, data := services.ProfitAndLossCSV(report)
	return sendCSV(c, "profit-and-loss", header, data)
}

// ExportHostelExpenses downloads the hostel expense summary as CSV
func (rc *ReportController) ExportHostelExpenses(c *fiber.Ctx) error {
	rows, err := rc.reports.HostelExpenseSummary()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build hostel expense summary",
		})
	}
	header, data := services.HostelExpenseSummaryCSV(rows)
	return sendCSV(c, "hostel-expense-summary", header, data)
}

// ExportDueAlerts downloads the due alerts as CSV
func (rc *ReportController) ExportDueAlerts(c *fiber.Ctx) error {
	rows, err := rc.reports.DueAlerts(config.AppConfig.DueAlertThresholdDays)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build due alerts",
		})
	}
	header, data := services.DueAlertsCSV(rows)
	return sendCSV(c, "due-alerts", header, data)
}

// ExportAgentCommissions downloads the commission report as CSV
func (rc *ReportController) ExportAgentCommissions(c *fiber.Ctx) error {
	rows, err := rc.reports.AgentCommissionReport()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build agent commission report",
		})
	}
	header, data := services.AgentCommissionCSV(rows)
	return sendCSV(c, "agent-commission-report", header, data)
}
