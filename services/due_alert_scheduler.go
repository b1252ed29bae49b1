package services

import (
	"fmt"

	"eduglobal_go/config"
	"eduglobal_go/database"
	"eduglobal_go/models"
	"eduglobal_go/services/websocket"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DueAlertScheduler runs the due-payment sweep every morning: it rebuilds
// the due-alert report, stores a notification for every accountant and
// admin, pushes the list to connected dashboards and optionally sends a
// LINE summary.
type DueAlertScheduler struct {
	cron    *cron.Cron
	reports *ReportService
	line    *LineNotifyService
	wsHub   *websocket.Hub
}

func NewDueAlertScheduler(reports *ReportService, line *LineNotifyService) *DueAlertScheduler {
	return &DueAlertScheduler{
		cron:    cron.New(),
		reports: reports,
		line:    line,
	}
}

// SetWebSocketHub wires the hub used for live dashboard pushes
func (s *DueAlertScheduler) SetWebSocketHub(hub *websocket.Hub) {
	s.wsHub = hub
}

// Start schedules the daily sweep at 08:00 server time
func (s *DueAlertScheduler) Start() {
	if _, err := s.cron.AddFunc("0 8 * * *", func() {
		if err := s.RunSweep(); err != nil {
			logrus.WithError(err).Error("Due alert sweep failed")
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to schedule due alert sweep")
		return
	}
	s.cron.Start()
	logrus.Info("Due alert scheduler started (daily at 08:00)")
}

// Stop halts the scheduler
func (s *DueAlertScheduler) Stop() {
	s.cron.Stop()
}

// RunSweep executes one due-payment sweep immediately
func (s *DueAlertScheduler) RunSweep() error {
	threshold := config.AppConfig.DueAlertThresholdDays
	alerts, err := s.reports.DueAlerts(threshold)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		logrus.Info("Due alert sweep: nothing outstanding")
		return nil
	}

	critical := 0
	var totalOutstanding float64
	for _, a := range alerts {
		totalOutstanding += a.Balance
		if a.Severity == DueSeverityCritical {
			critical++
		}
	}

	title := "Due payment alerts"
	message := fmt.Sprintf("%d outstanding fee payments (%d overdue %d+ days), total balance %.2f",
		len(alerts), critical, threshold, totalOutstanding)

	// One notification per staff member who handles money
	var recipients []models.User
	if err := database.DB.
		Where("role IN ? AND status = ?", []string{"owner", "admin", "accountant"}, "active").
		Find(&recipients).Error; err != nil {
		return err
	}
	for _, user := range recipients {
		notification := models.Notification{
			UserID:  user.ID,
			Title:   title,
			Message: message,
			Type:    "warning",
		}
		if err := database.DB.Create(&notification).Error; err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to create due alert notification")
		}
	}

	if s.wsHub != nil {
		s.wsHub.Broadcast("due_alerts", map[string]interface{}{
			"summary": message,
			"alerts":  alerts,
		})
	}

	if s.line != nil && s.line.Enabled() {
		if err := s.line.PushDueSummary(s.renderLineSummary(alerts, message)); err != nil {
			logrus.WithError(err).Warn("Failed to push LINE due summary")
		}
	}

	logrus.WithFields(logrus.Fields{
		"alerts":   len(alerts),
		"critical": critical,
	}).Info("Due alert sweep completed")
	return nil
}

// renderLineSummary keeps the LINE message short: the headline plus the five
// most overdue rows.
func (s *DueAlertScheduler) renderLineSummary(alerts []DueAlertRow, headline string) string {
	msg := headline
	limit := 5
	if len(alerts) < limit {
		limit = len(alerts)
	}
	for i := 0; i < limit; i++ {
		a := alerts[i]
		due := ""
		if a.DueDate != nil {
			due = a.DueDate.Format("2006-01-02")
		}
		msg += fmt.Sprintf("\n%s %s: %.2f due %s (%dd overdue)",
			a.AdmissionNumber, a.StudentName, a.Balance, due, a.DaysOverdue)
	}
	if len(alerts) > limit {
		msg += fmt.Sprintf("\nand %d more", len(alerts)-limit)
	}
	return msg
}
