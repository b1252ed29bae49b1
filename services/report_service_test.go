package services

import (
	"math"
	"testing"
	"time"

	"eduglobal_go/models"
)

func student(id, agentID, universityID uint) models.Student {
	return models.Student{
		BaseModel:    models.BaseModel{ID: id},
		AgentID:      agentID,
		UniversityID: universityID,
	}
}

func payment(studentID uint, due, paid float64) models.FeePayment {
	return models.FeePayment{
		StudentID:     studentID,
		AmountDue:     due,
		AmountPaid:    paid,
		PaymentStatus: ComputePaymentStatus(due, paid),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildAgentWiseReport(t *testing.T) {
	agents := []models.Agent{
		{BaseModel: models.BaseModel{ID: 1}, Name: "Alpha"},
		{BaseModel: models.BaseModel{ID: 2}, Name: "Beta"},
	}
	students := []models.Student{
		student(10, 1, 0),
		student(11, 1, 0),
		student(12, 2, 0),
		student(13, 0, 0), // no agent, ignored
	}
	payments := []models.FeePayment{
		payment(10, 10000, 4000),
		payment(11, 5000, 5000),
		payment(12, 8000, 0),
		payment(13, 9999, 9999), // belongs to agent-less student
	}

	rows := BuildAgentWiseReport(agents, students, payments)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	alpha := rows[0]
	if alpha.StudentCount != 2 {
		t.Errorf("Alpha student count = %d, want 2", alpha.StudentCount)
	}
	if !almostEqual(alpha.TotalDue, 15000) || !almostEqual(alpha.TotalPaid, 9000) {
		t.Errorf("Alpha totals = (%v, %v), want (15000, 9000)", alpha.TotalDue, alpha.TotalPaid)
	}
	if !almostEqual(alpha.TotalPending, 6000) {
		t.Errorf("Alpha pending = %v, want 6000", alpha.TotalPending)
	}

	beta := rows[1]
	if beta.StudentCount != 1 || !almostEqual(beta.TotalDue, 8000) || !almostEqual(beta.TotalPaid, 0) {
		t.Errorf("Beta row = %+v", beta)
	}
}

func TestBuildAgentWiseReportEmpty(t *testing.T) {
	rows := BuildAgentWiseReport(nil, nil, nil)
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestBuildUniversityFeeSummary(t *testing.T) {
	universities := []models.University{
		{BaseModel: models.BaseModel{ID: 1}, Name: "North"},
		{BaseModel: models.BaseModel{ID: 2}, Name: "South"},
	}
	students := []models.Student{
		student(10, 0, 1),
		student(11, 0, 1),
		student(12, 0, 2),
	}
	payments := []models.FeePayment{
		payment(10, 20000, 20000),
		payment(11, 10000, 2500),
		payment(12, 5000, 0),
	}

	rows := BuildUniversityFeeSummary(universities, students, payments)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	north := rows[0]
	if north.StudentCount != 2 || !almostEqual(north.TotalDue, 30000) || !almostEqual(north.TotalPaid, 22500) {
		t.Errorf("North row = %+v", north)
	}
	if !almostEqual(north.TotalPending, 7500) {
		t.Errorf("North pending = %v, want 7500", north.TotalPending)
	}
}

func TestBuildProfitAndLoss(t *testing.T) {
	year := 2025
	paidIn2025 := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	paidIn2024 := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)

	payments := []models.FeePayment{
		{AmountPaid: 50000, LastPaymentDate: &paidIn2025},
		{AmountPaid: 30000, LastPaymentDate: &paidIn2024}, // out of year
		{AmountPaid: 0, LastPaymentDate: nil},
	}
	hostelExpenses := []models.HostelExpense{
		{Amount: 8000, ExpenseDate: &paidIn2025},
		{Amount: 1000, ExpenseDate: &paidIn2024},
	}
	officeExpenses := []models.OfficeExpense{
		{Amount: 5000, ExpenseDate: &paidIn2025},
	}
	salaries := []models.Salary{
		{Amount: 12000, PaidOn: &paidIn2025},
		{Amount: 12000, PaidOn: nil}, // not yet paid
	}
	personal := []models.PersonalExpense{
		{Amount: 3000, ExpenseDate: &paidIn2025},
	}

	report := BuildProfitAndLoss(year, payments, hostelExpenses, officeExpenses, salaries, personal)

	if !almostEqual(report.TotalIncome, 50000) {
		t.Errorf("income = %v, want 50000", report.TotalIncome)
	}
	if !almostEqual(report.TotalExpenses, 28000) {
		t.Errorf("expenses = %v, want 28000", report.TotalExpenses)
	}
	if !almostEqual(report.NetProfit, 22000) {
		t.Errorf("net profit = %v, want 22000", report.NetProfit)
	}
	if !almostEqual(report.ProfitMargin, 44) {
		t.Errorf("margin = %v, want 44", report.ProfitMargin)
	}
}

func TestBuildProfitAndLossZeroIncome(t *testing.T) {
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	report := BuildProfitAndLoss(2025, nil, nil,
		[]models.OfficeExpense{{Amount: 1000, ExpenseDate: &d}}, nil, nil)

	if report.ProfitMargin != 0 {
		t.Errorf("margin with zero income = %v, want 0", report.ProfitMargin)
	}
	if !almostEqual(report.NetProfit, -1000) {
		t.Errorf("net profit = %v, want -1000", report.NetProfit)
	}
}

func TestBuildHostelExpenseSummary(t *testing.T) {
	hostels := []models.Hostel{
		{BaseModel: models.BaseModel{ID: 1}, Name: "Sunrise"},
	}
	expenses := []models.HostelExpense{
		{HostelID: 1, Amount: 500, Status: models.ExpenseStatusPaid},
		{HostelID: 1, Amount: 300, Status: models.ExpenseStatusPending},
		{HostelID: 2, Amount: 999, Status: models.ExpenseStatusPaid}, // unknown hostel, dropped
	}

	rows := BuildHostelExpenseSummary(hostels, expenses)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if !almostEqual(row.TotalExpenses, 800) || !almostEqual(row.PaidExpenses, 500) || !almostEqual(row.PendingExpenses, 300) {
		t.Errorf("row = %+v", row)
	}
}

func TestBuildDueAlerts(t *testing.T) {
	today := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	overdue40 := today.AddDate(0, 0, -40)
	overdue5 := today.AddDate(0, 0, -5)
	future := today.AddDate(0, 0, 15)

	payments := []models.FeePayment{
		{BaseModel: models.BaseModel{ID: 1}, StudentID: 10, AmountDue: 1000, AmountPaid: 0,
			DueDate: &overdue40, PaymentStatus: models.PaymentStatusPending},
		{BaseModel: models.BaseModel{ID: 2}, StudentID: 11, AmountDue: 2000, AmountPaid: 500,
			DueDate: &overdue5, PaymentStatus: models.PaymentStatusPartial},
		{BaseModel: models.BaseModel{ID: 3}, StudentID: 12, AmountDue: 3000, AmountPaid: 3000,
			DueDate: &overdue40, PaymentStatus: models.PaymentStatusPaid}, // paid, excluded
		{BaseModel: models.BaseModel{ID: 4}, StudentID: 13, AmountDue: 500, AmountPaid: 0,
			DueDate: nil, PaymentStatus: models.PaymentStatusPending}, // no due date, last
		{BaseModel: models.BaseModel{ID: 5}, StudentID: 14, AmountDue: 800, AmountPaid: 0,
			DueDate: &future, PaymentStatus: models.PaymentStatusPending},
	}

	rows := BuildDueAlerts(payments, today, 30)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	// Sorted by due date ascending, nil last
	if rows[0].PaymentID != 1 || rows[1].PaymentID != 2 || rows[2].PaymentID != 5 {
		t.Errorf("unexpected order: %d, %d, %d", rows[0].PaymentID, rows[1].PaymentID, rows[2].PaymentID)
	}
	if rows[3].DueDate != nil {
		t.Errorf("row without due date should sort last")
	}

	if rows[0].Severity != DueSeverityCritical {
		t.Errorf("40 days overdue should be critical, got %q", rows[0].Severity)
	}
	if rows[0].DaysOverdue != 40 {
		t.Errorf("days overdue = %d, want 40", rows[0].DaysOverdue)
	}
	if rows[1].Severity != DueSeverityWarning {
		t.Errorf("5 days overdue should be warning, got %q", rows[1].Severity)
	}
	if !almostEqual(rows[1].Balance, 1500) {
		t.Errorf("balance = %v, want 1500", rows[1].Balance)
	}
}

func TestBuildDueAlertsExcludesSettledRows(t *testing.T) {
	// A row whose balance is zero stays out even if the status column lags
	payments := []models.FeePayment{
		{BaseModel: models.BaseModel{ID: 1}, AmountDue: 100, AmountPaid: 100,
			PaymentStatus: models.PaymentStatusPartial},
	}
	rows := BuildDueAlerts(payments, time.Now(), 30)
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestBuildAgentCommissionReport(t *testing.T) {
	agents := []models.Agent{
		{BaseModel: models.BaseModel{ID: 1}, Name: "Alpha", CommissionRate: 10},
		{BaseModel: models.BaseModel{ID: 2}, Name: "Beta", CommissionRate: 5},
	}
	students := []models.Student{
		student(10, 1, 0),
		student(11, 2, 0),
	}
	payments := []models.FeePayment{
		payment(10, 50000, 30000),
		payment(11, 20000, 20000),
	}
	payouts := []models.CommissionPayout{
		{AgentID: 2, Status: "Paid"},
	}

	rows := BuildAgentCommissionReport(agents, students, payments, payouts)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	alpha := rows[0]
	if !almostEqual(alpha.TotalReceived, 30000) || !almostEqual(alpha.CommissionDue, 3000) {
		t.Errorf("Alpha = %+v", alpha)
	}
	if alpha.PayoutStatus != "Unpaid" {
		t.Errorf("Alpha payout status = %q, want Unpaid default", alpha.PayoutStatus)
	}

	beta := rows[1]
	if !almostEqual(beta.CommissionDue, 1000) {
		t.Errorf("Beta commission = %v, want 1000", beta.CommissionDue)
	}
	if beta.PayoutStatus != "Paid" {
		t.Errorf("Beta payout status = %q, want Paid", beta.PayoutStatus)
	}
}

func TestAgentCommissionCSVShape(t *testing.T) {
	rows := []AgentCommissionRow{
		{AgentID: 1, AgentName: "Alpha", CommissionRate: 10, StudentCount: 2,
			TotalReceived: 30000, CommissionDue: 3000, PayoutStatus: "Unpaid"},
	}
	header, data := AgentCommissionCSV(rows)
	if len(data) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(data))
	}
	if len(data[0]) != len(header) {
		t.Errorf("row width %d != header width %d", len(data[0]), len(header))
	}
	if data[0][5] != "3000.00" {
		t.Errorf("commission cell = %q, want 3000.00", data[0][5])
	}
}
