package services

import (
	"fmt"
	"strconv"
	"time"
)

// CSV renderers for the report types. Each returns the header row plus one
// stringified data row per result row, ready for utils.BuildCSV.

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func AgentWiseCSV(rows []AgentReportRow) ([]string, [][]string) {
	header := []string{"Agent ID", "Agent Name", "Students", "Total Due", "Total Paid", "Total Pending"}
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.FormatUint(uint64(r.AgentID), 10),
			r.AgentName,
			strconv.Itoa(r.StudentCount),
			money(r.TotalDue),
			money(r.TotalPaid),
			money(r.TotalPending),
		})
	}
	return header, data
}

func UniversityFeeSummaryCSV(rows []UniversityFeeSummaryRow) ([]string, [][]string) {
	header := []string{"University ID", "University", "Students", "Total Due", "Total Paid", "Total Pending"}
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.FormatUint(uint64(r.UniversityID), 10),
			r.UniversityName,
			strconv.Itoa(r.StudentCount),
			money(r.TotalDue),
			money(r.TotalPaid),
			money(r.TotalPending),
		})
	}
	return header, data
}

func ProfitAndLossCSV(report ProfitAndLossReport) ([]string, [][]string) {
	header := []string{"Year", "Total Income", "Hostel Expenses", "Office Expenses", "Salary Expenses", "Personal Expenses", "Total Expenses", "Net Profit", "Profit Margin %"}
	data := [][]string{{
		strconv.Itoa(report.Year),
		money(report.TotalIncome),
		money(report.HostelExpenses),
		money(report.OfficeExpenses),
		money(report.SalaryExpenses),
		money(report.PersonalExpenses),
		money(report.TotalExpenses),
		money(report.NetProfit),
		money(report.ProfitMargin),
	}}
	return header, data
}

func HostelExpenseSummaryCSV(rows []HostelExpenseSummaryRow) ([]string, [][]string) {
	header := []string{"Hostel ID", "Hostel", "University", "Total Expenses", "Paid", "Pending"}
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.FormatUint(uint64(r.HostelID), 10),
			r.HostelName,
			r.UniversityName,
			money(r.TotalExpenses),
			money(r.PaidExpenses),
			money(r.PendingExpenses),
		})
	}
	return header, data
}

func DueAlertsCSV(rows []DueAlertRow) ([]string, [][]string) {
	header := []string{"Payment ID", "Admission No", "Student", "Fee Type", "Amount Due", "Amount Paid", "Balance", "Due Date", "Days Overdue", "Severity"}
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.FormatUint(uint64(r.PaymentID), 10),
			r.AdmissionNumber,
			r.StudentName,
			r.FeeType,
			money(r.AmountDue),
			money(r.AmountPaid),
			money(r.Balance),
			dateOrEmpty(r.DueDate),
			strconv.Itoa(r.DaysOverdue),
			r.Severity,
		})
	}
	return header, data
}

func AgentCommissionCSV(rows []AgentCommissionRow) ([]string, [][]string) {
	header := []string{"Agent ID", "Agent Name", "Commission Rate %", "Students", "Total Received", "Commission Due", "Payout Status"}
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.FormatUint(uint64(r.AgentID), 10),
			r.AgentName,
			fmt.Sprintf("%g", r.CommissionRate),
			strconv.Itoa(r.StudentCount),
			money(r.TotalReceived),
			money(r.CommissionDue),
			r.PayoutStatus,
		})
	}
	return header, data
}
