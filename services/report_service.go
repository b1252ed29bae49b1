package services

import (
	"fmt"
	"sort"
	"time"

	"eduglobal_go/database"
	"eduglobal_go/models"

	"gorm.io/gorm"
)

// ReportService exposes the six back-office reports. Every report is
// recomputed per request from freshly loaded rows; the aggregation itself
// is done by pure Build* functions so it can be tested without a database.
type ReportService struct {
	db *gorm.DB
}

func NewReportService() *ReportService {
	return &ReportService{db: database.DB}
}

// AgentReportRow is one line of the agent-wise student report.
type AgentReportRow struct {
	AgentID      uint    `json:"agent_id"`
	AgentName    string  `json:"agent_name"`
	StudentCount int     `json:"student_count"`
	TotalDue     float64 `json:"total_due"`
	TotalPaid    float64 `json:"total_paid"`
	TotalPending float64 `json:"total_pending"`
}

// UniversityFeeSummaryRow is one line of the university fee summary.
type UniversityFeeSummaryRow struct {
	UniversityID   uint    `json:"university_id"`
	UniversityName string  `json:"university_name"`
	StudentCount   int     `json:"student_count"`
	TotalDue       float64 `json:"total_due"`
	TotalPaid      float64 `json:"total_paid"`
	TotalPending   float64 `json:"total_pending"`
}

// ProfitAndLossReport is the yearly income vs expenses summary.
type ProfitAndLossReport struct {
	Year             int     `json:"year"`
	TotalIncome      float64 `json:"total_income"`
	HostelExpenses   float64 `json:"hostel_expenses"`
	OfficeExpenses   float64 `json:"office_expenses"`
	SalaryExpenses   float64 `json:"salary_expenses"`
	PersonalExpenses float64 `json:"personal_expenses"`
	TotalExpenses    float64 `json:"total_expenses"`
	NetProfit        float64 `json:"net_profit"`
	ProfitMargin     float64 `json:"profit_margin"` // percent, 0 when income is 0
}

// HostelExpenseSummaryRow groups hostel expenses per hostel.
type HostelExpenseSummaryRow struct {
	HostelID        uint    `json:"hostel_id"`
	HostelName      string  `json:"hostel_name"`
	UniversityName  string  `json:"university_name"`
	TotalExpenses   float64 `json:"total_expenses"`
	PaidExpenses    float64 `json:"paid_expenses"`
	PendingExpenses float64 `json:"pending_expenses"`
}

// Due alert severity levels; the split point is the configured threshold
// (30 days by default).
const (
	DueSeverityCritical = "critical"
	DueSeverityWarning  = "warning"
)

// DueAlertRow is one outstanding ledger row in the due-payment report.
type DueAlertRow struct {
	PaymentID       uint       `json:"payment_id"`
	StudentID       uint       `json:"student_id"`
	AdmissionNumber string     `json:"admission_number"`
	StudentName     string     `json:"student_name"`
	FeeType         string     `json:"fee_type"`
	AmountDue       float64    `json:"amount_due"`
	AmountPaid      float64    `json:"amount_paid"`
	Balance         float64    `json:"balance"`
	DueDate         *time.Time `json:"due_date"`
	DaysOverdue     int        `json:"days_overdue"`
	Severity        string     `json:"severity"`
}

// AgentCommissionRow is one line of the agent commission report. The payout
// status is a manually tracked flag, not derived from the ledger.
type AgentCommissionRow struct {
	AgentID        uint    `json:"agent_id"`
	AgentName      string  `json:"agent_name"`
	CommissionRate float64 `json:"commission_rate"`
	StudentCount   int     `json:"student_count"`
	TotalReceived  float64 `json:"total_received"`
	CommissionDue  float64 `json:"commission_due"`
	PayoutStatus   string  `json:"payout_status"`
}

// BuildAgentWiseReport sums ledger rows per owning agent. Students without
// an agent are ignored; agents without students still get a zero row.
func BuildAgentWiseReport(agents []models.Agent, students []models.Student, payments []models.FeePayment) []AgentReportRow {
	agentOf := make(map[uint]uint, len(students))
	studentCount := make(map[uint]int, len(agents))
	for _, st := range students {
		if st.AgentID == 0 {
			continue
		}
		agentOf[st.ID] = st.AgentID
		studentCount[st.AgentID]++
	}

	due := make(map[uint]float64)
	paid := make(map[uint]float64)
	for _, p := range payments {
		agentID, ok := agentOf[p.StudentID]
		if !ok {
			continue
		}
		due[agentID] += p.AmountDue
		paid[agentID] += p.AmountPaid
	}

	rows := make([]AgentReportRow, 0, len(agents))
	for _, agent := range agents {
		rows = append(rows, AgentReportRow{
			AgentID:      agent.ID,
			AgentName:    agent.Name,
			StudentCount: studentCount[agent.ID],
			TotalDue:     due[agent.ID],
			TotalPaid:    paid[agent.ID],
			TotalPending: due[agent.ID] - paid[agent.ID],
		})
	}
	return rows
}

// BuildUniversityFeeSummary is the same aggregation grouped by university.
func BuildUniversityFeeSummary(universities []models.University, students []models.Student, payments []models.FeePayment) []UniversityFeeSummaryRow {
	universityOf := make(map[uint]uint, len(students))
	studentCount := make(map[uint]int, len(universities))
	for _, st := range students {
		if st.UniversityID == 0 {
			continue
		}
		universityOf[st.ID] = st.UniversityID
		studentCount[st.UniversityID]++
	}

	due := make(map[uint]float64)
	paid := make(map[uint]float64)
	for _, p := range payments {
		universityID, ok := universityOf[p.StudentID]
		if !ok {
			continue
		}
		due[universityID] += p.AmountDue
		paid[universityID] += p.AmountPaid
	}

	rows := make([]UniversityFeeSummaryRow, 0, len(universities))
	for _, u := range universities {
		rows = append(rows, UniversityFeeSummaryRow{
			UniversityID:   u.ID,
			UniversityName: u.Name,
			StudentCount:   studentCount[u.ID],
			TotalDue:       due[u.ID],
			TotalPaid:      paid[u.ID],
			TotalPending:   due[u.ID] - paid[u.ID],
		})
	}
	return rows
}

func inYear(t *time.Time, year int) bool {
	return t != nil && t.Year() == year
}

// BuildProfitAndLoss computes yearly income from collected fees and yearly
// expenses from the four expense tables. Profit margin reports 0 when there
// is no income. The ledger stores cumulative totals, not per-installment
// history, so a row's full amount_paid is attributed to the year of its
// last payment date.
func BuildProfitAndLoss(year int, payments []models.FeePayment,
	hostelExpenses []models.HostelExpense, officeExpenses []models.OfficeExpense,
	salaries []models.Salary, personalExpenses []models.PersonalExpense) ProfitAndLossReport {

	report := ProfitAndLossReport{Year: year}

	for _, p := range payments {
		if p.AmountPaid > 0 && inYear(p.LastPaymentDate, year) {
			report.TotalIncome += p.AmountPaid
		}
	}
	for _, e := range hostelExpenses {
		if inYear(e.ExpenseDate, year) {
			report.HostelExpenses += e.Amount
		}
	}
	for _, e := range officeExpenses {
		if inYear(e.ExpenseDate, year) {
			report.OfficeExpenses += e.Amount
		}
	}
	for _, s := range salaries {
		if inYear(s.PaidOn, year) {
			report.SalaryExpenses += s.Amount
		}
	}
	for _, e := range personalExpenses {
		if inYear(e.ExpenseDate, year) {
			report.PersonalExpenses += e.Amount
		}
	}

	report.TotalExpenses = report.HostelExpenses + report.OfficeExpenses +
		report.SalaryExpenses + report.PersonalExpenses
	report.NetProfit = report.TotalIncome - report.TotalExpenses
	if report.TotalIncome != 0 {
		report.ProfitMargin = report.NetProfit / report.TotalIncome * 100
	}
	return report
}

// BuildHostelExpenseSummary groups hostel expense records per hostel.
func BuildHostelExpenseSummary(hostels []models.Hostel, expenses []models.HostelExpense) []HostelExpenseSummaryRow {
	total := make(map[uint]float64)
	paid := make(map[uint]float64)
	pending := make(map[uint]float64)
	for _, e := range expenses {
		total[e.HostelID] += e.Amount
		switch e.Status {
		case models.ExpenseStatusPaid:
			paid[e.HostelID] += e.Amount
		case models.ExpenseStatusPending:
			pending[e.HostelID] += e.Amount
		}
	}

	rows := make([]HostelExpenseSummaryRow, 0, len(hostels))
	for _, h := range hostels {
		rows = append(rows, HostelExpenseSummaryRow{
			HostelID:        h.ID,
			HostelName:      h.Name,
			UniversityName:  h.University.Name,
			TotalExpenses:   total[h.ID],
			PaidExpenses:    paid[h.ID],
			PendingExpenses: pending[h.ID],
		})
	}
	return rows
}

// BuildDueAlerts returns every ledger row with an outstanding balance,
// sorted by due date ascending (rows without a due date last). Rows at or
// beyond thresholdDays overdue are flagged critical.
func BuildDueAlerts(payments []models.FeePayment, today time.Time, thresholdDays int) []DueAlertRow {
	rows := make([]DueAlertRow, 0, len(payments))
	for _, p := range payments {
		if p.PaymentStatus == models.PaymentStatusPaid {
			continue
		}
		balance := p.AmountDue - p.AmountPaid
		if balance <= 0 {
			continue
		}

		daysOverdue := DaysOverdue(p.DueDate, today)
		severity := DueSeverityWarning
		if daysOverdue >= thresholdDays {
			severity = DueSeverityCritical
		}

		rows = append(rows, DueAlertRow{
			PaymentID:       p.ID,
			StudentID:       p.StudentID,
			AdmissionNumber: p.Student.AdmissionNumber,
			StudentName:     fmt.Sprintf("%s %s", p.Student.FirstName, p.Student.LastName),
			FeeType:         p.Component.FeeType.Name,
			AmountDue:       p.AmountDue,
			AmountPaid:      p.AmountPaid,
			Balance:         balance,
			DueDate:         p.DueDate,
			DaysOverdue:     daysOverdue,
			Severity:        severity,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].DueDate, rows[j].DueDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
	return rows
}

// BuildAgentCommissionReport computes commission due per agent from the
// total fees actually received for that agent's students. Payout status
// comes from the manually tracked CommissionPayout flag, default "Unpaid".
func BuildAgentCommissionReport(agents []models.Agent, students []models.Student,
	payments []models.FeePayment, payouts []models.CommissionPayout) []AgentCommissionRow {

	agentOf := make(map[uint]uint, len(students))
	studentCount := make(map[uint]int)
	for _, st := range students {
		if st.AgentID == 0 {
			continue
		}
		agentOf[st.ID] = st.AgentID
		studentCount[st.AgentID]++
	}

	received := make(map[uint]float64)
	for _, p := range payments {
		if agentID, ok := agentOf[p.StudentID]; ok {
			received[agentID] += p.AmountPaid
		}
	}

	payoutStatus := make(map[uint]string, len(payouts))
	for _, po := range payouts {
		payoutStatus[po.AgentID] = po.Status
	}

	rows := make([]AgentCommissionRow, 0, len(agents))
	for _, agent := range agents {
		status, ok := payoutStatus[agent.ID]
		if !ok {
			status = "Unpaid"
		}
		rows = append(rows, AgentCommissionRow{
			AgentID:        agent.ID,
			AgentName:      agent.Name,
			CommissionRate: agent.CommissionRate,
			StudentCount:   studentCount[agent.ID],
			TotalReceived:  received[agent.ID],
			CommissionDue:  received[agent.ID] * agent.CommissionRate / 100,
			PayoutStatus:   status,
		})
	}
	return rows
}

// --- database-backed entry points ---

func (r *ReportService) AgentWiseReport() ([]AgentReportRow, error) {
	var agents []models.Agent
	if err := r.db.Find(&agents).Error; err != nil {
		return nil, err
	}
	var students []models.Student
	if err := r.db.Select("id", "agent_id").Find(&students).Error; err != nil {
		return nil, err
	}
	var payments []models.FeePayment
	if err := r.db.Find(&payments).Error; err != nil {
		return nil, err
	}
	return BuildAgentWiseReport(agents, students, payments), nil
}

func (r *ReportService) UniversityFeeSummary() ([]UniversityFeeSummaryRow, error) {
	var universities []models.University
	if err := r.db.Find(&universities).Error; err != nil {
		return nil, err
	}
	var students []models.Student
	if err := r.db.Select("id", "university_id").Find(&students).Error; err != nil {
		return nil, err
	}
	var payments []models.FeePayment
	if err := r.db.Find(&payments).Error; err != nil {
		return nil, err
	}
	return BuildUniversityFeeSummary(universities, students, payments), nil
}

func (r *ReportService) ProfitAndLoss(year int) (ProfitAndLossReport, error) {
	var payments []models.FeePayment
	if err := r.db.Where("amount_paid > 0").Find(&payments).Error; err != nil {
		return ProfitAndLossReport{}, err
	}
	var hostelExpenses []models.HostelExpense
	if err := r.db.Find(&hostelExpenses).Error; err != nil {
		return ProfitAndLossReport{}, err
	}
	var officeExpenses []models.OfficeExpense
	if err := r.db.Find(&officeExpenses).Error; err != nil {
		return ProfitAndLossReport{}, err
	}
	var salaries []models.Salary
	if err := r.db.Find(&salaries).Error; err != nil {
		return ProfitAndLossReport{}, err
	}
	var personalExpenses []models.PersonalExpense
	if err := r.db.Find(&personalExpenses).Error; err != nil {
		return ProfitAndLossReport{}, err
	}
	return BuildProfitAndLoss(year, payments, hostelExpenses, officeExpenses, salaries, personalExpenses), nil
}

func (r *ReportService) HostelExpenseSummary() ([]HostelExpenseSummaryRow, error) {
	var hostels []models.Hostel
	if err := r.db.Preload("University").Find(&hostels).Error; err != nil {
		return nil, err
	}
	var expenses []models.HostelExpense
	if err := r.db.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return BuildHostelExpenseSummary(hostels, expenses), nil
}

func (r *ReportService) DueAlerts(thresholdDays int) ([]DueAlertRow, error) {
	var payments []models.FeePayment
	if err := r.db.Preload("Student").Preload("Component.FeeType").
		Where("payment_status <> ?", models.PaymentStatusPaid).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return BuildDueAlerts(payments, time.Now(), thresholdDays), nil
}

func (r *ReportService) AgentCommissionReport() ([]AgentCommissionRow, error) {
	var agents []models.Agent
	if err := r.db.Find(&agents).Error; err != nil {
		return nil, err
	}
	var students []models.Student
	if err := r.db.Select("id", "agent_id").Find(&students).Error; err != nil {
		return nil, err
	}
	var payments []models.FeePayment
	if err := r.db.Find(&payments).Error; err != nil {
		return nil, err
	}
	var payouts []models.CommissionPayout
	if err := r.db.Find(&payouts).Error; err != nil {
		return nil, err
	}
	return BuildAgentCommissionReport(agents, students, payments, payouts), nil
}
