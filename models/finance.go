package models

import "time"

// Discount type values for invoices
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFlat       = "flat"
)

// Expense status values shared by all expense tables
const (
	ExpenseStatusPaid    = "paid"
	ExpenseStatusPending = "pending"
)

// Invoice is an immutable snapshot created at generation time. It is not
// linked to the fee ledger; totals are computed once from the items and
// never recalculated, even if catalog amounts change later.
type Invoice struct {
	BaseModel
	InvoiceNumber  string     `json:"invoice_number" gorm:"size:50;not null;uniqueIndex"`
	StudentID      uint       `json:"student_id" gorm:"not null;index"`
	Status         string     `json:"status" gorm:"size:50;not null;default:'unpaid';type:enum('paid','unpaid')"` // paid, unpaid
	Subtotal       float64    `json:"subtotal" gorm:"not null"`
	DiscountType   string     `json:"discount_type" gorm:"size:50;default:'flat';type:enum('percentage','flat')"`
	DiscountValue  float64    `json:"discount_value"`
	DiscountAmount float64    `json:"discount_amount"`
	GSTApplied     bool       `json:"gst_applied"`
	GSTPercentage  float64    `json:"gst_percentage"`
	GSTAmount      float64    `json:"gst_amount"`
	TotalAmount    float64    `json:"total_amount" gorm:"not null"`
	Terms          string     `json:"terms" gorm:"type:text"`
	IssuedAt       time.Time  `json:"issued_at"`
	PaidAt         *time.Time `json:"paid_at"`

	// Relationships
	Student Student       `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Items   []InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID"`
}

// InvoiceItem is one line of an invoice snapshot.
type InvoiceItem struct {
	BaseModel
	InvoiceID   uint    `json:"invoice_id" gorm:"not null;index"`
	Description string  `json:"description" gorm:"size:500;not null"`
	Quantity    int     `json:"quantity" gorm:"not null;default:1"`
	UnitPrice   float64 `json:"unit_price" gorm:"not null"`
	Amount      float64 `json:"amount" gorm:"not null"` // unit_price * quantity
}

// HostelExpense model
type HostelExpense struct {
	BaseModel
	HostelID    uint       `json:"hostel_id" gorm:"not null;index"`
	Category    string     `json:"category" gorm:"size:100"`
	Description string     `json:"description" gorm:"size:500"`
	Amount      float64    `json:"amount" gorm:"not null"`
	ExpenseDate *time.Time `json:"expense_date"`
	Status      string     `json:"status" gorm:"size:50;not null;default:'pending';type:enum('paid','pending')"`

	// Relationships
	Hostel Hostel `json:"hostel,omitempty" gorm:"foreignKey:HostelID"`
}

// OfficeExpense model
type OfficeExpense struct {
	BaseModel
	Category    string     `json:"category" gorm:"size:100"`
	Description string     `json:"description" gorm:"size:500"`
	Amount      float64    `json:"amount" gorm:"not null"`
	ExpenseDate *time.Time `json:"expense_date"`
	Status      string     `json:"status" gorm:"size:50;not null;default:'pending';type:enum('paid','pending')"`
}

// Salary model for staff salary payouts
type Salary struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null;index"`
	Month   string     `json:"month" gorm:"size:20"` // e.g. "2025-08"
	Amount  float64    `json:"amount" gorm:"not null"`
	PaidOn  *time.Time `json:"paid_on"`
	Status  string     `json:"status" gorm:"size:50;not null;default:'pending';type:enum('paid','pending')"`
	Remarks string     `json:"remarks" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// PersonalExpense model for owner drawings and other personal spend that
// still flows into the profit & loss report.
type PersonalExpense struct {
	BaseModel
	Description string     `json:"description" gorm:"size:500"`
	Amount      float64    `json:"amount" gorm:"not null"`
	ExpenseDate *time.Time `json:"expense_date"`
	Status      string     `json:"status" gorm:"size:50;not null;default:'pending';type:enum('paid','pending')"`
}
