package models

import "time"

// Fee frequency values shared by FeeType and FeeStructureComponent
const (
	FrequencyOneTime = "one_time"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Payment status values derived from (amount_due, amount_paid)
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// FeeType is a reusable named charge in the fee catalog, e.g. "Tuition Fee".
// The catalog amount is a default; structure components can override it.
type FeeType struct {
	BaseModel
	Name      string  `json:"name" gorm:"size:200;not null;uniqueIndex"`
	Category  string  `json:"category" gorm:"size:100"`
	Amount    float64 `json:"amount" gorm:"not null;default:0"`
	Frequency string  `json:"frequency" gorm:"size:50;not null;default:'one_time';type:enum('one_time','monthly','yearly')"` // one_time, monthly, yearly
	IsActive  bool    `json:"is_active" gorm:"default:true"`
}

// FeeStructure groups fee components for a university+course combination,
// e.g. "MBBS 2024 Tuition+Hostel".
type FeeStructure struct {
	BaseModel
	Name         string `json:"name" gorm:"size:255;not null"`
	UniversityID uint   `json:"university_id" gorm:"not null;index"`
	CourseID     uint   `json:"course_id" gorm:"not null;index"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	University University                `json:"university,omitempty" gorm:"foreignKey:UniversityID"`
	Course     Course                    `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Components []FeeStructureComponent   `json:"components,omitempty" gorm:"foreignKey:FeeStructureID"`
}

// FeeStructureComponent is one line item within a structure. Its amount
// overrides the catalog amount of the referenced fee type.
type FeeStructureComponent struct {
	BaseModel
	FeeStructureID uint    `json:"fee_structure_id" gorm:"not null;index"`
	FeeTypeID      uint    `json:"fee_type_id" gorm:"not null;index"`
	Amount         float64 `json:"amount" gorm:"not null"`
	Frequency      string  `json:"frequency" gorm:"size:50;not null;default:'one_time';type:enum('one_time','monthly','yearly')"`

	// Relationships
	FeeStructure FeeStructure `json:"fee_structure,omitempty" gorm:"foreignKey:FeeStructureID"`
	FeeType      FeeType      `json:"fee_type,omitempty" gorm:"foreignKey:FeeTypeID"`
}

// StudentFeeAssignment records that a structure was applied to a student.
// Ledger rows are materialized alongside it, one per component.
type StudentFeeAssignment struct {
	BaseModel
	StudentID      uint      `json:"student_id" gorm:"not null;index"`
	FeeStructureID uint      `json:"fee_structure_id" gorm:"not null;index"`
	AssignedAt     time.Time `json:"assigned_at" gorm:"not null"`

	// Relationships
	Student      Student      `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	FeeStructure FeeStructure `json:"fee_structure,omitempty" gorm:"foreignKey:FeeStructureID"`
}

// FeePayment is the per-student-per-component ledger row. AmountPaid is
// cumulative: payment collection overwrites it with the new total, it is not
// a delta. Version guards against concurrent lost updates.
type FeePayment struct {
	BaseModel
	StudentID               uint       `json:"student_id" gorm:"not null;index:idx_fee_payment_pair,unique"`
	FeeStructureComponentID uint       `json:"fee_structure_component_id" gorm:"not null;index:idx_fee_payment_pair,unique"`
	AmountDue               float64    `json:"amount_due" gorm:"not null"`
	AmountPaid              float64    `json:"amount_paid" gorm:"not null;default:0"`
	DueDate                 *time.Time `json:"due_date"`
	LastPaymentDate         *time.Time `json:"last_payment_date"`
	PaymentStatus           string     `json:"payment_status" gorm:"size:50;not null;default:'pending';type:enum('pending','partial','paid')"`
	ReceiptNumber           string     `json:"receipt_number" gorm:"size:50"`
	Version                 uint       `json:"version" gorm:"not null;default:0"`

	// Relationships
	Student   Student               `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Component FeeStructureComponent `json:"component,omitempty" gorm:"foreignKey:FeeStructureComponentID"`
}

// Balance is the outstanding amount on a ledger row.
func (fp *FeePayment) Balance() float64 {
	return fp.AmountDue - fp.AmountPaid
}

// StudentFeeCustomization overrides a component's amount for one student.
// When present, the ledger row's amount_due must reflect CustomAmount.
type StudentFeeCustomization struct {
	BaseModel
	StudentID               uint    `json:"student_id" gorm:"not null;index:idx_fee_customization_pair,unique"`
	FeeStructureComponentID uint    `json:"fee_structure_component_id" gorm:"not null;index:idx_fee_customization_pair,unique"`
	CustomAmount            float64 `json:"custom_amount" gorm:"not null"`
	Reason                  string  `json:"reason" gorm:"size:500"`

	// Relationships
	Student   Student               `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Component FeeStructureComponent `json:"component,omitempty" gorm:"foreignKey:FeeStructureComponentID"`
}

// CommissionPayout is the manually tracked payout flag for an agent's
// commission. The due amount itself is always computed live by the report
// service; only the paid/unpaid state is persisted.
type CommissionPayout struct {
	BaseModel
	AgentID      uint       `json:"agent_id" gorm:"not null;uniqueIndex"`
	Status       string     `json:"status" gorm:"size:50;not null;default:'Unpaid';type:enum('Unpaid','Paid')"`
	MarkedPaidAt *time.Time `json:"marked_paid_at"`
	MarkedByID   uint       `json:"marked_by_id"`

	// Relationships
	Agent Agent `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
}
