package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model covers all back-office staff accounts
type User struct {
	BaseModel
	Username             string     `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password             string     `json:"-" gorm:"size:255;not null"`
	Email                string     `json:"email" gorm:"size:255;uniqueIndex"`
	Phone                string     `json:"phone" gorm:"size:20"`
	Role                 string     `json:"role" gorm:"size:50;not null;default:'counselor';type:enum('owner','admin','accountant','counselor')"` // owner, admin, accountant, counselor
	Country              string     `json:"country" gorm:"size:100"`
	Status               string     `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"` // active, inactive, suspended
	Avatar               string     `json:"avatar" gorm:"size:500"`
	PasswordResetByAdmin bool       `json:"-" gorm:"default:false"`
	LastLoginAt          *time.Time `json:"last_login_at"`
}

// University model
type University struct {
	BaseModel
	Name     string `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Code     string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Country  string `json:"country" gorm:"size:100"`
	City     string `json:"city" gorm:"size:100"`
	Website  string `json:"website" gorm:"size:255"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	Courses []Course `json:"courses,omitempty" gorm:"foreignKey:UniversityID"`
	Hostels []Hostel `json:"hostels,omitempty" gorm:"foreignKey:UniversityID"`
}

// Course model
type Course struct {
	BaseModel
	Name          string `json:"name" gorm:"size:255;not null"`
	Code          string `json:"code" gorm:"size:100;uniqueIndex"`
	UniversityID  uint   `json:"university_id" gorm:"not null;index"`
	DurationYears int    `json:"duration_years"`
	Description   string `json:"description" gorm:"type:text"`
	IsActive      bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	University University `json:"university,omitempty" gorm:"foreignKey:UniversityID"`
}

// AcademicSession model, e.g. "2024-2025"
type AcademicSession struct {
	BaseModel
	Name      string     `json:"name" gorm:"size:100;not null;uniqueIndex"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`
}

// Agent model. Agents refer students and earn a percentage of the fees
// those students actually pay.
type Agent struct {
	BaseModel
	Name           string  `json:"name" gorm:"size:200;not null"`
	Email          string  `json:"email" gorm:"size:255;uniqueIndex"`
	Phone          string  `json:"phone" gorm:"size:20"`
	Country        string  `json:"country" gorm:"size:100"`
	CommissionRate float64 `json:"commission_rate" gorm:"not null;default:0"` // percentage
	IsActive       bool    `json:"is_active" gorm:"default:true"`

	// Relationships
	Students []Student `json:"students,omitempty" gorm:"foreignKey:AgentID"`
}

// Hostel model
type Hostel struct {
	BaseModel
	Name         string `json:"name" gorm:"size:200;not null"`
	UniversityID uint   `json:"university_id" gorm:"index"`
	Address      string `json:"address" gorm:"size:500"`
	Capacity     int    `json:"capacity"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	University University `json:"university,omitempty" gorm:"foreignKey:UniversityID"`
}

// Student is the aggregation root for the fee ledger: every FeePayment row
// belongs to exactly one student.
type Student struct {
	BaseModel
	AdmissionNumber   string     `json:"admission_number" gorm:"size:50;not null;uniqueIndex"`
	FirstName         string     `json:"first_name" gorm:"size:100;not null"`
	LastName          string     `json:"last_name" gorm:"size:100"`
	Email             string     `json:"email" gorm:"size:255"`
	Phone             string     `json:"phone" gorm:"size:20"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	Gender            string     `json:"gender" gorm:"size:20"`
	Address           string     `json:"address" gorm:"size:500"`
	PassportNumber    string     `json:"passport_number" gorm:"size:50"`
	Batch             string     `json:"batch" gorm:"size:50"`
	UniversityID      uint       `json:"university_id" gorm:"index"`
	CourseID          uint       `json:"course_id" gorm:"index"`
	AcademicSessionID uint       `json:"academic_session_id" gorm:"index"`
	AgentID           uint       `json:"agent_id" gorm:"index"`
	HostelID          uint       `json:"hostel_id" gorm:"index"`
	Status            string     `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','graduated','withdrawn')"` // active, inactive, graduated, withdrawn
	GuardianName      string     `json:"guardian_name" gorm:"size:200"`
	GuardianPhone     string     `json:"guardian_phone" gorm:"size:20"`
	Documents         JSON       `json:"documents" gorm:"type:json"` // uploaded document URLs keyed by document type
	Notes             string     `json:"notes" gorm:"type:text"`

	// Relationships
	University      University      `json:"university,omitempty" gorm:"foreignKey:UniversityID"`
	Course          Course          `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	AcademicSession AcademicSession `json:"academic_session,omitempty" gorm:"foreignKey:AcademicSessionID"`
	Agent           Agent           `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
	Hostel          Hostel          `json:"hostel,omitempty" gorm:"foreignKey:HostelID"`
	FeePayments     []FeePayment    `json:"fee_payments,omitempty" gorm:"foreignKey:StudentID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"` // info, warning, error, success
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
