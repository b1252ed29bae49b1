package services

import (
	"errors"
	"fmt"
	"time"

	"eduglobal_go/config"
	"eduglobal_go/database"
	"eduglobal_go/models"
	"eduglobal_go/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEmptyStudentSet   = errors.New("at least one student must be selected")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrStructureInactive = errors.New("fee structure is not active")
	ErrNoComponents      = errors.New("fee structure has no components")
	ErrAlreadyAssigned   = errors.New("fee structure already assigned to one or more selected students")
	ErrVersionConflict   = errors.New("payment row was modified concurrently, please retry")
)

// FeeLedgerService owns all mutations of the fee ledger: assignment
// materialization, payment collection and per-student customization.
type FeeLedgerService struct {
	db *gorm.DB
}

func NewFeeLedgerService() *FeeLedgerService {
	return &FeeLedgerService{db: database.DB}
}

// ComputePaymentStatus derives the payment status from the due/paid pair.
// The status column is always kept consistent with this function.
func ComputePaymentStatus(amountDue, amountPaid float64) string {
	switch {
	case amountPaid <= 0:
		return models.PaymentStatusPending
	case amountPaid < amountDue:
		return models.PaymentStatusPartial
	default:
		return models.PaymentStatusPaid
	}
}

// DaysOverdue counts whole days a due date lies in the past, clamped to 0
// for nil or future due dates.
func DaysOverdue(dueDate *time.Time, today time.Time) int {
	if dueDate == nil {
		return 0
	}
	days := int(today.Sub(*dueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ResolveAmountDue picks the charge for one (student, component) pair: a
// per-student customization, when present, overrides the catalog amount.
func ResolveAmountDue(componentAmount float64, customAmount *float64) float64 {
	if customAmount != nil {
		return *customAmount
	}
	return componentAmount
}

// AssignmentResult summarizes a structure assignment batch.
type AssignmentResult struct {
	StructureID     uint `json:"structure_id"`
	StudentsCovered int  `json:"students_covered"`
	LedgerRows      int  `json:"ledger_rows_created"`
	SkippedRows     int  `json:"skipped_rows"`
}

// AssignStructure binds a fee structure to the selected students, creating
// one ledger row per (student, component) pair that does not already exist.
// The whole batch runs in a single transaction so a mid-sequence failure
// cannot leave partial state. Behaviour for already-covered pairs follows
// the configured reassignment policy: "skip" ignores them, "error" rejects
// the whole batch.
func (s *FeeLedgerService) AssignStructure(structureID uint, studentIDs []uint, dueDate *time.Time) (*AssignmentResult, error) {
	if len(studentIDs) == 0 {
		return nil, ErrEmptyStudentSet
	}

	var structure models.FeeStructure
	if err := s.db.Preload("Components").First(&structure, structureID).Error; err != nil {
		return nil, fmt.Errorf("fee structure not found: %w", err)
	}
	if !structure.IsActive {
		return nil, ErrStructureInactive
	}
	if len(structure.Components) == 0 {
		return nil, ErrNoComponents
	}

	var studentCount int64
	if err := s.db.Model(&models.Student{}).Where("id IN ?", studentIDs).Count(&studentCount).Error; err != nil {
		return nil, err
	}
	if studentCount != int64(len(studentIDs)) {
		return nil, fmt.Errorf("unknown student in selection (%d of %d found)", studentCount, len(studentIDs))
	}

	componentIDs := make([]uint, 0, len(structure.Components))
	for _, comp := range structure.Components {
		componentIDs = append(componentIDs, comp.ID)
	}

	policy := config.AppConfig.FeeReassignPolicy
	result := &AssignmentResult{StructureID: structureID}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Existing ledger rows for the affected pairs
		var existing []models.FeePayment
		if err := tx.Where("student_id IN ? AND fee_structure_component_id IN ?", studentIDs, componentIDs).
			Find(&existing).Error; err != nil {
			return err
		}
		existingPairs := make(map[[2]uint]bool, len(existing))
		for _, p := range existing {
			existingPairs[[2]uint{p.StudentID, p.FeeStructureComponentID}] = true
		}
		if policy == "error" && len(existing) > 0 {
			return ErrAlreadyAssigned
		}

		// Per-student amount overrides
		var customizations []models.StudentFeeCustomization
		if err := tx.Where("student_id IN ? AND fee_structure_component_id IN ?", studentIDs, componentIDs).
			Find(&customizations).Error; err != nil {
			return err
		}
		customAmounts := make(map[[2]uint]float64, len(customizations))
		for _, cu := range customizations {
			customAmounts[[2]uint{cu.StudentID, cu.FeeStructureComponentID}] = cu.CustomAmount
		}

		// Assignment join rows already present
		var priorAssignments []models.StudentFeeAssignment
		if err := tx.Where("student_id IN ? AND fee_structure_id = ?", studentIDs, structureID).
			Find(&priorAssignments).Error; err != nil {
			return err
		}
		assigned := make(map[uint]bool, len(priorAssignments))
		for _, a := range priorAssignments {
			assigned[a.StudentID] = true
		}

		now := time.Now()
		for _, studentID := range studentIDs {
			createdForStudent := 0
			for _, comp := range structure.Components {
				pair := [2]uint{studentID, comp.ID}
				if existingPairs[pair] {
					result.SkippedRows++
					continue
				}

				var custom *float64
				if v, ok := customAmounts[pair]; ok {
					custom = &v
				}
				amountDue := ResolveAmountDue(comp.Amount, custom)

				payment := models.FeePayment{
					StudentID:               studentID,
					FeeStructureComponentID: comp.ID,
					AmountDue:               amountDue,
					AmountPaid:              0,
					DueDate:                 dueDate,
					PaymentStatus:           models.PaymentStatusPending,
				}
				if err := tx.Create(&payment).Error; err != nil {
					return err
				}
				createdForStudent++
			}

			result.LedgerRows += createdForStudent
			if !assigned[studentID] {
				assignment := models.StudentFeeAssignment{
					StudentID:      studentID,
					FeeStructureID: structureID,
					AssignedAt:     now,
				}
				if err := tx.Create(&assignment).Error; err != nil {
					return err
				}
				result.StudentsCovered++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"structure_id": structureID,
		"students":     len(studentIDs),
		"ledger_rows":  result.LedgerRows,
		"skipped":      result.SkippedRows,
	}).Info("Fee structure assigned")

	return result, nil
}

// UpdatePayment records a payment collection. newAmountPaid is the new
// cumulative total, not a delta. The row version is checked and incremented
// so two staff collecting for the same student cannot silently overwrite
// each other.
func (s *FeeLedgerService) UpdatePayment(paymentID uint, newAmountPaid float64) (*models.FeePayment, error) {
	if newAmountPaid < 0 {
		return nil, ErrNegativeAmount
	}

	var payment models.FeePayment
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"amount_paid":    newAmountPaid,
		"payment_status": ComputePaymentStatus(payment.AmountDue, newAmountPaid),
		"version":        payment.Version + 1,
	}
	if newAmountPaid > 0 {
		updates["last_payment_date"] = now
		if payment.ReceiptNumber == "" {
			if receipt, err := utils.GenerateReceiptNumber(now); err == nil {
				updates["receipt_number"] = receipt
			}
		}
	}

	res := s.db.Model(&models.FeePayment{}).
		Where("id = ? AND version = ?", payment.ID, payment.Version).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrVersionConflict
	}

	if err := s.db.Preload("Student").Preload("Component.FeeType").First(&payment, paymentID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// ApplyCustomAmount upserts a per-student override for one component and
// propagates the new amount to the matching ledger row in the same
// transaction, keeping amount_due consistent with the latest customization.
func (s *FeeLedgerService) ApplyCustomAmount(studentID, componentID uint, customAmount float64, reason string) (*models.StudentFeeCustomization, error) {
	if customAmount < 0 {
		return nil, ErrNegativeAmount
	}

	var component models.FeeStructureComponent
	if err := s.db.First(&component, componentID).Error; err != nil {
		return nil, fmt.Errorf("fee structure component not found: %w", err)
	}

	var customization models.StudentFeeCustomization
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND fee_structure_component_id = ?", studentID, componentID).
			First(&customization).Error
		switch {
		case err == nil:
			customization.CustomAmount = customAmount
			customization.Reason = reason
			if err := tx.Save(&customization).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			customization = models.StudentFeeCustomization{
				StudentID:               studentID,
				FeeStructureComponentID: componentID,
				CustomAmount:            customAmount,
				Reason:                  reason,
			}
			if err := tx.Create(&customization).Error; err != nil {
				return err
			}
		default:
			return err
		}

		// Propagate to the ledger row, if one was already materialized
		var payment models.FeePayment
		err = tx.Where("student_id = ? AND fee_structure_component_id = ?", studentID, componentID).
			First(&payment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // assignment will pick the override up later
		}
		if err != nil {
			return err
		}

		return tx.Model(&payment).Updates(map[string]interface{}{
			"amount_due":     customAmount,
			"payment_status": ComputePaymentStatus(customAmount, payment.AmountPaid),
			"version":        payment.Version + 1,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &customization, nil
}
