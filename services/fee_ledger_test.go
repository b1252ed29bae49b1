package services

import (
	"testing"
	"time"

	"eduglobal_go/models"
)

func TestComputePaymentStatus(t *testing.T) {
	cases := []struct {
		name       string
		amountDue  float64
		amountPaid float64
		want       string
	}{
		{"nothing paid", 15000, 0, models.PaymentStatusPending},
		{"negative paid treated as pending", 15000, -1, models.PaymentStatusPending},
		{"partial payment", 15000, 7000, models.PaymentStatusPartial},
		{"one unit short", 15000, 14999, models.PaymentStatusPartial},
		{"exactly paid", 15000, 15000, models.PaymentStatusPaid},
		{"overpaid", 15000, 20000, models.PaymentStatusPaid},
		{"zero due and zero paid", 0, 0, models.PaymentStatusPending},
		{"zero due with payment", 0, 100, models.PaymentStatusPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputePaymentStatus(tc.amountDue, tc.amountPaid)
			if got != tc.want {
				t.Errorf("ComputePaymentStatus(%v, %v) = %q, want %q",
					tc.amountDue, tc.amountPaid, got, tc.want)
			}
		})
	}
}

func TestComputePaymentStatusScenario(t *testing.T) {
	// A 15000 charge paid in two installments of 7000 and 8000
	due := 15000.0

	if got := ComputePaymentStatus(due, 7000); got != models.PaymentStatusPartial {
		t.Errorf("after first installment: got %q, want partial", got)
	}
	if got := ComputePaymentStatus(due, 15000); got != models.PaymentStatusPaid {
		t.Errorf("after second installment: got %q, want paid", got)
	}
}

func TestResolveAmountDue(t *testing.T) {
	custom := 5000.0

	if got := ResolveAmountDue(15000, &custom); got != 5000 {
		t.Errorf("with customization: got %v, want 5000", got)
	}
	if got := ResolveAmountDue(15000, nil); got != 15000 {
		t.Errorf("without customization: got %v, want 15000", got)
	}
}

func TestCustomizationPropagation(t *testing.T) {
	// Tuition is listed at 15000; one student negotiated 5000. The override
	// must flow into that student's charge while everyone else stays at the
	// catalog amount, and the status rule must see the overridden due.
	custom := 5000.0
	discountedDue := ResolveAmountDue(15000, &custom)
	catalogDue := ResolveAmountDue(15000, nil)

	if discountedDue != 5000 {
		t.Fatalf("discounted due = %v, want 5000", discountedDue)
	}
	if catalogDue != 15000 {
		t.Fatalf("catalog due = %v, want 15000", catalogDue)
	}

	// A 5000 collection settles the discounted row but not a catalog row
	if got := ComputePaymentStatus(discountedDue, 5000); got != models.PaymentStatusPaid {
		t.Errorf("discounted student after 5000 payment: got %q, want paid", got)
	}
	if got := ComputePaymentStatus(catalogDue, 5000); got != models.PaymentStatusPartial {
		t.Errorf("catalog student after 5000 payment: got %q, want partial", got)
	}
}

func TestDaysOverdue(t *testing.T) {
	today := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		dueDate *time.Time
		want    int
	}{
		{"nil due date", nil, 0},
		{"due in the future", timePtr(today.AddDate(0, 0, 10)), 0},
		{"due today", timePtr(today), 0},
		{"ten days overdue", timePtr(today.AddDate(0, 0, -10)), 10},
		{"forty days overdue", timePtr(today.AddDate(0, 0, -40)), 40},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DaysOverdue(tc.dueDate, today)
			if got != tc.want {
				t.Errorf("DaysOverdue() = %d, want %d", got, tc.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
