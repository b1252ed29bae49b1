package services

import (
	"strings"
	"testing"
	"time"

	"eduglobal_go/models"
)

func TestComputeInvoiceTotals(t *testing.T) {
	items := []InvoiceItemInput{
		{Description: "Application fee", Quantity: 1, UnitPrice: 600},
		{Description: "Courier charges", Quantity: 2, UnitPrice: 200},
	}

	cases := []struct {
		name          string
		discountType  string
		discountValue float64
		applyGST      bool
		gstPercentage float64
		want          InvoiceTotals
	}{
		{
			name:         "ten percent discount with GST",
			discountType: models.DiscountTypePercentage, discountValue: 10,
			applyGST: true, gstPercentage: 18,
			want: InvoiceTotals{Subtotal: 1000, DiscountAmount: 100, AfterDiscount: 900, GSTAmount: 162, Total: 1062},
		},
		{
			name:         "flat discount no GST",
			discountType: models.DiscountTypeFlat, discountValue: 250,
			want: InvoiceTotals{Subtotal: 1000, DiscountAmount: 250, AfterDiscount: 750, Total: 750},
		},
		{
			name:         "no discount no GST",
			discountType: models.DiscountTypeFlat, discountValue: 0,
			want: InvoiceTotals{Subtotal: 1000, AfterDiscount: 1000, Total: 1000},
		},
		{
			name:         "flat discount larger than subtotal clamps at zero",
			discountType: models.DiscountTypeFlat, discountValue: 2000,
			applyGST: true, gstPercentage: 18,
			want: InvoiceTotals{Subtotal: 1000, DiscountAmount: 2000, AfterDiscount: 0, GSTAmount: 0, Total: 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeInvoiceTotals(items, tc.discountType, tc.discountValue, tc.applyGST, tc.gstPercentage)
			if !almostEqual(got.Subtotal, tc.want.Subtotal) ||
				!almostEqual(got.DiscountAmount, tc.want.DiscountAmount) ||
				!almostEqual(got.AfterDiscount, tc.want.AfterDiscount) ||
				!almostEqual(got.GSTAmount, tc.want.GSTAmount) ||
				!almostEqual(got.Total, tc.want.Total) {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestComputeInvoiceTotalsDeterministic(t *testing.T) {
	items := []InvoiceItemInput{
		{Description: "Tuition deposit", Quantity: 1, UnitPrice: 1234.56},
	}

	first := ComputeInvoiceTotals(items, models.DiscountTypePercentage, 7.5, true, 18)
	for i := 0; i < 100; i++ {
		again := ComputeInvoiceTotals(items, models.DiscountTypePercentage, 7.5, true, 18)
		if again != first {
			t.Fatalf("iteration %d produced %+v, want %+v", i, again, first)
		}
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	at := time.UnixMilli(1756710123456)

	got := FormatInvoiceNumber("INV", at)
	if got != "INV-123456" {
		t.Errorf("FormatInvoiceNumber = %q, want INV-123456", got)
	}

	if !strings.HasPrefix(FormatInvoiceNumber("ACME", at), "ACME-") {
		t.Errorf("prefix not applied")
	}
}

func TestFormatInvoiceNumberPadding(t *testing.T) {
	// Millis ending in a small remainder must still render six digits
	at := time.UnixMilli(2000000000042)
	got := FormatInvoiceNumber("INV", at)
	if got != "INV-000042" {
		t.Errorf("FormatInvoiceNumber = %q, want INV-000042", got)
	}
}

func TestFormatInvoiceNumberCollisionWindow(t *testing.T) {
	// Same millisecond yields the same candidate; one millisecond apart differs
	at := time.UnixMilli(1756710123456)

	if FormatInvoiceNumber("INV", at) != FormatInvoiceNumber("INV", at) {
		t.Error("same instant should produce the same number")
	}
	if FormatInvoiceNumber("INV", at) == FormatInvoiceNumber("INV", at.Add(time.Millisecond)) {
		t.Error("adjacent milliseconds should produce different numbers")
	}
}
