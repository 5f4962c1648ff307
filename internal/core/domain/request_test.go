package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveInstallmentAmount_RoundsHalfUp(t *testing.T) {
	cases := []struct {
		requested    string
		installments int
		want         string
	}{
		{"3000", 4, "750"},
		{"1000", 3, "333.33"},
		{"100", 7, "14.29"},
		{"0.01", 2, "0.01"},
	}
	for _, tc := range cases {
		got := DeriveInstallmentAmount(decimal.RequireFromString(tc.requested), tc.installments)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"%s / %d = %s, want %s", tc.requested, tc.installments, got, tc.want)
	}
}

func TestCountMedia(t *testing.T) {
	ext := &CarInspectionExtension{
		Media: []CarInspectionMedia{
			{Kind: FileImage},
			{Kind: FileImage},
			{Kind: FileVideo},
		},
	}

	images, videos := ext.CountMedia()

	assert.Equal(t, 2, images)
	assert.Equal(t, 1, videos)
}

func TestRequestTypeValid(t *testing.T) {
	for _, rt := range KnownRequestTypes {
		assert.True(t, rt.Valid(), string(rt))
	}
	assert.False(t, RequestType("VACATION").Valid())
}

func TestDisplayNameAr(t *testing.T) {
	assert.Equal(t, "فاتورة", TypeInvoice.DisplayNameAr())
	assert.Equal(t, "قيد الانتظار", StatusPending.DisplayNameAr())
	assert.Equal(t, "تمت الموافقة", StatusApproved.DisplayNameAr())
}
