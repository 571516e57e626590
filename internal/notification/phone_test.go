package notification

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"0812-3456-7890", "6281234567890", true},
		{"+62 812 3456 7890", "6281234567890", true},
		{"6281234567890", "6281234567890", true},
		{"0812", "", false},
		{"", "", false},
		{"abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizePhone(tt.raw, "62", 10)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoneyFormatter(t *testing.T) {
	f := NewMoneyFormatter("id", "Rp")

	assert.Equal(t, "Rp 150.000", f.Format(decimal.NewFromInt(150000)))
	assert.Equal(t, "Rp 0", f.Format(decimal.Zero))
	assert.Equal(t, "Rp 1.250,50", f.Format(decimal.RequireFromString("1250.5")))

	bare := NewMoneyFormatter("en", "")
	assert.Equal(t, "1,500", bare.Format(decimal.NewFromInt(1500)))
}

func TestMoneyFormatter_UnknownLocaleFallsBack(t *testing.T) {
	f := NewMoneyFormatter("!!", "Rp")
	assert.Equal(t, "Rp 2.000", f.Format(decimal.NewFromInt(2000)))
}
