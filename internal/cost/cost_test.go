package cost

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMoneyToken(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"1.5tr", 1_500_000},
		{"1,5tr", 1_500_000},
		{"1TR", 1_000_000},
		{"200k", 200_000},
		{"200K", 200_000},
		{"2.5k", 2_500},
		{"500kđ", 500_000},
		{"500,000đ", 500_000},
		{"500.000 ₫", 500_000},
		{"1.500.000", 1_500_000},
		{"750000 VND", 750_000},
		{"500.000 VNĐ", 500_000},
		{"500.000vnđ", 500_000},
		{"1_000_000", 1_000_000},
		{"12.5", 13},
		{"  300000  ", 300_000},
		{"", 0},
		{"abc", 0},
		{"tr", 0},
		{"1.2.3tr", 0},
		{"-500k", 0},
		{"inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMoneyToken(tt.raw))
		})
	}
}

func TestAggregate(t *testing.T) {
	items := []Item{
		{Content: "Xe đưa đón", CostToken: "500k"},
		{Content: "Ăn uống", CostToken: "1tr"},
		{Content: "Ghi chú", CostToken: "liên hệ"},
	}

	assert.Equal(t, int64(1_500_000), Aggregate(items))
	assert.Zero(t, Aggregate(nil))
}

func TestAggregate_Saturates(t *testing.T) {
	huge := Item{Content: "Thuê trực thăng", CostToken: "4000000000000tr"}
	assert.Equal(t, int64(4_000_000_000_000_000_000), ParseMoneyToken(huge.CostToken))

	total := Aggregate([]Item{huge, huge, huge})
	assert.Equal(t, int64(math.MaxInt64), total)
	assert.Positive(t, total)
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "1.500.000 ₫", FormatVND(1_500_000))
	assert.Equal(t, "0 ₫", FormatVND(0))
}
