package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price    float64
		expected string
	}{
		{0, "0.00"},
		{9.99, "9.99"},
		{10, "10.00"},
		{4.5, "4.50"},
		{1999.999, "2000.00"},
		{0.125, "0.13"},
		{1.005, "1.00"},
		{9.995, "9.99"},
		{2.675, "2.67"},
		{1.015, "1.01"},
		{0.5, "0.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatPrice(tt.price))
	}
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Beauty", CategoryLabel("beauty"))
	assert.Equal(t, "Mens-shirts", CategoryLabel("mens-shirts"))
	assert.Equal(t, "Électronique", CategoryLabel("électronique"))
	assert.Equal(t, "", CategoryLabel(""))
}
