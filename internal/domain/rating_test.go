package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundHalfStep(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.0, 1.0},
		{3.2, 3.0},
		{3.25, 3.5},
		{3.3, 3.5},
		{3.5, 3.5},
		{4.74, 4.5},
		{4.75, 5.0},
		{5.0, 5.0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundHalfStep(tt.in), "RoundHalfStep(%v)", tt.in)
	}
}

func TestValidRating(t *testing.T) {
	assert.True(t, ValidRating(1))
	assert.True(t, ValidRating(3.5))
	assert.True(t, ValidRating(5))
	assert.False(t, ValidRating(0.5))
	assert.False(t, ValidRating(0))
	assert.False(t, ValidRating(5.5))
	assert.False(t, ValidRating(-1))
}

func TestSniffImageType(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	webp := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00, 'W', 'E', 'B', 'P')
	gif := []byte("GIF89a")

	assert.Equal(t, "image/jpeg", SniffImageType(jpeg))
	assert.Equal(t, "image/png", SniffImageType(png))
	assert.Equal(t, "image/webp", SniffImageType(webp))
	assert.Equal(t, "", SniffImageType(gif))
	assert.Equal(t, "", SniffImageType([]byte{0x00}))
	assert.Equal(t, "", SniffImageType(nil))
}
