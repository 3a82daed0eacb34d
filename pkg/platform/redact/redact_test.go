package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"empty", "", "***"},
		{"too short", "123", "***"},
		{"four chars", "1234", "***1234"},
		{"national number", "0612345678", "06***5678"},
		{"international number", "+33612345678", "+3***5678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskPhone(tt.phone))
		})
	}
}
