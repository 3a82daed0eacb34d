package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil input", nil, nil},
		{"only blanks", []string{"", "  "}, nil},
		{"trims and keeps order", []string{"  b ", "a"}, []string{"b", "a"}},
		{"drops duplicates after trimming", []string{"a", " a", "b", "a "}, []string{"a", "b"}},
		{"is case sensitive", []string{"A", "a"}, []string{"A", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.input))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList("", ","))
	assert.Nil(t, SplitList(" , ", ","))
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"},
		SplitList("kafka-1:9092, kafka-2:9092,,kafka-1:9092", ","))
}
