package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"nil ports", nil, ErrInvalidPorts},
		{"missing answer", &Ports{Collections: &MockCollectionService{}}, ErrMissingAnswerService},
		{"answer only", &Ports{Answer: &MockAnswerService{}}, nil},
		{"all ports", &Ports{Answer: &MockAnswerService{}, Collections: &MockCollectionService{}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
