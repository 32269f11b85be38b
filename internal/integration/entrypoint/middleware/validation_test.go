package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationSample struct {
	Name      string   `json:"name" binding:"required"`
	UPIID     string   `json:"upiId" binding:"omitempty,upi"`
	SplitType string   `json:"splitType" binding:"required,splittype"`
	Members   []string `json:"members" binding:"required,min=1"`
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	tests := []struct {
		name    string
		sample  validationSample
		wantErr string
	}{
		{
			name:   "valid",
			sample: validationSample{Name: "Trip", UPIID: "alice@okhdfc", SplitType: "equal", Members: []string{"a"}},
		},
		{
			name:   "empty upi is allowed",
			sample: validationSample{Name: "Trip", SplitType: "percentage", Members: []string{"a"}},
		},
		{
			name:    "bad upi",
			sample:  validationSample{Name: "Trip", UPIID: "not-an-upi", SplitType: "equal", Members: []string{"a"}},
			wantErr: "upiId: invalid UPI id",
		},
		{
			name:    "bad split type",
			sample:  validationSample{Name: "Trip", SplitType: "shares", Members: []string{"a"}},
			wantErr: "splitType: must be equal or percentage",
		},
		{
			name:    "missing fields",
			sample:  validationSample{SplitType: "equal", Members: []string{}},
			wantErr: "name: is required; members: must have at least 1 entries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.sample)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, DescribeBindingError(err))
		})
	}
}

func TestDescribeBindingError_Malformed(t *testing.T) {
	assert.Equal(t, "malformed JSON body", DescribeBindingError(assert.AnError))
}
