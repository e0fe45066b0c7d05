package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "owner@example.com", false},
		{"valid with display form", "somchai@ร้าน.example", false},
		{"empty", "", true},
		{"no at sign", "not-an-email", true},
		{"too long", strings.Repeat("a", 250) + "@x.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret123"))
	assert.Error(t, ValidatePassword("abc"))
	assert.Error(t, ValidatePassword(strings.Repeat("p", 73)))
	assert.NoError(t, ValidatePassword(strings.Repeat("p", 72)))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("somchai"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("  "))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername(strings.Repeat("u", 31)))
}
