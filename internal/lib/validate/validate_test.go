package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

func TestNew_CustomTags(t *testing.T) {
	v := New()

	type sample struct {
		RUN    string `validate:"run"`
		Phone  string `validate:"omitempty,phone"`
		Status string `validate:"omitempty,order_status"`
		Role   string `validate:"omitempty,role"`
	}

	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{name: "valid formatted run", in: sample{RUN: "12.345.678-5"}},
		{name: "valid raw run", in: sample{RUN: "123456785"}},
		{name: "bad check digit", in: sample{RUN: "12.345.678-0"}, wantErr: true},
		{name: "valid phone", in: sample{RUN: "12.345.678-5", Phone: "+56 9 1234-5678"}},
		{name: "invalid phone", in: sample{RUN: "12.345.678-5", Phone: "call me"}, wantErr: true},
		{name: "valid status", in: sample{RUN: "12.345.678-5", Status: models.StatusShipped}},
		{name: "invalid status", in: sample{RUN: "12.345.678-5", Status: "Perdido"}, wantErr: true},
		{name: "valid role", in: sample{RUN: "12.345.678-5", Role: models.RoleVendor}},
		{name: "invalid role", in: sample{RUN: "12.345.678-5", Role: "admin"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	v := New()
	err := v.Struct(models.DummyContact{Email: "not-an-email"})
	require.Error(t, err)

	msg := Message(err)
	assert.Contains(t, msg, "field name is required")
	assert.Contains(t, msg, "field email is not a valid email")
	assert.Contains(t, msg, "field subject is required")
	assert.Contains(t, msg, ", ")

	assert.Equal(t, "boom", Message(errors.New("boom")))
}
