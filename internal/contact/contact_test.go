package contact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/pizzeria-storefront/internal/store"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		form Form
		want Errors
	}{
		{"valid", Form{Name: "Ana", Email: "ana@example.com", Message: "Hi"}, Errors{}},
		{"valid phone", Form{Name: "Ana", Email: "ana@example.com", Phone: "+1 (555) 010-0000", Message: "Hi"}, Errors{}},
		{"empty", Form{}, Errors{Name: "Name is required", Email: "Email is required", Message: "Message is required"}},
		{"bad email", Form{Name: "Ana", Email: "ana @example.com", Message: "Hi"}, Errors{Email: "Please enter a valid email address"}},
		{"short phone", Form{Name: "Ana", Email: "ana@example.com", Phone: "555-0100", Message: "Hi"}, Errors{Phone: "Please enter a valid phone number"}},
		{"bad type", Form{Name: "Ana", Email: "ana@example.com", Message: "Hi", OrderType: "party"}, Errors{OrderType: "Please choose a valid option"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Validate(tc.form))
		})
	}
}

func TestSubmit(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st)

	m, err := svc.Submit(Form{Name: " Ana ", Email: "ana@example.com", Message: "Large order Friday"})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "Ana", m.Name)
	assert.Equal(t, OrderDelivery, m.OrderType)
	assert.False(t, m.ReceivedAt.IsZero())

	_, err = svc.Submit(Form{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	all, err := svc.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, m.ID, all[0].ID)
}
