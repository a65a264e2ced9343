package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	reservationModel "hotel-broker/models/reservation"
	userModel "hotel-broker/models/user"
)

func strPtr(s string) *string { return &s }

func TestCanAccessReservation(t *testing.T) {
	res := &reservationModel.Reservation{UserID: 42, AgencyID: strPtr("A1")}
	direct := &reservationModel.Reservation{UserID: 42}

	tests := []struct {
		name  string
		actor Actor
		res   *reservationModel.Reservation
		want  bool
	}{
		{"admin sees everything", Actor{UserID: 1, Role: userModel.RoleAdmin}, res, true},
		{"agency sees own agency", Actor{UserID: 2, Role: userModel.RoleAgency, AgencyID: strPtr("A1")}, res, true},
		{"agency blocked from other agency", Actor{UserID: 2, Role: userModel.RoleAgency, AgencyID: strPtr("A2")}, res, false},
		{"agency blocked from direct booking", Actor{UserID: 2, Role: userModel.RoleAgency, AgencyID: strPtr("A1")}, direct, false},
		{"customer sees own booking", Actor{UserID: 42, Role: userModel.RoleCustomer}, direct, true},
		{"customer blocked from others", Actor{UserID: 7, Role: userModel.RoleCustomer}, direct, false},
		{"unknown role blocked", Actor{UserID: 42, Role: "auditor"}, direct, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessReservation(tt.actor, tt.res))
		})
	}
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, Actor{Role: userModel.RoleAdmin}.IsAdmin())
	assert.False(t, Actor{Role: userModel.RoleAgency}.IsAdmin())
	assert.False(t, Actor{Role: userModel.RoleCustomer}.IsAdmin())
}
