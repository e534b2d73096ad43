package address

import (
	"healthwatch/pkg/apperror"
	"time"

	"github.com/google/uuid"
)

type HealthStatus string

const (
	StatusUp          HealthStatus = "UP"
	StatusDown        HealthStatus = "DOWN"
	StatusUnreachable HealthStatus = "UNREACHABLE"
)

func (s HealthStatus) Valid() bool {
	switch s {
	case StatusUp, StatusDown, StatusUnreachable:
		return true
	}
	return false
}

// MonitoredAddress is one web address an owner asked us to watch.
//
// IntervalMinutes is always > 0 and NextCheckAt is the last mutation time
// plus the interval. UpdateInterval does not move NextCheckAt; callers follow
// it with AdvanceNextCheck.
type MonitoredAddress struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Address         string
	IntervalMinutes int
	LastStatus      HealthStatus
	NextCheckAt     time.Time
	CreatedAt       time.Time
}

func NewMonitoredAddress(ownerID uuid.UUID, address string, intervalMinutes int, now time.Time) (*MonitoredAddress, error) {
	const op string = "domain.address.new"

	if ownerID == uuid.Nil {
		return nil, invalid(op, "owner_id", "owner is required")
	}
	if address == "" {
		return nil, invalid(op, "address", "address is required")
	}
	if intervalMinutes <= 0 {
		return nil, invalid(op, "interval_minutes", "interval must be positive")
	}

	return &MonitoredAddress{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Address:         address,
		IntervalMinutes: intervalMinutes,
		LastStatus:      StatusUp,
		NextCheckAt:     now.Add(time.Duration(intervalMinutes) * time.Minute),
		CreatedAt:       now,
	}, nil
}

func (m *MonitoredAddress) UpdateAddress(address string) error {
	if address == "" {
		return invalid("domain.address.update_address", "address", "address is required")
	}
	m.Address = address
	return nil
}

func (m *MonitoredAddress) UpdateInterval(minutes int) error {
	if minutes <= 0 {
		return invalid("domain.address.update_interval", "interval_minutes", "interval must be positive")
	}
	m.IntervalMinutes = minutes
	return nil
}

func (m *MonitoredAddress) UpdateStatus(status HealthStatus) {
	m.LastStatus = status
}

func (m *MonitoredAddress) AdvanceNextCheck(now time.Time) {
	m.NextCheckAt = now.Add(time.Duration(m.IntervalMinutes) * time.Minute)
}

// AddressView is the projection handed out by the service and stored in the cache.
type AddressView struct {
	ID              uuid.UUID    `json:"id"`
	OwnerID         uuid.UUID    `json:"owner_id"`
	Address         string       `json:"address"`
	LastStatus      HealthStatus `json:"last_status"`
	IntervalMinutes int          `json:"interval_minutes"`
}

func (m *MonitoredAddress) View() AddressView {
	return AddressView{
		ID:              m.ID,
		OwnerID:         m.OwnerID,
		Address:         m.Address,
		LastStatus:      m.LastStatus,
		IntervalMinutes: m.IntervalMinutes,
	}
}

type CreateAddressCmd struct {
	OwnerID         uuid.UUID `json:"owner_id" validate:"required"`
	Address         string    `json:"address" validate:"required"`
	IntervalMinutes int       `json:"interval_minutes" validate:"gte=1,lte=1440"`
}

type UpdateAddressCmd struct {
	ID              uuid.UUID `json:"id" validate:"required"`
	Address         string    `json:"address" validate:"required"`
	IntervalMinutes int       `json:"interval_minutes" validate:"gte=1,lte=1440"`
}

func invalid(op, field, reason string) error {
	return &apperror.Error{
		Kind:    apperror.InvalidInput,
		Op:      op,
		Message: "invalid address",
		Fields:  map[string]string{field: reason},
	}
}
