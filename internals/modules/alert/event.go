package alert

import (
	"healthwatch/internals/modules/address"
	"time"

	"github.com/google/uuid"
)

const EventStatusChanged = "address.status_changed"

// StatusChanged is raised once per detected health transition.
type StatusChanged struct {
	OwnerID    uuid.UUID            `json:"owner_id"`
	Address    string               `json:"address"`
	Status     address.HealthStatus `json:"status"`
	ObservedAt time.Time            `json:"observed_at"`
}
