package address

import (
	"time"

	"github.com/google/uuid"
)

const cacheTTL = 3 * time.Minute

func addressKey(id uuid.UUID) string {
	return "address:" + id.String()
}

func ownerAddressesKey(ownerID uuid.UUID) string {
	return "owner-addresses:" + ownerID.String()
}
