package address

type CreateAddressRequest struct {
	Address         string `json:"address" validate:"required"`
	IntervalMinutes int    `json:"interval_minutes" validate:"required,gte=1,lte=1440"`
}

type UpdateAddressRequest struct {
	Address         string `json:"address" validate:"required"`
	IntervalMinutes int    `json:"interval_minutes" validate:"required,gte=1,lte=1440"`
}

type ListAddressesResponse struct {
	OwnerID   string        `json:"owner_id"`
	Addresses []AddressView `json:"addresses"`
}
