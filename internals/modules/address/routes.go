package address

import (
	middle "healthwatch/internals/middleware"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, authMW *middle.AuthMiddleware) chi.Router {
	r := chi.NewRouter()
	r.Use(authMW.Handle)

	r.Post("/", h.CreateAddress)
	r.Get("/", h.ListAddresses)
	r.Get("/{addressID}", h.GetAddress)
	r.Put("/{addressID}", h.UpdateAddress)
	r.Delete("/{addressID}", h.DeleteAddress)

	return r
}

/*
- POST: /addresses  -> register an address to watch
	req auth : true
	body : CreateAddressRequest
	resp : AddressView

- GET: /addresses   -> every address of the caller
	req auth : true
	resp : ListAddressesResponse

- GET: /addresses/{addressID} -> one address
	req auth : true
	resp : AddressView

- PUT: /addresses/{addressID} -> change url and interval
	req auth : true
	body : UpdateAddressRequest
	resp : AddressView

- DELETE: /addresses/{addressID} -> stop watching
	req auth : true
	resp : 204
*/
