package user

import (
	middle "healthwatch/internals/middleware"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, authMW *middle.AuthMiddleware) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.LogIn)
	r.Post("/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(authMW.Handle)

		r.Get("/me", h.GetProfile)
		r.Delete("/me", h.DeleteProfile)
		r.Get("/{userID}", h.GetUser)
	})

	return r
}

/*
- POST: /users/register  -> register user
	req auth : false
	body : RegisterRequest
	resp : RegisterResponse

- POST: /users/login   -> login user
	req auth : false
	body : LogInRequest
	resp : LogInResponse

- POST: /users/refresh   -> new token pair for a refresh token
	req auth : false
	body : RefreshRequest
	resp : LogInResponse

- GET: /users/me -> profile of the caller
	req auth : true
	resp : GetProfileResponse

- DELETE: /users/me -> delete the caller and their addresses
	req auth : true
	resp : 204, also when already deleted

- GET: /users/{userID} -> public view of a user
	req auth : true
	resp : GetUserResponse
*/
