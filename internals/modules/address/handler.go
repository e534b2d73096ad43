package address

import (
	"context"
	"encoding/json"
	middle "healthwatch/internals/middleware"
	"healthwatch/pkg/apperror"
	"healthwatch/pkg/utils"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service, validator *validator.Validate) *Handler {
	return &Handler{
		service:   service,
		validator: validator,
	}
}

func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	authUser, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	var req CreateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.FromAppError(w, reqID, invalidRequest(err))
		return
	}

	view, err := h.service.Create(ctx, CreateAddressCmd{
		OwnerID:         authUser.UserID,
		Address:         req.Address,
		IntervalMinutes: req.IntervalMinutes,
	})
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, reqID, utils.AddressCreated, view)
}

func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	authUser, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	views, err := h.service.ListByOwner(ctx, authUser.UserID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.AddressesListed, ListAddressesResponse{
		OwnerID:   authUser.UserID.String(),
		Addresses: views,
	})
}

func (h *Handler) GetAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	authUser, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	addressID, err := uuid.Parse(chi.URLParam(r, "addressID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid address id")
		return
	}

	view, err := h.owned(ctx, authUser.UserID, addressID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.AddressFetched, view)
}

func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	authUser, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	addressID, err := uuid.Parse(chi.URLParam(r, "addressID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid address id")
		return
	}

	var req UpdateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.FromAppError(w, reqID, invalidRequest(err))
		return
	}

	if _, err := h.owned(ctx, authUser.UserID, addressID); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	view, err := h.service.Update(ctx, UpdateAddressCmd{
		ID:              addressID,
		Address:         req.Address,
		IntervalMinutes: req.IntervalMinutes,
	})
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.AddressUpdated, view)
}

// DELETE is idempotent: an unknown id answers 204 like a successful delete.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	authUser, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	addressID, err := uuid.Parse(chi.URLParam(r, "addressID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid address id")
		return
	}

	if _, err := h.owned(ctx, authUser.UserID, addressID); err != nil && !apperror.IsKind(err, apperror.NotFound) {
		utils.FromAppError(w, reqID, err)
		return
	}

	if err := h.service.Delete(ctx, addressID); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) owned(ctx context.Context, ownerID, addressID uuid.UUID) (AddressView, error) {
	view, err := h.service.GetByID(ctx, addressID)
	if err != nil {
		return AddressView{}, err
	}
	if view.OwnerID != ownerID {
		return AddressView{}, &apperror.Error{
			Kind:    apperror.Forbidden,
			Op:      "handler.address.owned",
			Message: "address belongs to another owner",
		}
	}
	return view, nil
}

func invalidRequest(err error) error {
	return &apperror.Error{
		Kind:    apperror.InvalidInput,
		Op:      "handler.address.decode",
		Err:     err,
		Message: "invalid request",
		Fields:  utils.ValidationFields(err),
	}
}
