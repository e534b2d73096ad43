package address

import (
	"context"
	"healthwatch/pkg/apperror"
	"healthwatch/pkg/cache"
	"healthwatch/pkg/utils"
	"net/url"

	"github.com/benbjohnson/clock"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is the durable side of the service. Absent rows come back as
// apperror.NotFound.
type Store interface {
	Create(ctx context.Context, m *MonitoredAddress) error
	Update(ctx context.Context, m *MonitoredAddress) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*MonitoredAddress, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*MonitoredAddress, error)
	GetByAddressAndOwner(ctx context.Context, address string, ownerID uuid.UUID) (*MonitoredAddress, error)
}

type OwnerDirectory interface {
	Exists(ctx context.Context, ownerID uuid.UUID) (bool, error)
}

type Service struct {
	store     Store
	cache     *cache.Cache
	owners    OwnerDirectory
	validator *validator.Validate
	clock     clock.Clock
	logger    *zerolog.Logger
}

func NewService(store Store, c *cache.Cache, owners OwnerDirectory, v *validator.Validate, clk clock.Clock, logger *zerolog.Logger) *Service {
	return &Service{
		store:     store,
		cache:     c,
		owners:    owners,
		validator: v,
		clock:     clk,
		logger:    logger,
	}
}

func (s *Service) Create(ctx context.Context, cmd CreateAddressCmd) (AddressView, error) {
	const op string = "service.address.create"

	if err := s.validate(op, cmd, cmd.Address); err != nil {
		return AddressView{}, err
	}

	exists, err := s.owners.Exists(ctx, cmd.OwnerID)
	if err != nil {
		return AddressView{}, err
	}
	if !exists {
		return AddressView{}, &apperror.Error{Kind: apperror.NotFound, Op: op, Message: "owner not found"}
	}

	if err := s.ensureUnique(ctx, op, cmd.Address, cmd.OwnerID, uuid.Nil); err != nil {
		return AddressView{}, err
	}

	m, err := NewMonitoredAddress(cmd.OwnerID, cmd.Address, cmd.IntervalMinutes, s.clock.Now())
	if err != nil {
		return AddressView{}, err
	}
	if err := s.store.Create(ctx, m); err != nil {
		return AddressView{}, err
	}

	s.cache.Remove(ctx, ownerAddressesKey(m.OwnerID))

	s.logger.Info().
		Str("address_id", m.ID.String()).
		Str("owner_id", m.OwnerID.String()).
		Str("address", m.Address).
		Msg("address registered")

	return m.View(), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (AddressView, error) {
	key := addressKey(id)
	if view, ok := cache.Get[AddressView](ctx, s.cache, key); ok {
		return view, nil
	}

	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return AddressView{}, err
	}

	view := m.View()
	s.cache.Set(ctx, key, view, cacheTTL)
	return view, nil
}

// ListByOwner never reports NotFound; an owner without addresses gets an
// empty slice, which is not cached.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]AddressView, error) {
	key := ownerAddressesKey(ownerID)
	if views, ok := cache.Get[[]AddressView](ctx, s.cache, key); ok {
		return views, nil
	}

	records, err := s.store.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]AddressView, 0, len(records))
	for _, m := range records {
		views = append(views, m.View())
	}
	if len(views) > 0 {
		s.cache.Set(ctx, key, views, cacheTTL)
	}
	return views, nil
}

func (s *Service) Update(ctx context.Context, cmd UpdateAddressCmd) (AddressView, error) {
	const op string = "service.address.update"

	if err := s.validate(op, cmd, cmd.Address); err != nil {
		return AddressView{}, err
	}

	m, err := s.store.GetByID(ctx, cmd.ID)
	if err != nil {
		return AddressView{}, err
	}

	if m.Address != cmd.Address {
		if err := s.ensureUnique(ctx, op, cmd.Address, m.OwnerID, m.ID); err != nil {
			return AddressView{}, err
		}
	}

	if err := m.UpdateAddress(cmd.Address); err != nil {
		return AddressView{}, err
	}
	if err := m.UpdateInterval(cmd.IntervalMinutes); err != nil {
		return AddressView{}, err
	}
	m.AdvanceNextCheck(s.clock.Now())

	if err := s.store.Update(ctx, m); err != nil {
		return AddressView{}, err
	}

	s.cache.Remove(ctx, ownerAddressesKey(m.OwnerID), addressKey(m.ID))

	return m.View(), nil
}

// Delete is a no-op for an unknown id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperror.IsKind(err, apperror.NotFound) {
			return nil
		}
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil && !apperror.IsKind(err, apperror.NotFound) {
		return err
	}

	s.cache.Remove(ctx, addressKey(id), ownerAddressesKey(m.OwnerID))

	s.logger.Info().Str("address_id", id.String()).Msg("address removed")
	return nil
}

// RemoveOwner deletes every address ownerID watches and drops their cached
// views along with the owner's list. An owner with nothing registered is a no-op.
func (s *Service) RemoveOwner(ctx context.Context, ownerID uuid.UUID) error {
	records, err := s.store.GetByOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(records)+1)
	keys = append(keys, ownerAddressesKey(ownerID))
	for _, m := range records {
		if err := s.store.Delete(ctx, m.ID); err != nil && !apperror.IsKind(err, apperror.NotFound) {
			return err
		}
		keys = append(keys, addressKey(m.ID))
	}

	s.cache.Remove(ctx, keys...)

	if len(records) > 0 {
		s.logger.Info().
			Str("owner_id", ownerID.String()).
			Int("addresses", len(records)).
			Msg("owner addresses removed")
	}
	return nil
}

func (s *Service) validate(op string, cmd any, address string) error {
	if err := s.validator.Struct(cmd); err != nil {
		return &apperror.Error{
			Kind:    apperror.InvalidInput,
			Op:      op,
			Err:     err,
			Message: "invalid request",
			Fields:  utils.ValidationFields(err),
		}
	}

	if !isWebAddress(address) {
		return &apperror.Error{
			Kind:    apperror.BusinessRule,
			Op:      op,
			Message: "address must be an absolute http or https url",
		}
	}
	return nil
}

// ensureUnique rejects address if the owner already watches it under an id
// other than self.
func (s *Service) ensureUnique(ctx context.Context, op, address string, ownerID, self uuid.UUID) error {
	existing, err := s.store.GetByAddressAndOwner(ctx, address, ownerID)
	switch {
	case err == nil && existing.ID != self:
		return &apperror.Error{
			Kind:    apperror.BusinessRule,
			Op:      op,
			Message: "address already registered for this owner",
		}
	case err != nil && !apperror.IsKind(err, apperror.NotFound):
		return err
	}
	return nil
}

func isWebAddress(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
