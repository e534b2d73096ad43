package address

import (
	"context"
	"healthwatch/pkg/apperror"
	"healthwatch/pkg/db"
	"healthwatch/pkg/utils"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
)

const addressColumns = `id, owner_id, address, interval_minutes, last_status, next_check_at, created_at`

const (
	createAddressSQL = `INSERT INTO monitored_addresses (` + addressColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateAddressSQL = `UPDATE monitored_addresses
SET address = $2, interval_minutes = $3, last_status = $4, next_check_at = $5
WHERE id = $1`

	deleteAddressSQL = `DELETE FROM monitored_addresses WHERE id = $1`

	getAddressByIDSQL = `SELECT ` + addressColumns + ` FROM monitored_addresses WHERE id = $1`

	getAddressesByOwnerSQL = `SELECT ` + addressColumns + ` FROM monitored_addresses
WHERE owner_id = $1 ORDER BY created_at`

	getAddressByAddressAndOwnerSQL = `SELECT ` + addressColumns + ` FROM monitored_addresses
WHERE address = $1 AND owner_id = $2`

	getDueAddressesSQL = `SELECT ` + addressColumns + ` FROM monitored_addresses
WHERE next_check_at <= $1 ORDER BY next_check_at`
)

type Repository struct {
	db     db.DBTX
	logger *zerolog.Logger
}

func NewRepository(dbExecutor db.DBTX, logger *zerolog.Logger) *Repository {
	return &Repository{
		db:     dbExecutor,
		logger: logger,
	}
}

func (r *Repository) Create(ctx context.Context, m *MonitoredAddress) error {
	const op string = "repo.address.create"

	_, err := r.db.Exec(ctx, createAddressSQL,
		utils.ToPgUUID(m.ID),
		utils.ToPgUUID(m.OwnerID),
		m.Address,
		utils.ToPgInt4(m.IntervalMinutes),
		string(m.LastStatus),
		utils.ToPgTimestamptz(m.NextCheckAt),
		utils.ToPgTimestamptz(m.CreatedAt),
	)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, m *MonitoredAddress) error {
	const op string = "repo.address.update"

	tag, err := r.db.Exec(ctx, updateAddressSQL,
		utils.ToPgUUID(m.ID),
		m.Address,
		utils.ToPgInt4(m.IntervalMinutes),
		string(m.LastStatus),
		utils.ToPgTimestamptz(m.NextCheckAt),
	)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return &apperror.Error{Kind: apperror.NotFound, Op: op, Message: "address not found"}
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const op string = "repo.address.delete"

	tag, err := r.db.Exec(ctx, deleteAddressSQL, utils.ToPgUUID(id))
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return &apperror.Error{Kind: apperror.NotFound, Op: op, Message: "address not found"}
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*MonitoredAddress, error) {
	const op string = "repo.address.get_by_id"

	m, err := scanAddress(r.db.QueryRow(ctx, getAddressByIDSQL, utils.ToPgUUID(id)))
	if err != nil {
		return nil, utils.WrapRepoError(op, err, true, r.logger)
	}
	return m, nil
}

func (r *Repository) GetByAddressAndOwner(ctx context.Context, address string, ownerID uuid.UUID) (*MonitoredAddress, error) {
	const op string = "repo.address.get_by_address_and_owner"

	m, err := scanAddress(r.db.QueryRow(ctx, getAddressByAddressAndOwnerSQL, address, utils.ToPgUUID(ownerID)))
	if err != nil {
		return nil, utils.WrapRepoError(op, err, true, r.logger)
	}
	return m, nil
}

func (r *Repository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*MonitoredAddress, error) {
	const op string = "repo.address.get_by_owner"

	rows, err := r.db.Query(ctx, getAddressesByOwnerSQL, utils.ToPgUUID(ownerID))
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	out, err := collectAddresses(rows)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	return out, nil
}

// GetDue returns every address whose next check is at or before now, oldest first.
func (r *Repository) GetDue(ctx context.Context, now time.Time) ([]*MonitoredAddress, error) {
	const op string = "repo.address.get_due"

	rows, err := r.db.Query(ctx, getDueAddressesSQL, utils.ToPgTimestamptz(now))
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	out, err := collectAddresses(rows)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	return out, nil
}

func scanAddress(row pgx.Row) (*MonitoredAddress, error) {
	var (
		id, ownerID          pgtype.UUID
		address, status      string
		interval             pgtype.Int4
		nextCheck, createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &ownerID, &address, &interval, &status, &nextCheck, &createdAt); err != nil {
		return nil, err
	}

	return &MonitoredAddress{
		ID:              utils.FromPgUUID(id),
		OwnerID:         utils.FromPgUUID(ownerID),
		Address:         address,
		IntervalMinutes: utils.FromPgInt4(interval),
		LastStatus:      HealthStatus(status),
		NextCheckAt:     utils.FromPgTimestamptz(nextCheck),
		CreatedAt:       utils.FromPgTimestamptz(createdAt),
	}, nil
}

func collectAddresses(rows pgx.Rows) ([]*MonitoredAddress, error) {
	defer rows.Close()

	out := make([]*MonitoredAddress, 0)
	for rows.Next() {
		m, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
