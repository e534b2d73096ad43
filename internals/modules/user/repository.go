package user

import (
	"context"
	"healthwatch/pkg/db"
	"healthwatch/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
)

const (
	createUserSQL = `INSERT INTO users (name, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id`

	getUserByIDSQL = `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`

	getUserByEmailSQL = `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`

	userExistsSQL = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	deleteUserSQL = `DELETE FROM users WHERE id = $1`
)

type repository struct {
	db     db.DBTX
	logger *zerolog.Logger
}

func NewRepository(dbExecutor db.DBTX, logger *zerolog.Logger) *repository {
	return &repository{
		db:     dbExecutor,
		logger: logger,
	}
}

// CreateUser reports a taken email as apperror.BusinessRule.
func (r *repository) CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	const op string = "repo.user.create_user"

	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, createUserSQL, name, email, passwordHash).Scan(&id); err != nil {
		return uuid.UUID{}, utils.WrapRepoError(op, err, false, r.logger)
	}
	return utils.FromPgUUID(id), nil
}

func (r *repository) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	const op string = "repo.user.get_user_by_id"

	u, err := scanUser(r.db.QueryRow(ctx, getUserByIDSQL, utils.ToPgUUID(userID)))
	if err != nil {
		return User{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return u, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const op string = "repo.user.get_user_by_email"

	u, err := scanUser(r.db.QueryRow(ctx, getUserByEmailSQL, email))
	if err != nil {
		return User{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return u, nil
}

func (r *repository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	const op string = "repo.user.exists"

	var ok bool
	if err := r.db.QueryRow(ctx, userExistsSQL, utils.ToPgUUID(userID)).Scan(&ok); err != nil {
		return false, utils.WrapRepoError(op, err, false, r.logger)
	}
	return ok, nil
}

// DeleteUser succeeds whether or not the row existed. Addresses go with it
// through ON DELETE CASCADE.
func (r *repository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	const op string = "repo.user.delete_user"

	if _, err := r.db.Exec(ctx, deleteUserSQL, utils.ToPgUUID(userID)); err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id        pgtype.UUID
		u         User
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		return User{}, err
	}
	u.ID = utils.FromPgUUID(id)
	u.CreatedAt = utils.FromPgTimestamptz(createdAt)
	return u, nil
}
