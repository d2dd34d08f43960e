package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/db/models/postgres/public/table"
	"kiwiledger/internal/ledger"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	Find(tx Tx, username string) (*model.UserAccount, error)
	List(tx Tx) ([]model.UserAccount, error)
	Create(tx Tx, user model.UserAccount) (*model.UserAccount, error)
	Delete(tx Tx, username string) error
	UpdateBalance(tx Tx, userID int32, balance decimal.Decimal) error
	UpdateRole(tx Tx, username string, role model.UserRole) error
	UpdatePassword(tx Tx, username string, digest string) error
	CountAdmins(tx Tx) (int64, error)
}

type userRepositoryHandler struct {
	Db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return userRepositoryHandler{Db: db}
}

// Find returns nil without error when the user does not exist; existence
// policy belongs to the caller.
func (h userRepositoryHandler) Find(tx Tx, username string) (*model.UserAccount, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	t := table.UserAccount
	query := t.SELECT(t.AllColumns).WHERE(t.Username.EQ(postgres.String(username)))

	out := model.UserAccount{}
	err = query.Query(db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}

	return &out, nil
}

func (h userRepositoryHandler) List(tx Tx) ([]model.UserAccount, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	t := table.UserAccount
	query := t.SELECT(t.AllColumns).ORDER_BY(t.Username.ASC())

	out := []model.UserAccount{}
	err = query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return out, nil
}

func (h userRepositoryHandler) Create(tx Tx, user model.UserAccount) (*model.UserAccount, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = time.Now().UTC()

	t := table.UserAccount
	query := t.INSERT(t.MutableColumns).MODEL(user).RETURNING(t.AllColumns)

	out := model.UserAccount{}
	err = query.Query(db, &out)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ledger.NewUniqueConstraint("USER_ALREADY_EXISTS", "user %q already exists", user.Username)
		}
		return nil, fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}

	return &out, nil
}

func (h userRepositoryHandler) Delete(tx Tx, username string) error {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return err
	}

	t := table.UserAccount
	query := t.DELETE().WHERE(t.Username.EQ(postgres.String(username)))

	result, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", username, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result for user %s: %w", username, err)
	}
	if n == 0 {
		return ledger.NewUserNotFound(username)
	}

	return nil
}

func (h userRepositoryHandler) UpdateBalance(tx Tx, userID int32, balance decimal.Decimal) error {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return err
	}

	t := table.UserAccount
	m := model.UserAccount{Balance: balance, UpdatedAt: time.Now().UTC()}
	query := t.UPDATE(t.Balance, t.UpdatedAt).
		MODEL(m).
		WHERE(t.ID.EQ(postgres.Int32(userID)))

	_, err = query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", userID, err)
	}

	return nil
}

func (h userRepositoryHandler) UpdateRole(tx Tx, username string, role model.UserRole) error {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return err
	}

	t := table.UserAccount
	m := model.UserAccount{Role: role, UpdatedAt: time.Now().UTC()}
	query := t.UPDATE(t.Role, t.UpdatedAt).
		MODEL(m).
		WHERE(t.Username.EQ(postgres.String(username)))

	_, err = query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to update role for user %s: %w", username, err)
	}

	return nil
}

func (h userRepositoryHandler) UpdatePassword(tx Tx, username string, digest string) error {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return err
	}

	t := table.UserAccount
	m := model.UserAccount{Password: digest, UpdatedAt: time.Now().UTC()}
	query := t.UPDATE(t.Password, t.UpdatedAt).
		MODEL(m).
		WHERE(t.Username.EQ(postgres.String(username)))

	_, err = query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to update password for user %s: %w", username, err)
	}

	return nil
}

func (h userRepositoryHandler) CountAdmins(tx Tx) (int64, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return 0, err
	}

	t := table.UserAccount
	query := t.SELECT(postgres.COUNT(t.ID).AS("count")).
		WHERE(t.Role.EQ(postgres.NewEnumValue(model.UserRole_Admin.String())))

	var out struct {
		Count int64
	}
	err = query.Query(db, &out)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}

	return out.Count, nil
}
