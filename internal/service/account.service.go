package service

import (
	"strings"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/domain"
	"kiwiledger/internal/ledger"
	"kiwiledger/internal/repository"

	"github.com/shopspring/decimal"
)

// AccountService manages the user directory. Destructive operations take
// the caller's session and demand the admin role; the guard against
// removing the last admin is checked inside the same atomic unit as the
// delete, so two concurrent deletes cannot empty the admin set.
type AccountService interface {
	CreateUser(in CreateUserInput) (*model.UserAccount, error)
	GetUser(username string) (*model.UserAccount, error)
	ListUsers() ([]model.UserAccount, error)
	DeleteUser(session domain.Session, username string) error
	ChangeRole(session domain.Session, username string, role model.UserRole) error
}

type CreateUserInput struct {
	Username        string
	Password        string
	FirstName       string
	LastName        string
	Role            model.UserRole
	StartingBalance decimal.Decimal
}

type accountServiceHandler struct {
	TxBeginner        repository.TxBeginner
	UserRepository    repository.UserRepository
	CredentialService CredentialService
}

func NewAccountService(
	txBeginner repository.TxBeginner,
	userRepository repository.UserRepository,
	credentialService CredentialService,
) AccountService {
	return accountServiceHandler{
		TxBeginner:        txBeginner,
		UserRepository:    userRepository,
		CredentialService: credentialService,
	}
}

func (h accountServiceHandler) CreateUser(in CreateUserInput) (*model.UserAccount, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ledger.NewValidation("INVALID_USERNAME", "username must not be empty")
	}
	if in.Password == "" {
		return nil, ledger.NewValidation("INVALID_PASSWORD", "password must not be empty")
	}
	if in.Role != model.UserRole_User && in.Role != model.UserRole_Admin {
		return nil, ledger.NewValidation("INVALID_ROLE", "role must be %q or %q", model.UserRole_User, model.UserRole_Admin)
	}
	if in.StartingBalance.IsNegative() {
		return nil, ledger.NewValidation("INVALID_BALANCE", "starting balance must not be negative")
	}

	digest, err := h.CredentialService.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := h.UserRepository.Create(nil, model.UserAccount{
		Username:  username,
		Password:  digest,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Balance:   in.StartingBalance,
		Role:      in.Role,
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (h accountServiceHandler) GetUser(username string) (*model.UserAccount, error) {
	user, err := h.UserRepository.Find(nil, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ledger.NewUserNotFound(username)
	}
	return user, nil
}

func (h accountServiceHandler) ListUsers() ([]model.UserAccount, error) {
	return h.UserRepository.List(nil)
}

func (h accountServiceHandler) DeleteUser(session domain.Session, username string) error {
	if !session.IsAdmin() {
		return ledger.NewAuthorization("ADMIN_REQUIRED", "only admins may delete users")
	}

	tx, err := h.TxBeginner.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	target, err := h.UserRepository.Find(tx, username)
	if err != nil {
		return err
	}
	if target == nil {
		return ledger.NewUserNotFound(username)
	}

	if target.Role == model.UserRole_Admin {
		admins, err := h.UserRepository.CountAdmins(tx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ledger.NewAdminProtection("cannot delete %q: at least one admin must remain", username)
		}
	}

	if err := h.UserRepository.Delete(tx, username); err != nil {
		return err
	}

	return tx.Commit()
}

func (h accountServiceHandler) ChangeRole(session domain.Session, username string, role model.UserRole) error {
	if !session.IsAdmin() {
		return ledger.NewAuthorization("ADMIN_REQUIRED", "only admins may change roles")
	}
	if role != model.UserRole_User && role != model.UserRole_Admin {
		return ledger.NewValidation("INVALID_ROLE", "role must be %q or %q", model.UserRole_User, model.UserRole_Admin)
	}

	tx, err := h.TxBeginner.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	target, err := h.UserRepository.Find(tx, username)
	if err != nil {
		return err
	}
	if target == nil {
		return ledger.NewUserNotFound(username)
	}

	if err := h.UserRepository.UpdateRole(tx, username, role); err != nil {
		return err
	}

	return tx.Commit()
}
