package service

import (
	"strings"

	"kiwiledger/internal/domain"
	"kiwiledger/internal/ledger"
	"kiwiledger/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CredentialService owns password hashing and login checks. Stored digests
// are bcrypt; records predating the hashing rollout hold the raw password
// and are upgraded in place on the first successful login.
type CredentialService interface {
	Hash(password string) (string, error)
	Verify(storedDigest string, password string) bool
	Authenticate(username string, password string) (*domain.Session, error)
}

type credentialServiceHandler struct {
	UserRepository repository.UserRepository
	Logger         *zap.SugaredLogger
}

func NewCredentialService(userRepository repository.UserRepository, logger *zap.SugaredLogger) CredentialService {
	return credentialServiceHandler{
		UserRepository: userRepository,
		Logger:         logger,
	}
}

func (h credentialServiceHandler) Hash(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ledger.NewDataAccess(err, "failed to hash password")
	}
	return string(digest), nil
}

func isHashedDigest(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

func (h credentialServiceHandler) Verify(storedDigest string, password string) bool {
	if !isHashedDigest(storedDigest) {
		return storedDigest == password
	}
	return bcrypt.CompareHashAndPassword([]byte(storedDigest), []byte(password)) == nil
}

func (h credentialServiceHandler) Authenticate(username string, password string) (*domain.Session, error) {
	user, err := h.UserRepository.Find(nil, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !h.Verify(user.Password, password) {
		return nil, ledger.NewInvalidCredentials("INVALID_CREDENTIALS", "invalid username or password")
	}

	if !isHashedDigest(user.Password) {
		// legacy plaintext record; login still succeeds if the upgrade fails
		digest, err := h.Hash(password)
		if err == nil {
			err = h.UserRepository.UpdatePassword(nil, username, digest)
		}
		if err != nil {
			h.Logger.Warnf("failed to upgrade stored credential for %s: %v", username, err)
		}
	}

	return &domain.Session{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
