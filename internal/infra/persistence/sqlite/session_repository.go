package sqlite

import (
	"context"
	"time"

	"warden/internal/domain/entity"
	"warden/internal/domain/repository"
	"warden/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// sessionRepository implements the repository.SessionRepository interface using GORM.
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// CreateSession persists a new session record, representing a login.
func (repo *sessionRepository) CreateSession(ctx context.Context, session *entity.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	sessionM := fromSessionDomain(session)
	if err := repo.db.WithContext(ctx).Create(sessionM).Error; err != nil {
		return errors.Wrap(err, "failed to create session")
	}

	session.CreatedAt = sessionM.CreatedAt

	return nil
}

// FindSessionByTokenHash retrieves a session record by its stored token hash.
// An expired record is reported as expired rather than found.
func (repo *sessionRepository) FindSessionByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error) {
	var sessionM model.SessionModel
	err := repo.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&sessionM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find session by token hash")
	}

	session := toSessionDomain(&sessionM)
	if !session.Active(time.Now()) {
		return nil, repository.ErrSessionExpired
	}

	return session, nil
}

// DeleteSessionByTokenHash deletes a session by its token hash. Deleting a
// session that does not exist is not an error, which makes logout idempotent.
func (repo *sessionRepository) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	err := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&model.SessionModel{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete session by token hash")
	}

	return nil
}

// DeleteSessionsByAccountID removes all sessions for an account.
func (repo *sessionRepository) DeleteSessionsByAccountID(ctx context.Context, accountID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&model.SessionModel{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete sessions by account id")
	}

	return nil
}

// DeleteExpiredSessions removes all expired session records.
func (repo *sessionRepository) DeleteExpiredSessions(ctx context.Context) error {
	err := repo.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.SessionModel{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete expired sessions")
	}

	return nil
}

// CountActiveSessionsByAccountID returns the number of unexpired sessions
// for an account.
func (repo *sessionRepository) CountActiveSessionsByAccountID(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.SessionModel{}).
		Where("account_id = ? AND expires_at > ?", accountID, time.Now()).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count active sessions")
	}

	return int(count), nil
}

// --- Mapper Functions ---

// toSessionDomain converts a GORM SessionModel to a domain Session entity.
func toSessionDomain(data *model.SessionModel) *entity.Session {
	if data == nil {
		return nil
	}

	return &entity.Session{
		ID:        data.ID,
		AccountID: data.AccountID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromSessionDomain converts a domain Session entity to a GORM SessionModel.
func fromSessionDomain(data *entity.Session) *model.SessionModel {
	if data == nil {
		return nil
	}

	return &model.SessionModel{
		ID:        data.ID,
		AccountID: data.AccountID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}
