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
	"gorm.io/gorm/clause"
)

// ticketRepository implements the repository.TicketRepository interface using GORM.
type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository is the constructor for ticketRepository.
func NewTicketRepository(db *gorm.DB) repository.TicketRepository {
	return &ticketRepository{db: db}
}

// SaveTicket records a ticket. The (kind, account_id) primary key plus an
// upsert replaces any previous ticket of the same kind for the account.
func (repo *ticketRepository) SaveTicket(ctx context.Context, ticket *entity.Ticket) error {
	ticketM := fromTicketDomain(ticket)
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}, {Name: "account_id"}},
			UpdateAll: true,
		}).
		Create(ticketM).Error
	if err != nil {
		return errors.Wrap(err, "failed to save ticket")
	}

	ticket.CreatedAt = ticketM.CreatedAt

	return nil
}

// FindTicket retrieves the ticket of the given kind bound to an account.
func (repo *ticketRepository) FindTicket(ctx context.Context, kind entity.TicketKind, accountID uuid.UUID) (*entity.Ticket, error) {
	var ticketM model.TicketModel
	err := repo.db.WithContext(ctx).
		Where("kind = ? AND account_id = ?", string(kind), accountID).
		First(&ticketM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTicketNotFound
		}

		return nil, errors.Wrap(err, "failed to find ticket")
	}

	return toTicketDomain(&ticketM), nil
}

// MarkTicketUsed consumes the ticket of the given kind for an account.
func (repo *ticketRepository) MarkTicketUsed(ctx context.Context, kind entity.TicketKind, accountID uuid.UUID) error {
	result := repo.db.WithContext(ctx).Model(&model.TicketModel{}).
		Where("kind = ? AND account_id = ?", string(kind), accountID).
		Update("used_at", time.Now())
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to mark ticket used")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTicketNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toTicketDomain converts a GORM TicketModel to a domain Ticket entity.
func toTicketDomain(data *model.TicketModel) *entity.Ticket {
	if data == nil {
		return nil
	}

	return &entity.Ticket{
		Value:     data.Value,
		Kind:      entity.TicketKind(data.Kind),
		AccountID: data.AccountID,
		ExpiresAt: data.ExpiresAt,
		UsedAt:    data.UsedAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromTicketDomain converts a domain Ticket entity to a GORM TicketModel.
func fromTicketDomain(data *entity.Ticket) *model.TicketModel {
	if data == nil {
		return nil
	}

	return &model.TicketModel{
		Kind:      string(data.Kind),
		AccountID: data.AccountID,
		Value:     data.Value,
		ExpiresAt: data.ExpiresAt,
		UsedAt:    data.UsedAt,
		CreatedAt: data.CreatedAt,
	}
}
