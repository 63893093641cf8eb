package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/workflow"
)

// Store is the Postgres-backed workflow.Store. InTx wraps gorm's transaction
// so a transition's writes, its audit entry and any idempotency claim commit
// as one unit. Row locks come from SELECT ... FOR UPDATE.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx workflow.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) GetRequest(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	var req models.Request
	err := s.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) GetRequestForUpdate(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	var req models.Request
	err := s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) CreateRequest(ctx context.Context, req *models.Request) error {
	return s.db.WithContext(ctx).Create(req).Error
}

func (s *Store) SaveRequest(ctx context.Context, req *models.Request) error {
	return s.db.WithContext(ctx).Save(req).Error
}

func (s *Store) GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.WithContext(ctx).First(&quote, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *Store) ListQuotesByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Quote, error) {
	var quotes []models.Quote
	err := s.db.WithContext(ctx).Where("request_id = ?", requestID).Order("created_at asc").Find(&quotes).Error
	return quotes, err
}

func (s *Store) CreateQuote(ctx context.Context, quote *models.Quote) error {
	return s.db.WithContext(ctx).Create(quote).Error
}

func (s *Store) SaveQuote(ctx context.Context, quote *models.Quote) error {
	return s.db.WithContext(ctx).Save(quote).Error
}

func (s *Store) GetDeal(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	err := s.db.WithContext(ctx).First(&deal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (s *Store) GetDealForUpdate(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	err := s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&deal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (s *Store) CreateDeal(ctx context.Context, deal *models.Deal) error {
	return s.db.WithContext(ctx).Create(deal).Error
}

func (s *Store) SaveDeal(ctx context.Context, deal *models.Deal) error {
	return s.db.WithContext(ctx).Save(deal).Error
}

func (s *Store) InvoiceByDeal(ctx context.Context, dealID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).First(&invoice, "deal_id = ?", dealID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (s *Store) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return s.db.WithContext(ctx).Create(invoice).Error
}

func (s *Store) SaveInvoice(ctx context.Context, invoice *models.Invoice) error {
	return s.db.WithContext(ctx).Save(invoice).Error
}

func (s *Store) GetInvite(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	var invite models.Invite
	err := s.db.WithContext(ctx).First(&invite, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (s *Store) CreateInvite(ctx context.Context, invite *models.Invite) error {
	return s.db.WithContext(ctx).Create(invite).Error
}

func (s *Store) SaveInvite(ctx context.Context, invite *models.Invite) error {
	return s.db.WithContext(ctx).Save(invite).Error
}

func (s *Store) CreateMessage(ctx context.Context, msg *models.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *Store) CreateNotification(ctx context.Context, note *models.Notification) error {
	return s.db.WithContext(ctx).Create(note).Error
}

func (s *Store) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// ClaimIdempotencyKey inserts the claim with ON CONFLICT DO NOTHING; the
// unique index over (org_id, key, endpoint) decides races between concurrent
// duplicates. Zero rows affected means someone already holds the claim.
func (s *Store) ClaimIdempotencyKey(ctx context.Context, orgID uuid.UUID, key, endpoint string) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&models.IdempotencyKey{
		OrgID:    orgID,
		Key:      key,
		Endpoint: endpoint,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
