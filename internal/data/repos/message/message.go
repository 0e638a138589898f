package message

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/apierr"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

// ErrUnknownUser is returned by Create when the sender or receiver is not an existing user.
var ErrUnknownUser = fmt.Errorf("%w: sender or receiver does not exist", apierr.ErrNotFound)

// MessageRepo is the Message Store. Messages are immutable apart from the read flag.
type MessageRepo interface {
	Create(dbc dbctx.Context, senderID, receiverID uuid.UUID, content string) (*types.Message, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Message, error)
	ListForReceiver(dbc dbctx.Context, receiverID uuid.UUID, unreadOnly bool, limit int) ([]*types.Message, error)
	CountUnread(dbc dbctx.Context, receiverID uuid.UUID) (int64, error)
	// MarkRead flips read=true only when receiverID owns the message. Reports whether a row matched.
	MarkRead(dbc dbctx.Context, id, receiverID uuid.UUID) (bool, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: baseLog.With("repo", "MessageRepo")}
}

func (r *messageRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *messageRepo) Create(dbc dbctx.Context, senderID, receiverID uuid.UUID, content string) (*types.Message, error) {
	if senderID == uuid.Nil || receiverID == uuid.Nil {
		return nil, fmt.Errorf("sender and receiver required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message content required")
	}
	if err := r.requireUsers(dbc, senderID, receiverID); err != nil {
		return nil, err
	}
	m := &types.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := r.tx(dbc).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *messageRepo) requireUsers(dbc dbctx.Context, senderID, receiverID uuid.UUID) error {
	ids := []uuid.UUID{senderID}
	if receiverID != senderID {
		ids = append(ids, receiverID)
	}
	var n int64
	if err := r.tx(dbc).Model(&types.User{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return fmt.Errorf("check message users: %w", err)
	}
	if n != int64(len(ids)) {
		return ErrUnknownUser
	}
	return nil
}

func (r *messageRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Message, error) {
	var m types.Message
	if err := r.tx(dbc).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *messageRepo) ListForReceiver(dbc dbctx.Context, receiverID uuid.UUID, unreadOnly bool, limit int) ([]*types.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.tx(dbc).Where("receiver_id = ?", receiverID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []*types.Message
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageRepo) CountUnread(dbc dbctx.Context, receiverID uuid.UUID) (int64, error) {
	var n int64
	if err := r.tx(dbc).
		Model(&types.Message{}).
		Where("receiver_id = ? AND read = ?", receiverID, false).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *messageRepo) MarkRead(dbc dbctx.Context, id, receiverID uuid.UUID) (bool, error) {
	res := r.tx(dbc).
		Model(&types.Message{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
