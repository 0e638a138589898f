package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/zaryah/zaryah-backend/internal/data/repos"
	"github.com/zaryah/zaryah-backend/internal/data/repos/message"
	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/apierr"
	"github.com/zaryah/zaryah-backend/internal/platform/ctxutil"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

const maxMessageLength = 5000

type Inbox struct {
	Messages    []*types.Message `json:"messages"`
	UnreadCount int64            `json:"unreadCount"`
}

type MessageService interface {
	Send(ctx context.Context, receiverID uuid.UUID, content string) (*types.Message, error)
	Inbox(ctx context.Context, unreadOnly bool, limit int) (*Inbox, error)
	MarkRead(ctx context.Context, messageID uuid.UUID) error
}

type messageService struct {
	log         *logger.Logger
	userRepo    repos.UserRepo
	messageRepo repos.MessageRepo
}

func NewMessageService(log *logger.Logger, userRepo repos.UserRepo, messageRepo repos.MessageRepo) MessageService {
	return &messageService{
		log:         log.With("service", "MessageService"),
		userRepo:    userRepo,
		messageRepo: messageRepo,
	}
}

func (ms *messageService) Send(ctx context.Context, receiverID uuid.UUID, content string) (*types.Message, error) {
	senderID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_content", errors.New("Message content is required"))
	}
	if len(content) > maxMessageLength {
		return nil, apierr.New(http.StatusBadRequest, "invalid_content", fmt.Errorf("Message content exceeds %d characters", maxMessageLength))
	}
	dbc := dbctx.Context{Ctx: ctx}
	sender, err := ms.userRepo.FindByID(dbc, senderID)
	if err != nil {
		return nil, fmt.Errorf("find sender: %w", err)
	}
	if sender == nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("%w: Sender account no longer exists", apierr.ErrUnauthorized))
	}
	receiver, err := ms.userRepo.FindByID(dbc, receiverID)
	if err != nil {
		return nil, fmt.Errorf("find receiver: %w", err)
	}
	if receiver == nil {
		return nil, apierr.New(http.StatusNotFound, "receiver_not_found", fmt.Errorf("%w: Receiver not found", apierr.ErrNotFound))
	}
	msg, err := ms.messageRepo.Create(dbc, senderID, receiver.ID, content)
	if errors.Is(err, message.ErrUnknownUser) {
		return nil, apierr.New(http.StatusNotFound, "receiver_not_found", fmt.Errorf("%w: Receiver not found", err))
	}
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	ms.log.Debug("Message sent", "sender_id", senderID, "receiver_id", receiver.ID, "message_id", msg.ID)
	return msg, nil
}

func (ms *messageService) Inbox(ctx context.Context, unreadOnly bool, limit int) (*Inbox, error) {
	callerID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	msgs, err := ms.messageRepo.ListForReceiver(dbc, callerID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if msgs == nil {
		msgs = []*types.Message{}
	}
	unread, err := ms.messageRepo.CountUnread(dbc, callerID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	return &Inbox{Messages: msgs, UnreadCount: unread}, nil
}

// MarkRead flags the message read. Only its receiver may do so.
func (ms *messageService) MarkRead(ctx context.Context, messageID uuid.UUID) error {
	callerID, err := requireCaller(ctx)
	if err != nil {
		return err
	}
	dbc := dbctx.Context{Ctx: ctx}
	msg, err := ms.messageRepo.GetByID(dbc, messageID)
	if err != nil {
		return fmt.Errorf("get message: %w", err)
	}
	if msg == nil {
		return apierr.New(http.StatusNotFound, "message_not_found", fmt.Errorf("%w: Message not found", apierr.ErrNotFound))
	}
	if msg.ReceiverID != callerID {
		return apierr.New(http.StatusForbidden, "forbidden", fmt.Errorf("%w: only the receiver can mark a message read", apierr.ErrForbidden))
	}
	if _, err := ms.messageRepo.MarkRead(dbc, messageID, callerID); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func requireCaller(ctx context.Context) (uuid.UUID, error) {
	id := ctxutil.CallerID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("Access token required"))
	}
	return id, nil
}
