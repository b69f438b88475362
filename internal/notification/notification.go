package notification

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/zefast/zefast_web/internal/mobcash"
)

// Backend is the subset of the mobcash client used here.
type Backend interface {
	Notifications(ctx context.Context, tokens *mobcash.Tokens, page int) (mobcash.Page[mobcash.Notification], error)
	RegisterDevice(ctx context.Context, tokens *mobcash.Tokens, in mobcash.DeviceRegistration) error
	DeleteDevice(ctx context.Context, tokens *mobcash.Tokens, registrationID string) error
}

// Notifier queues flashes and proxies the user's inbox and push devices.
type Notifier struct {
	backend Backend
	flashes FlashStore
	logger  *slog.Logger
	now     func() time.Time
}

func NewNotifier(backend Backend, flashes FlashStore, logger *slog.Logger) *Notifier {
	return &Notifier{backend: backend, flashes: flashes, logger: logger, now: time.Now}
}

// Success queues a success flash. Queue failures are logged only.
func (n *Notifier) Success(ctx context.Context, sid, message string) {
	n.push(ctx, sid, LevelSuccess, message)
}

func (n *Notifier) push(ctx context.Context, sid, level, message string) {
	if n == nil || sid == "" || message == "" {
		return
	}
	err := n.flashes.Push(ctx, sid, Flash{Level: level, Message: message, At: n.now().UTC()})
	if err != nil {
		n.logger.WarnContext(ctx, "flash push failed", slog.String("level", level), slog.Any("error", err))
	}
}

// Drain returns and clears the session's pending flashes.
func (n *Notifier) Drain(ctx context.Context, sid string) ([]Flash, error) {
	return n.flashes.Drain(ctx, sid)
}

// InboxPage is one page of the backend notification inbox.
type InboxPage struct {
	Items       []mobcash.Notification `json:"items"`
	Count       int                    `json:"count"`
	Page        int                    `json:"page"`
	HasNext     bool                   `json:"has_next"`
	HasPrevious bool                   `json:"has_previous"`
	Unread      int                    `json:"unread"`
}

func (n *Notifier) Inbox(ctx context.Context, tokens *mobcash.Tokens, page int) (InboxPage, error) {
	if page < 1 {
		page = 1
	}
	res, err := n.backend.Notifications(ctx, tokens, page)
	if err != nil {
		return InboxPage{}, err
	}
	out := InboxPage{
		Items:       res.Results,
		Count:       res.Count,
		Page:        page,
		HasNext:     res.Next != "",
		HasPrevious: res.Previous != "",
	}
	if out.Items == nil {
		out.Items = []mobcash.Notification{}
	}
	for _, item := range out.Items {
		if !item.IsRead {
			out.Unread++
		}
	}
	return out, nil
}

// DefaultDeviceType is used when the browser does not name its push channel.
const DefaultDeviceType = "web"

// RegisterDevice links a push registration token to the current user.
func (n *Notifier) RegisterDevice(ctx context.Context, tokens *mobcash.Tokens, userID, registrationID, deviceType string) error {
	registrationID = strings.TrimSpace(registrationID)
	if deviceType = strings.TrimSpace(deviceType); deviceType == "" {
		deviceType = DefaultDeviceType
	}
	err := n.backend.RegisterDevice(ctx, tokens, mobcash.DeviceRegistration{
		RegistrationID: registrationID,
		Type:           deviceType,
		UserID:         userID,
	})
	if err != nil {
		return err
	}
	n.logger.InfoContext(ctx, "push device registered", slog.String("user_id", userID), slog.String("type", deviceType))
	return nil
}

func (n *Notifier) DeleteDevice(ctx context.Context, tokens *mobcash.Tokens, registrationID string) error {
	return n.backend.DeleteDevice(ctx, tokens, strings.TrimSpace(registrationID))
}
