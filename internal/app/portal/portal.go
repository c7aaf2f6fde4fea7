// Package portal собирает клиентскую часть: витрины состояния поверх
// удалённого клиента, блокирующий слой и фоновые циклы синхронизации.
// Порядок сборки важен: клиенту нужна витрина подписки для проверки
// блокировки, а витрине — клиент, поэтому предикат доставляется
// сеттером после создания обеих сторон.
package portal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hostfolio/portal/internal/apiclient"
	"github.com/hostfolio/portal/internal/config"
	"github.com/hostfolio/portal/internal/lockdown"
	"github.com/hostfolio/portal/internal/models"
	"github.com/hostfolio/portal/internal/store/contract"
	"github.com/hostfolio/portal/internal/store/message"
	"github.com/hostfolio/portal/internal/store/notification"
	"github.com/hostfolio/portal/internal/store/session"
	"github.com/hostfolio/portal/internal/store/subscription"
)

// App — клиентский процесс портала.
type App struct {
	log *slog.Logger
	cfg *config.Config

	Session       *session.Store
	Client        *apiclient.Client
	Notifications *notification.Store
	Subscription  *subscription.Store
	Contract      *contract.Store
	Messages      *message.Store
	Gate          *lockdown.Gate
}

// New собирает все витрины и клиента. Сетевых запросов не делает.
func New(cfg *config.Config, logger *slog.Logger) *App {
	sess := session.New()
	metrics := apiclient.NewMetrics(prometheus.DefaultRegisterer)
	client := apiclient.New(cfg.APIClient, logger, sess, metrics)

	notifications := notification.New(client, logger)
	subs := subscription.New(client, logger)
	client.SetLockGuard(subs.IsPortalLocked)

	return &App{
		log:           logger,
		cfg:           cfg,
		Session:       sess,
		Client:        client,
		Notifications: notifications,
		Subscription:  subs,
		Contract:      contract.New(client, logger),
		Messages:      message.New(client, logger),
		Gate:          lockdown.New(subs, cfg.NoticeInterval),
	}
}

// Login выполняет вход с учётными данными из конфигурации и заполняет
// витрину сессии.
func (a *App) Login(ctx context.Context) error {
	const op = "app.portal.Login"

	req := models.LoginRequest{
		Email:    a.cfg.Login.Email,
		Password: a.cfg.Login.Password,
	}
	var payload models.LoginPayload
	if err := a.Client.Post(ctx, "/auth/login/", req, &payload); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.Session.Login(payload)
	a.log.Info("logged in", slog.String("email", payload.User.Email))
	return nil
}

// Run логинится, выполняет первичную загрузку витрин и крутит фоновые
// циклы синхронизации до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	if err := a.Login(ctx); err != nil {
		return err
	}

	a.bootstrap(ctx)

	notifTicker := time.NewTicker(a.cfg.NotificationInterval)
	defer notifTicker.Stop()
	subsTicker := time.NewTicker(a.cfg.SubscriptionInterval)
	defer subsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("portal sync stopped")
			return nil
		case <-notifTicker.C:
			a.Notifications.Fetch(ctx)
			a.Notifications.FetchUnreadCount(ctx)
		case <-subsTicker.C:
			a.Subscription.Fetch(ctx)
		}
	}
}

// bootstrap выполняет первичную загрузку всех витрин. Отказы отдельных
// загрузок витрины глотают сами, процесс продолжается в любом случае.
func (a *App) bootstrap(ctx context.Context) {
	a.Subscription.Fetch(ctx)
	a.Notifications.Fetch(ctx)
	a.Contract.FetchTemplate(ctx)
	a.Contract.FetchContract(ctx)
	a.Messages.FetchConversations(ctx, "")
}
