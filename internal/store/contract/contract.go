// Package contract содержит витрину договора обслуживания тенанта:
// актуальный шаблон, состояние подписанного договора и операции подписания
// и расторжения. Загрузки отказывают молча, как и остальные витрины;
// подписание и расторжение возвращают ошибку вызывающему, потому что за
// ними стоит явное действие пользователя, которому нужен ответ.
package contract

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hostfolio/portal/internal/lib/sl"
	"github.com/hostfolio/portal/internal/models"
)

// Accessor контракт удалённого доступа, нужный витрине.
type Accessor interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Store витрина договора.
type Store struct {
	api Accessor
	log *slog.Logger

	mu             sync.RWMutex
	template       *models.ContractTemplate
	contract       *models.Contract
	contractStatus string
	loaded         bool
	signing        bool
	cancelling     bool
}

// New создает витрину без договора.
func New(api Accessor, log *slog.Logger) *Store {
	return &Store{api: api, log: log, contractStatus: models.ContractNoContract}
}

// FetchTemplate загружает актуальный шаблон договора. Отсутствие шаблона
// не ошибка: поле просто остаётся пустым.
func (s *Store) FetchTemplate(ctx context.Context) {
	const op = "store.contract.FetchTemplate"

	var tpl models.ContractTemplate
	if err := s.api.Get(ctx, "/auth/contract-template/", &tpl); err != nil {
		s.log.Warn("failed to fetch contract template", sl.Err(err), sl.Op(op))
		return
	}

	s.mu.Lock()
	s.template = &tpl
	s.mu.Unlock()
}

// FetchContract загружает состояние договора. Пока договора нет, бэкенд
// отвечает телом вида {"status": "..."} без id — тогда сохраняется только
// статус.
func (s *Store) FetchContract(ctx context.Context) {
	const op = "store.contract.FetchContract"

	var c models.Contract
	err := s.api.Get(ctx, "/auth/contract/", &c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.log.Warn("failed to fetch contract", sl.Err(err), sl.Op(op))
		s.contractStatus = models.ContractNoContract
		s.loaded = true
		return
	}

	if c.ID == 0 {
		s.contract = nil
		if c.Status != "" {
			s.contractStatus = c.Status
		} else {
			s.contractStatus = models.ContractNoContract
		}
	} else {
		s.contract = &c
		s.contractStatus = c.Status
	}
	s.loaded = true
}

// Sign подписывает договор от имени хоста.
func (s *Store) Sign(ctx context.Context) error {
	const op = "store.contract.Sign"

	s.setSigning(true)
	defer s.setSigning(false)

	var c models.Contract
	req := models.SignContractRequest{Agreement: true}
	if err := s.api.Post(ctx, "/auth/contract/sign/", req, &c); err != nil {
		s.log.Warn("failed to sign contract", sl.Err(err), sl.Op(op))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.contract = &c
	s.contractStatus = c.Status
	s.mu.Unlock()
	return nil
}

// RequestCancellation запрашивает расторжение договора.
func (s *Store) RequestCancellation(ctx context.Context, reason string) error {
	const op = "store.contract.RequestCancellation"

	s.setCancelling(true)
	defer s.setCancelling(false)

	var c models.Contract
	req := models.CancelContractRequest{CancellationReason: reason}
	if err := s.api.Post(ctx, "/auth/contract/cancel/", req, &c); err != nil {
		s.log.Warn("failed to request cancellation", sl.Err(err), sl.Op(op))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.contract = &c
	s.contractStatus = c.Status
	s.mu.Unlock()
	return nil
}

func (s *Store) setSigning(v bool) {
	s.mu.Lock()
	s.signing = v
	s.mu.Unlock()
}

func (s *Store) setCancelling(v bool) {
	s.mu.Lock()
	s.cancelling = v
	s.mu.Unlock()
}

// Template возвращает загруженный шаблон или nil.
func (s *Store) Template() *models.ContractTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.template == nil {
		return nil
	}
	tpl := *s.template
	return &tpl
}

// Contract возвращает копию договора или nil, если его нет.
func (s *Store) Contract() *models.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.contract == nil {
		return nil
	}
	c := *s.contract
	return &c
}

// ContractStatus возвращает статус договора (no_contract, pending, active,
// cancellation_requested, cancelled, expired).
func (s *Store) ContractStatus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contractStatus
}

// Loaded сообщает, завершилась ли попытка загрузки договора.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Signing истинно, пока выполняется подписание.
func (s *Store) Signing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signing
}

// Cancelling истинно, пока выполняется запрос расторжения.
func (s *Store) Cancelling() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cancelling
}
