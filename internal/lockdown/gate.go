// Package lockdown реализует блокирующий слой портала. Когда снимок
// подписки говорит, что портал залочен, слой перехватывает все попытки
// взаимодействия и показывает временное предупреждение. Слой чисто
// презентационный: в сеть не ходит и состояние подписки не меняет,
// подлежащий контент остаётся видимым, но не действующим.
package lockdown

import (
	"sync"
	"time"
)

// NoticeMessage текст предупреждения о приостановленном аккаунте.
const NoticeMessage = "Your account is suspended. Please upgrade or update payment to continue."

// DefaultNoticeInterval время автоскрытия предупреждения.
const DefaultNoticeInterval = 3 * time.Second

// LockSource сообщает, залочен ли портал. Реализуется витриной подписки.
type LockSource interface {
	IsPortalLocked() bool
}

// Gate блокирующий слой. Каждая попытка взаимодействия при залоченном
// портале показывает предупреждение и перевзводит таймер скрытия с нуля —
// это намеренная политика, а не дефект.
type Gate struct {
	source   LockSource
	interval time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	gen         uint64
	visible     bool
	subscribers []func(visible bool)
}

// New создает слой поверх источника блокировки. При interval <= 0
// используется DefaultNoticeInterval.
func New(source LockSource, interval time.Duration) *Gate {
	if interval <= 0 {
		interval = DefaultNoticeInterval
	}
	return &Gate{source: source, interval: interval}
}

// Active истинно, когда слой перехватывает взаимодействие.
func (g *Gate) Active() bool {
	return g.source.IsPortalLocked()
}

// Touch регистрирует попытку взаимодействия. При залоченном портале
// показывает предупреждение, перевзводит таймер скрытия и возвращает true;
// иначе ничего не делает и возвращает false.
func (g *Gate) Touch() bool {
	if !g.Active() {
		return false
	}

	g.mu.Lock()
	wasVisible := g.visible
	g.visible = true
	if g.timer != nil {
		g.timer.Stop()
	}
	// Stop не отменяет уже сработавший таймер: его колбэк может висеть
	// на замке и выполниться сразу после перевзвода. Поколение отсекает
	// такие устаревшие колбэки.
	g.gen++
	gen := g.gen
	g.timer = time.AfterFunc(g.interval, func() { g.hide(gen) })
	subs := g.copySubscribersLocked()
	g.mu.Unlock()

	if !wasVisible {
		notify(subs, true)
	}
	return true
}

func (g *Gate) hide(gen uint64) {
	g.mu.Lock()
	if gen != g.gen {
		g.mu.Unlock()
		return
	}
	g.visible = false
	g.timer = nil
	subs := g.copySubscribersLocked()
	g.mu.Unlock()

	notify(subs, false)
}

// NoticeVisible истинно, пока предупреждение на экране.
func (g *Gate) NoticeVisible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.visible
}

// Subscribe регистрирует колбэк на смену видимости предупреждения.
func (g *Gate) Subscribe(fn func(visible bool)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

// copySubscribersLocked вызывается под g.mu.
func (g *Gate) copySubscribersLocked() []func(bool) {
	subs := make([]func(bool), len(g.subscribers))
	copy(subs, g.subscribers)
	return subs
}

func notify(subs []func(bool), visible bool) {
	for _, fn := range subs {
		fn(visible)
	}
}
