package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/review-board/internal/lib/sl"
)

// State — состояние инициализации хранилища.
type State int32

const (
	// StateUninitialized — подключение ещё не выполнялось.
	StateUninitialized State = iota
	// StateReady — хранилище доступно.
	StateReady
	// StateDegraded — подключение не удалось, сервис работает
	// в деградированном режиме и отвечает "store unavailable".
	StateDegraded
)

// String возвращает текстовое имя состояния.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	default:
		return "uninitialized"
	}
}

// reinitTimeout ограничивает одну попытку восстановления соединения.
const reinitTimeout = 5 * time.Second

// Manager владеет движком хранилища и явно ведёт его жизненный цикл:
// Uninitialized → Ready → Degraded. Запросы к хранилищу проходят через
// Engine(); в деградированном состоянии выполняется одна ограниченная
// по времени попытка переподключения, после чего запрос завершается
// ошибкой ErrUnavailable, а не падением процесса.
type Manager struct {
	mu     sync.Mutex
	state  State
	engine Engine
	open   func(ctx context.Context) (Engine, error)
	log    *slog.Logger
}

// NewManager создаёт менеджер в состоянии Uninitialized.
// open — фабрика движка; nil означает, что хранилище не сконфигурировано.
func NewManager(open func(ctx context.Context) (Engine, error), log *slog.Logger) *Manager {
	return &Manager{
		state: StateUninitialized,
		open:  open,
		log:   log,
	}
}

// Init выполняет первичное подключение. При неудаче менеджер переходит
// в Degraded, но ошибки наружу не отдаёт вызывающему как фатальные:
// решение жить дальше принимает приложение.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectLocked(ctx)
}

// Engine возвращает готовый движок. Если хранилище не готово,
// делает одну ограниченную попытку переподключения.
func (m *Manager) Engine(ctx context.Context) (Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateReady {
		return m.engine, nil
	}
	if err := m.connectLocked(ctx); err != nil {
		return nil, err
	}
	return m.engine, nil
}

// State возвращает текущее состояние хранилища.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// MarkDegraded переводит хранилище в деградированное состояние,
// например после ошибки соединения во время запроса.
func (m *Manager) MarkDegraded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.engine != nil {
		_ = m.engine.Close()
		m.engine = nil
	}
	m.state = StateDegraded
}

// Close закрывает движок и возвращает менеджер в исходное состояние.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateUninitialized
	if m.engine == nil {
		return nil
	}
	err := m.engine.Close()
	m.engine = nil
	return err
}

func (m *Manager) connectLocked(ctx context.Context) error {
	const op = "storage.Manager.connect"

	if m.open == nil {
		m.state = StateDegraded
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, reinitTimeout)
	defer cancel()

	engine, err := m.open(ctx)
	if err != nil {
		m.state = StateDegraded
		m.log.Error("storage connection failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	}
	if err = engine.Ping(ctx); err != nil {
		_ = engine.Close()
		m.state = StateDegraded
		m.log.Error("storage ping failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	m.engine = engine
	m.state = StateReady
	m.log.Info("storage is ready")
	return nil
}
