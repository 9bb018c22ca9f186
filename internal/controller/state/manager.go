package state

import (
	"sync"
	"time"
)

// Manager хранит диалоги пользователей в памяти.
// Запись, которую не трогали дольше ttl, считается отсутствующей.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
	ttl    time.Duration
	now    func() time.Time
}

// NewManager создаёт менеджер с DefaultTTL
func NewManager() *Manager {
	return NewManagerWithTTL(DefaultTTL)
}

func NewManagerWithTTL(ttl time.Duration) *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
		ttl:    ttl,
		now:    time.Now,
	}
}

// lookup возвращает живую запись; вызывать под блокировкой
func (sm *Manager) lookup(telegramID int64) (*UserData, bool) {
	userData, exists := sm.states[telegramID]
	if !exists {
		return nil, false
	}
	if sm.ttl > 0 && sm.now().Sub(userData.UpdatedAt) > sm.ttl {
		return nil, false
	}
	return userData, true
}

// ensure возвращает запись, создавая новую вместо отсутствующей или протухшей
func (sm *Manager) ensure(telegramID int64) *UserData {
	userData, ok := sm.lookup(telegramID)
	if !ok {
		userData = &UserData{Data: make(map[string]any)}
		sm.states[telegramID] = userData
	}
	userData.UpdatedAt = sm.now()
	return userData
}

// GetState получает текущий шаг диалога
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.lookup(telegramID); ok {
		return userData.State
	}
	return StateNone
}

// SetState переводит диалог на шаг state, данные сохраняются
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.ensure(telegramID).State = state
}

// Start начинает новый диалог с чистыми данными
func (sm *Manager) Start(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[telegramID] = &UserData{
		State:     state,
		Data:      make(map[string]any),
		UpdatedAt: sm.now(),
	}
}

// StartUnless начинает диалог state, если текущий шаг не подходит под skip.
// Проверка и запись под одной блокировкой; false, если диалог не начат.
func (sm *Manager) StartUnless(telegramID int64, state UserState, skip func(UserState) bool) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if userData, ok := sm.lookup(telegramID); ok && skip(userData.State) {
		return false
	}
	sm.states[telegramID] = &UserData{
		State:     state,
		Data:      make(map[string]any),
		UpdatedAt: sm.now(),
	}
	return true
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (any, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.lookup(telegramID); ok {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// SetData устанавливает временные данные пользователя
func (sm *Manager) SetData(telegramID int64, key string, value any) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.ensure(telegramID).Data[key] = value
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// Prune удаляет протухшие записи, возвращает сколько удалено
func (sm *Manager) Prune() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for id := range sm.states {
		if _, ok := sm.lookup(id); !ok {
			delete(sm.states, id)
			removed++
		}
	}
	return removed
}

// Value типизированное чтение данных диалога
func Value[T any](sm *Manager, telegramID int64, key string) (T, bool) {
	var zero T
	raw, ok := sm.GetData(telegramID, key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
