package room

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"badugi-server/pkg/game"
)

// ErrRoomNotFound is an error when no room exists for the chat
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomExists is an error when a room is opened for a chat that has one
var ErrRoomExists = errors.New("room already exists")

// Manager owns the rooms, keyed by chat ID. Distinct rooms progress
// independently; the manager only guards the map.
type Manager struct {
	logger logrus.FieldLogger
	opts   game.Options
	wallet game.WalletStore
	stats  game.StatsRecorder
	sink   game.NotificationSink

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewManager returns a manager that opens rooms with the given options and
// collaborators
func NewManager(logger logrus.FieldLogger, opts game.Options, wallet game.WalletStore, stats game.StatsRecorder, sink game.NotificationSink) (*Manager, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Manager{
		logger: logger,
		opts:   opts,
		wallet: wallet,
		stats:  stats,
		sink:   sink,
		rooms:  make(map[string]*Room),
	}, nil
}

// OpenRoom creates a room for the chat with the opener as host, and seats
// the host
func (m *Manager) OpenRoom(chatID string, hostID int64, hostName string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, found := m.rooms[chatID]; found {
		return nil, ErrRoomExists
	}

	r := newRoom(m.logger, chatID, hostID, m.opts, m.wallet, m.stats, m.sink)
	if err := r.Join(hostID, hostName); err != nil {
		return nil, err
	}

	m.rooms[chatID] = r
	m.logger.WithField("room", chatID).WithField("host", hostID).Info("room opened")
	return r, nil
}

// Room returns the room for the chat
func (m *Manager) Room(chatID string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, found := m.rooms[chatID]
	if !found {
		return nil, ErrRoomNotFound
	}

	return r, nil
}

// CloseRoom aborts any running hand and removes the room
func (m *Manager) CloseRoom(chatID string) error {
	m.mu.Lock()
	r, found := m.rooms[chatID]
	delete(m.rooms, chatID)
	m.mu.Unlock()

	if !found {
		return ErrRoomNotFound
	}

	r.ForceReset()
	m.logger.WithField("room", chatID).Info("room closed")
	return nil
}
