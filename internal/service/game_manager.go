package service

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// MatchFoundEvent is sent on a player's matchmaking channel once paired.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color"`
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	// pendingMatches holds matches for players queued without a channel
	pendingMatches map[string]MatchFoundEvent
	mu               sync.RWMutex
	stop             chan struct{}
	stopOnce         sync.Once
}

func NewGameManager(matchInterval time.Duration) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		pendingMatches:   make(map[string]MatchFoundEvent),
		stop:             make(chan struct{}),
	}

	// Start matchmaking processor
	go gm.processMatchmaking(matchInterval)

	return gm
}

// Shutdown stops the matchmaking loop.
func (gm *GameManager) Shutdown() {
	gm.stopOnce.Do(func() { close(gm.stop) })
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Printf("Registering matchmaking channel for player %s", playerID)

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		log.Printf("Replacing existing matchmaking channel for player %s", playerID)
		// Remove from map first to prevent any new writes
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Printf("Unregistering matchmaking channel for player %s", playerID)

	// The channel is left open; only a delivered match closes it
	delete(gm.matchingChannels, playerID)
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.matchQueuedPlayers()
		}
	}
}

// matchQueuedPlayers pairs queued players into fresh games until fewer than
// two remain.
func (gm *GameManager) matchQueuedPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID, model.NewBoard())

		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.Printf("Error adding player %s to game %s: %v", player1.ID, gameID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.Printf("Error adding player %s to game %s: %v", player2.ID, gameID, err)
			continue
		}
		gm.games[gameID] = game
		log.Printf("Matched %s (%s) and %s (%s) in game %s", player1.ID, p1Color, player2.ID, p2Color, gameID)

		gm.deliverMatch(player1.ID, MatchFoundEvent{GameID: gameID, Color: p1Color})
		gm.deliverMatch(player2.ID, MatchFoundEvent{GameID: gameID, Color: p2Color})
	}
}

// deliverMatch notifies playerID over its channel, or holds the event for
// MatchFor when no channel takes it. The caller holds gm.mu.
func (gm *GameManager) deliverMatch(playerID string, event MatchFoundEvent) {
	if gm.notifyMatch(playerID, event) {
		return
	}
	log.Printf("Holding match %s for player %s", event.GameID, playerID)
	gm.pendingMatches[playerID] = event
}

// MatchFor returns and forgets the match held for playerID, if any.
func (gm *GameManager) MatchFor(playerID string) (MatchFoundEvent, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	event, ok := gm.pendingMatches[playerID]
	if ok {
		delete(gm.pendingMatches, playerID)
	}
	return event, ok
}

// notifyMatch sends event on playerID's matchmaking channel and retires the
// channel. The caller holds gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal match event: %v", err)
		return false
	}
	delete(gm.matchingChannels, playerID)
	defer close(ch)

	select {
	case ch <- string(payload):
		return true
	default:
		log.Printf("Failed to send match event to player %s", playerID)
		return false
	}
}

// CreateGame registers a new game starting from board.
func (gm *GameManager) CreateGame(gameID string, board model.Board) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return fmt.Errorf("create %s: %w", gameID, ErrGameExists)
	}

	gm.games[gameID] = model.NewGame(gameID, board)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}

	return game, nil
}

// JoinMatchmaking queues playerID. A held match from an earlier search is
// dropped once the player queues again.
func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		log.Printf("Error adding player to matchmaking queue: %v", err)
		return err
	}
	delete(gm.pendingMatches, playerID)
	return nil
}

// LeaveMatchmaking removes playerID from the queue.
func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
