package model

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex

	// writeMu serializes writes; a connection allows one writer at a time.
	writeMu     sync.Mutex
	lastVersion uint64
}

// Game is one hosted game: the rules engine plus the players seated at it and
// the websocket connections watching it. All methods are safe for concurrent
// use.
type Game struct {
	ID          string
	mu          sync.Mutex
	version     uint64
	chess       *ChessGame
	players     Players
	sound       string
	lastMove    *MoveResult
	captured    CapturedPieces
	drawOffer   *DrawOffer
	connections *GameConnections
}

type DrawOffer struct {
	OfferedBy Color     `json:"offeredBy"`
	OfferedAt time.Time `json:"offeredAt"`
}

type CapturedPieces struct {
	// White holds the pieces white has captured.
	White       []Piece `json:"white"`
	Black       []Piece `json:"black"`
	WhitePoints int     `json:"whitePoints"`
	BlackPoints int     `json:"blackPoints"`
}

type GameState struct {
	ID             string         `json:"id"`
	Version        uint64         `json:"version"`
	Sound          string         `json:"sound"`
	Board          BoardState     `json:"boardState"`
	ToMove         Color          `json:"toMove"`
	IsCheck        bool           `json:"isCheck"`
	Status         GameStatus     `json:"status"`
	StatusText     string         `json:"statusText"`
	Players        Players        `json:"players"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	LastMove       *MoveResult    `json:"lastMove"`
	DrawOffer      *DrawOffer     `json:"drawOffer"`
}

func NewGame(id string, board Board) *Game {
	return &Game{
		ID:          id,
		chess:       NewChessGame(board),
		captured:    newCapturedPieces(),
		connections: NewGameConnections(),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

// AddPlayer seats playerID on the first free side. Rejoining returns the side
// already held.
func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.players.colorOf(playerID); ok {
		return color, nil
	}
	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: playerID, Color: White}
		return White, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: playerID, Color: Black}
		return Black, nil
	}
	return "", ErrGameFull
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	board := g.chess.Board()
	status := g.chess.Status()
	captured := CapturedPieces{
		White:       append(make([]Piece, 0, len(g.captured.White)), g.captured.White...),
		Black:       append(make([]Piece, 0, len(g.captured.Black)), g.captured.Black...),
		WhitePoints: g.captured.WhitePoints,
		BlackPoints: g.captured.BlackPoints,
	}
	var lastMove *MoveResult
	if g.lastMove != nil {
		lm := *g.lastMove
		lastMove = &lm
	}
	var drawOffer *DrawOffer
	if g.drawOffer != nil {
		offer := *g.drawOffer
		drawOffer = &offer
	}
	return GameState{
		ID:             g.ID,
		Version:        g.version,
		Sound:          g.sound,
		Board:          board.State(),
		ToMove:         board.ToMove(),
		IsCheck:        g.chess.InCheck(),
		Status:         status,
		StatusText:     status.String(),
		Players:        g.players,
		CapturedPieces: captured,
		LastMove:       lastMove,
		DrawOffer:      drawOffer,
	}
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.players.colorOf(playerID)
	return ok
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

// seatToMove returns playerID's side, failing unless that side is to move.
func (g *Game) seatToMove(playerID string) (Color, error) {
	color, ok := g.players.colorOf(playerID)
	if !ok {
		return "", ErrNotInGame
	}
	if color != g.chess.ToMove() {
		return "", ErrNotYourTurn
	}
	return color, nil
}

// AvailableMoves lists the legal destinations from p. Anyone may ask.
func (g *Game) AvailableMoves(p Position) SquareSet {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.chess.AvailableMoves(p)
}

func (g *Game) MakeMove(playerID string, move Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, err := g.seatToMove(playerID)
	if err != nil {
		return err
	}

	result, err := g.chess.DoMove(move)
	if err != nil {
		return err
	}

	if result.CapturedPiece != nil {
		g.sound = "capture"
		switch color {
		case White:
			g.captured.White = append(g.captured.White, *result.CapturedPiece)
			g.captured.WhitePoints += result.CapturedPiece.Type.Value()
		case Black:
			g.captured.Black = append(g.captured.Black, *result.CapturedPiece)
			g.captured.BlackPoints += result.CapturedPiece.Type.Value()
		}
	} else {
		g.sound = "move"
	}
	if g.chess.InCheck() {
		g.sound = "check"
	}
	g.lastMove = &result
	g.drawOffer = nil

	g.broadcastLocked()
	return nil
}

// Resign lets the player to move give up the game.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.seatToMove(playerID); err != nil {
		return err
	}
	if err := g.chess.Resign(); err != nil {
		return err
	}
	g.drawOffer = nil
	g.broadcastLocked()
	return nil
}

// OfferDraw records a draw offer from playerID. When the opponent already has
// an offer standing, the offer counts as acceptance and the game is drawn.
func (g *Game) OfferDraw(playerID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.players.colorOf(playerID)
	if !ok {
		return false, ErrNotInGame
	}
	if status := g.chess.Status(); status.IsOver() {
		return false, fmt.Errorf("offer draw: %w (%s)", ErrGameOver, status)
	}

	if g.drawOffer != nil && g.drawOffer.OfferedBy != color {
		if err := g.chess.Draw(); err != nil {
			return false, err
		}
		g.drawOffer = nil
		g.broadcastLocked()
		return true, nil
	}

	g.drawOffer = &DrawOffer{
		OfferedBy: color,
		OfferedAt: time.Now(),
	}
	g.broadcastLocked()
	return false, nil
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	connID := fmt.Sprintf("%p", conn)
	log.Printf("Starting RegisterConnection for player %s, conn %s", playerID, connID)

	g.mu.Lock()
	_, seated := g.players.colorOf(playerID)
	isAuthorized := seated || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return fmt.Errorf("register connection: %w", ErrNotInGame)
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Printf("Registered new connection %s for player %s", connID, playerID)

	g.mu.Lock()
	g.broadcastLocked()
	g.mu.Unlock()
	return nil
}

// UnregisterConnection forgets conn, unless playerID has since connected again
// on a newer connection.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists {
		if current == conn {
			log.Printf("Unregistering current connection %p for player %s", conn, playerID)
			delete(g.connections.connections, playerID)
		} else {
			log.Printf("Ignoring unregister for old connection %p for player %s", conn, playerID)
		}
	}
}

// broadcastLocked bumps the version and sends a snapshot in the background.
// The caller holds g.mu.
func (g *Game) broadcastLocked() {
	g.version++
	go g.broadcastState(g.snapshot())
}

// SendTo writes msg to playerID's connection, if it has one.
func (g *Game) SendTo(playerID string, msg ws.Message) error {
	g.connections.mu.RLock()
	conn, ok := g.connections.connections[playerID]
	g.connections.mu.RUnlock()
	if !ok {
		return nil
	}

	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

func (g *Game) broadcastState(state GameState) {
	jsonGameState, err := json.Marshal(state)
	if err != nil {
		log.Printf("Failed to marshal state to JSON: %v", err)
		return
	}

	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	// A newer snapshot already went out
	if state.Version < g.connections.lastVersion {
		return
	}
	g.connections.lastVersion = state.Version

	// Copy the connections so the map lock is not held while writing
	g.connections.mu.RLock()
	activeConnections := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(jsonGameState),
		}); err != nil {
			log.Printf("Failed to send state to player %s: %v", playerID, err)
			g.connections.mu.Lock()
			if g.connections.connections[playerID] == conn {
				delete(g.connections.connections, playerID)
			}
			g.connections.mu.Unlock()
		}
	}
}
