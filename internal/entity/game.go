package entity

import (
	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize  = 3
	MaxPlayers = 2
)

// winLines are the 8 winning lines: 3 rows, 3 columns, 2 diagonals.
var winLines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is a fixed 3x3 grid, row-major. Cells hold PlayerX, PlayerO or EmptyCell.
type Board [BoardSize][BoardSize]string

// Game holds the state and rules of one tic-tac-toe match. It knows nothing
// about rooms or connections and does no locking; the owning room serializes
// access to it.
type Game struct {
	board     Board
	players   []*Player
	turnIndex int
	winner    *Player
	ended     bool
}

// State is a read-only snapshot of a game, shaped for the game_state event.
type State struct {
	Board        Board     `json:"board"`
	Players      []*Player `json:"players"`
	PlayerToMove *Player   `json:"player_to_move"`
	Winner       *Player   `json:"winner"`
	Ended        bool      `json:"ended"`
}

func NewGame() *Game {
	return &Game{}
}

// AddPlayer seats a player. The first joiner is always X, the second always O;
// a third is rejected with ErrRoomFull.
func (that *Game) AddPlayer(id, name string) (*Player, error) {
	if len(that.players) >= MaxPlayers {
		return nil, apperror.ErrRoomFull
	}

	symbol := PlayerX
	if len(that.players) == 1 {
		symbol = PlayerO
	}

	player := &Player{ID: id, Name: name, Symbol: symbol}
	that.players = append(that.players, player)

	return player, nil
}

// RemovePlayer drops a player from the roster. The surviving join order
// defines a fresh symbol assignment (the remaining player becomes X), since
// every removal is followed by a Reset and a brand-new match.
func (that *Game) RemovePlayer(id string) bool {
	for i, player := range that.players {
		if player.ID != id {
			continue
		}

		that.players = append(that.players[:i], that.players[i+1:]...)
		that.reassignSymbols()

		return true
	}

	return false
}

func (that *Game) reassignSymbols() {
	for i, player := range that.players {
		if i == 0 {
			player.Symbol = PlayerX
		} else {
			player.Symbol = PlayerO
		}
	}
}

// MakeMove applies one validated move. It rejects when the game has ended,
// when the mover is not the player to move (an unknown mover counts as that),
// when the coordinates fall outside the board, or when the cell is taken.
// A winning or drawing move sets the terminal state and does not advance the
// turn; any other valid move passes the turn to the next player.
func (that *Game) MakeMove(playerID string, row, col int) error {
	if that.ended {
		return apperror.ErrGameFinished
	}

	current := that.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return apperror.ErrNotYourTurn
	}

	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return apperror.ErrCellOutOfBounds
	}

	if that.board[row][col] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.board[row][col] = current.Symbol

	switch {
	case that.hasWin(current.Symbol):
		that.winner = current
		that.ended = true
	case that.isBoardFull():
		that.ended = true
	default:
		that.turnIndex = (that.turnIndex + 1) % len(that.players)
	}

	return nil
}

func (that *Game) hasWin(symbol string) bool {
	for _, line := range winLines {
		a, b, c := line[0], line[1], line[2]
		if that.board[a[0]][a[1]] == symbol &&
			that.board[b[0]][b[1]] == symbol &&
			that.board[c[0]][c[1]] == symbol {
			return true
		}
	}

	return false
}

func (that *Game) isBoardFull() bool {
	for _, row := range that.board {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

// Reset clears the board, the turn index and the terminal state. The roster
// is kept: the same two players can immediately play another round.
func (that *Game) Reset() {
	that.board = Board{}
	that.turnIndex = 0
	that.winner = nil
	that.ended = false
}

func (that *Game) Board() Board {
	return that.board
}

func (that *Game) Players() []*Player {
	players := make([]*Player, len(that.players))
	copy(players, that.players)

	return players
}

// CurrentPlayer returns the player to move, or nil while the roster is empty.
// After a terminal move the turn index stays put, so this still points at the
// player who ended the game.
func (that *Game) CurrentPlayer() *Player {
	if len(that.players) == 0 {
		return nil
	}

	return that.players[that.turnIndex%len(that.players)]
}

func (that *Game) Winner() *Player {
	return that.winner
}

func (that *Game) IsEnded() bool {
	return that.ended
}

func (that *Game) PlayerCount() int {
	return len(that.players)
}

func (that *Game) IsFull() bool {
	return len(that.players) >= MaxPlayers
}

func (that *Game) Status() string {
	switch {
	case that.ended:
		return StatusFinished
	case len(that.players) < MaxPlayers:
		return StatusWaiting
	default:
		return StatusOngoing
	}
}

// Snapshot copies the visible game state for broadcasting.
func (that *Game) Snapshot() State {
	return State{
		Board:        that.board,
		Players:      that.Players(),
		PlayerToMove: that.CurrentPlayer(),
		Winner:       that.winner,
		Ended:        that.ended,
	}
}
