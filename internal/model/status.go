package model

type StatusKind string

const (
	StatusInProgress StatusKind = "inProgress"
	StatusCheckmate  StatusKind = "checkmate"
	StatusStalemate  StatusKind = "stalemate"
	StatusResigned   StatusKind = "resigned"
	StatusDrawAgreed StatusKind = "drawAgreed"
)

// GameStatus is InProgress or one of the four terminal outcomes. Winner is
// set only for checkmate and resignation.
type GameStatus struct {
	Kind   StatusKind `json:"kind"`
	Winner Color      `json:"winner,omitempty"`
}

var InProgress = GameStatus{Kind: StatusInProgress}

func Checkmate(winner Color) GameStatus {
	return GameStatus{Kind: StatusCheckmate, Winner: winner}
}

func Resigned(winner Color) GameStatus {
	return GameStatus{Kind: StatusResigned, Winner: winner}
}

var (
	Stalemate  = GameStatus{Kind: StatusStalemate}
	DrawAgreed = GameStatus{Kind: StatusDrawAgreed}
)

func (s GameStatus) IsOver() bool {
	return s.Kind != StatusInProgress
}

func (s GameStatus) String() string {
	switch s.Kind {
	case StatusCheckmate:
		return s.Winner.String() + " won by checkmate"
	case StatusResigned:
		return s.Winner.String() + " won by resignation"
	case StatusStalemate:
		return "Draw by stalemate"
	case StatusDrawAgreed:
		return "Draw by agreement"
	}
	return "Normal play"
}
