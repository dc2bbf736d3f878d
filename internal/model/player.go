package model

type Player struct {
	ID string
}

type ClientPlayer struct {
	ID    string `json:"name"`
	Color Color  `json:"color"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// colorOf reports which side playerID plays.
func (p Players) colorOf(playerID string) (Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case p.White.ID == playerID:
		return White, true
	case p.Black.ID == playerID:
		return Black, true
	}
	return "", false
}
