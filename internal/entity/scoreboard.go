package entity

// Scoreboard holds the cumulative outcome counters of a session.
type Scoreboard struct {
	PlayerWins   int `json:"player_wins"`
	ComputerWins int `json:"computer_wins"`
	Draws        int `json:"draws"`
}

func (that *Scoreboard) RecordPlayerWin() {
	that.PlayerWins++
}

func (that *Scoreboard) RecordComputerWin() {
	that.ComputerWins++
}

func (that *Scoreboard) RecordDraw() {
	that.Draws++
}

// Snapshot returns a copy of the counters.
func (that *Scoreboard) Snapshot() Scoreboard {
	return *that
}

// Rounds is the number of completed rounds.
func (that *Scoreboard) Rounds() int {
	return that.PlayerWins + that.ComputerWins + that.Draws
}
