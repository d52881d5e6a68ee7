// Command demo plays a fixed opening on a fresh board and prints the board
// after every move.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/benbeisheim/simplechess-backend/internal/model"
)

type demoMove struct {
	player string
	piece  string
	from   model.Position
	to     model.Position
}

var demoMoves = []demoMove{
	{"Player 1 (White)", "Pawn", model.Position{X: 1, Y: 1}, model.Position{X: 1, Y: 3}},
	{"Player -1 (Black)", "Pawn", model.Position{X: 1, Y: 6}, model.Position{X: 1, Y: 4}},
	{"Player 1 (White)", "Knight", model.Position{X: 1, Y: 0}, model.Position{X: 2, Y: 2}},
	{"Player -1 (Black)", "Knight", model.Position{X: 1, Y: 7}, model.Position{X: 2, Y: 5}},
	{"Player 1 (White)", "Queen", model.Position{X: 4, Y: 0}, model.Position{X: 4, Y: 4}},
	{"Player -1 (Black)", "Bishop", model.Position{X: 2, Y: 7}, model.Position{X: 4, Y: 5}},
}

func main() {
	run(os.Stdout)
}

func run(out io.Writer) {
	board := model.NewBoard()
	board.SetOutput(out)

	fmt.Fprintln(out, "Initial Chessboard:")
	board.PrintBoard()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Simulating a chess game:")
	for _, m := range demoMoves {
		if board.MovePiece(m.from.X, m.from.Y, m.to.X, m.to.Y) {
			fmt.Fprintf(out, "%s moves %s from (%d, %d) to (%d, %d)\n", m.player, m.piece, m.from.X, m.from.Y, m.to.X, m.to.Y)
		} else {
			fmt.Fprintf(out, "Invalid move by %s: %s from (%d, %d) to (%d, %d)\n", m.player, m.piece, m.from.X, m.from.Y, m.to.X, m.to.Y)
		}
		board.PrintBoard()
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Final Chessboard:")
	board.PrintBoard()
}
