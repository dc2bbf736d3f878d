// Command cli plays a game on the terminal, one command per line:
//
//	e2e4        move
//	e7e8=Q      move with promotion
//	@e2         show legal destinations from e2
//	!resign     side to move resigns
//	!draw       draw by agreement
//	!set <board-string>
//	!quit
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

func main() {
	layout := flag.String("layout", "", "starting board string (layout with optional w/b), default is the standard position")
	unicode := flag.Bool("unicode", false, "draw pieces as unicode glyphs")
	flag.Parse()

	board := model.NewBoard()
	if *layout != "" {
		parsed, err := model.ParseBoard(*layout)
		if err != nil {
			log.Fatalf("layout: %v", err)
		}
		board = parsed
	}

	draw := (*model.Board).String
	if *unicode {
		draw = (*model.Board).Pretty
	}
	if err := run(os.Stdin, os.Stdout, board, draw); err != nil {
		log.Fatal(err)
	}
}

// run plays one game reading commands from in. draw renders the board.
func run(in io.Reader, out io.Writer, board model.Board, draw func(*model.Board) string) error {
	game := model.NewChessGame(board)
	scanner := bufio.NewScanner(in)

	for !game.Status().IsOver() {
		b := game.Board()
		fmt.Fprintf(out, "-----------------%s\n-----------------\n%s to play:\n", draw(&b), game.ToMove())
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "!quit":
			return nil
		case line == "!resign":
			report(out, game.Resign())
		case line == "!draw":
			report(out, game.Draw())
		case strings.HasPrefix(line, "!set "):
			next, err := model.ParseBoard(strings.TrimPrefix(line, "!set "))
			if err != nil {
				report(out, err)
				continue
			}
			game = model.NewChessGame(next)
		case strings.HasPrefix(line, "@"):
			pos, err := model.ParsePosition(strings.TrimPrefix(line, "@"))
			if err != nil {
				report(out, err)
				continue
			}
			fmt.Fprintln(out, game.AvailableMoves(pos).String())
		default:
			move, err := model.ParseMove(line)
			if err != nil {
				report(out, err)
				continue
			}
			_, err = game.DoMove(move)
			report(out, err)
		}
	}

	b := game.Board()
	fmt.Fprintf(out, "%s\n%s\n", draw(&b), game.Status())
	return nil
}

func report(out io.Writer, err error) {
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}
