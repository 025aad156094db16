package engine

import (
	"strings"
	"testing"
)

func TestChessEngine_StartingPosition(t *testing.T) {
	eng := NewChessEngine()

	pos := eng.StartingPosition()
	if !strings.HasPrefix(string(pos), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w") {
		t.Errorf("Unexpected starting position: %s", pos)
	}

	seat, err := eng.TurnHolder(pos)
	if err != nil {
		t.Fatalf("TurnHolder failed: %v", err)
	}
	if seat != SeatWhite {
		t.Errorf("Expected white to move first, got %s", seat)
	}
}

func TestChessEngine_ApplyMove(t *testing.T) {
	eng := NewChessEngine()
	start := eng.StartingPosition()

	t.Run("legal move advances position", func(t *testing.T) {
		next, ok, err := eng.ApplyMove(start, Move{From: "e2", To: "e4"})
		if err != nil {
			t.Fatalf("ApplyMove failed: %v", err)
		}
		if !ok {
			t.Fatal("Expected e2e4 to be accepted")
		}
		if next == start {
			t.Error("Expected position to change after accepted move")
		}

		seat, err := eng.TurnHolder(next)
		if err != nil {
			t.Fatalf("TurnHolder failed: %v", err)
		}
		if seat != SeatBlack {
			t.Errorf("Expected black to move after e2e4, got %s", seat)
		}
	})

	t.Run("illegal move is rejected without mutation", func(t *testing.T) {
		next, ok, err := eng.ApplyMove(start, Move{From: "e2", To: "e5"})
		if err != nil {
			t.Fatalf("ApplyMove failed: %v", err)
		}
		if ok {
			t.Error("Expected e2e5 to be rejected")
		}
		if next != start {
			t.Error("Position must not change on rejection")
		}
	})

	t.Run("malformed move is rejected, not a fault", func(t *testing.T) {
		_, ok, err := eng.ApplyMove(start, Move{From: "zz", To: "99"})
		if err != nil {
			t.Fatalf("Malformed move should not be an engine fault: %v", err)
		}
		if ok {
			t.Error("Expected malformed move to be rejected")
		}
	})

	t.Run("undecodable position is a fault", func(t *testing.T) {
		_, _, err := eng.ApplyMove(Position("not a fen"), Move{From: "e2", To: "e4"})
		if err == nil {
			t.Error("Expected error for undecodable position")
		}
	})
}

func TestChessEngine_TerminalStatus(t *testing.T) {
	eng := NewChessEngine()

	tests := []struct {
		name string
		pos  Position
		want TerminalKind
	}{
		{
			name: "in progress",
			pos:  eng.StartingPosition(),
			want: TerminalNone,
		},
		{
			name: "checkmate",
			pos:  Position("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"),
			want: TerminalCheckmate,
		},
		{
			name: "stalemate",
			pos:  Position("k7/8/1Q6/8/8/8/8/7K b - - 0 1"),
			want: TerminalStalemate,
		},
		{
			name: "insufficient material",
			pos:  Position("k7/8/8/8/8/8/8/7K w - - 0 1"),
			want: TerminalInsufficientMaterial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eng.TerminalStatus(tt.pos)
			if err != nil {
				t.Fatalf("TerminalStatus failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestChessEngine_FoolsMateSequence(t *testing.T) {
	eng := NewChessEngine()
	pos := eng.StartingPosition()

	moves := []Move{
		{From: "f2", To: "f3"},
		{From: "e7", To: "e5"},
		{From: "g2", To: "g4"},
		{From: "d8", To: "h4"},
	}

	for i, mv := range moves {
		next, ok, err := eng.ApplyMove(pos, mv)
		if err != nil {
			t.Fatalf("Move %d (%s) failed: %v", i+1, mv, err)
		}
		if !ok {
			t.Fatalf("Move %d (%s) unexpectedly rejected", i+1, mv)
		}
		pos = next
	}

	status, err := eng.TerminalStatus(pos)
	if err != nil {
		t.Fatalf("TerminalStatus failed: %v", err)
	}
	if status != TerminalCheckmate {
		t.Errorf("Expected checkmate after fool's mate, got %q", status)
	}
}

func TestSeat_Opponent(t *testing.T) {
	if SeatWhite.Opponent() != SeatBlack {
		t.Error("Expected black to oppose white")
	}
	if SeatBlack.Opponent() != SeatWhite {
		t.Error("Expected white to oppose black")
	}
}

func TestMove_UCI(t *testing.T) {
	if got := (Move{From: "e2", To: "e4"}).UCI(); got != "e2e4" {
		t.Errorf("Expected e2e4, got %s", got)
	}
	if got := (Move{From: "e7", To: "e8", Promotion: "q"}).UCI(); got != "e7e8q" {
		t.Errorf("Expected e7e8q, got %s", got)
	}
}
