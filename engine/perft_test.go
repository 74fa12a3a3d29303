package engine_test

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/corewindmill/goharbinger/engine"
)

// perftFixtures mirrors the shape of testdata/perft.yaml.
type perftFixtures struct {
	Positions []struct {
		Name  string         `yaml:"name"`
		FEN   string         `yaml:"fen"`
		Nodes map[int]uint64 `yaml:"nodes"`
	} `yaml:"positions"`
}

func loadPerftFixtures(t *testing.T) perftFixtures {
	t.Helper()
	data, err := os.ReadFile("../testdata/perft.yaml")
	if err != nil {
		t.Fatalf("reading perft fixtures: %v", err)
	}
	var fx perftFixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		t.Fatalf("parsing perft fixtures: %v", err)
	}
	return fx
}

// TestPerft checks every fixture position against its known node counts.
// In short mode, only depths cheap enough to run in a fraction of a second
// are exercised, since the deepest fixtures (startpos depth 6, kiwipete
// depth 5) visit well over a hundred million nodes.
func TestPerft(t *testing.T) {
	fx := loadPerftFixtures(t)
	for _, p := range fx.Positions {
		p := p
		t.Run(p.Name, func(t *testing.T) {
			pos, err := engine.ParseFEN(p.FEN)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", p.FEN, err)
			}
			for depth, want := range p.Nodes {
				if testing.Short() && depth > 4 {
					continue
				}
				got := engine.PerftNodes(pos, depth)
				if got != want {
					t.Errorf("perft(%s, depth=%d) = %d, want %d", p.Name, depth, got, want)
				}
				if err := pos.Verify(); err != nil {
					t.Fatalf("position invariant violated after perft(%s, %d): %v", p.Name, depth, err)
				}
			}
		})
	}
}

// TestPerftConcreteScenarios asserts a pair of well-known literal counts:
// the starting position has exactly 20 moves and none are captures, and
// perft 5 from it is 4,865,609.
func TestPerftConcreteScenarios(t *testing.T) {
	pos := engine.StartingPosition()
	var list engine.MoveList
	engine.GenerateMoves(pos, engine.ComputeConstraints(pos), &list)
	if list.Len() != 20 {
		t.Errorf("starting position move count = %d, want 20", list.Len())
	}
	if list.NCaptures != 0 {
		t.Errorf("starting position captures = %d, want 0", list.NCaptures)
	}

	startDepth5 := uint64(4865609)
	if got := engine.PerftNodes(engine.StartingPosition(), 5); got != startDepth5 {
		t.Errorf("perft(startpos, 5) = %d, want %d", got, startDepth5)
	}
}
