package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN of the initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// lostCastleRights[sq] is the castling rights mask forfeited the moment a
// piece moves onto or off of sq (king start square or rook start square).
var lostCastleRights [64]CastleRights

func init() {
	lostCastleRights[RankFile(0, 0)] = WhiteOOO
	lostCastleRights[RankFile(0, 4)] = WhiteOOO | WhiteOO
	lostCastleRights[RankFile(0, 7)] = WhiteOO
	lostCastleRights[RankFile(7, 0)] = BlackOOO
	lostCastleRights[RankFile(7, 4)] = BlackOOO | BlackOO
	lostCastleRights[RankFile(7, 7)] = BlackOO
}

// Position is the complete mutable state of a game in progress: piece
// placement (by bitboard and by square), side to move, castling rights, the
// en passant target square, the halfmove clock and fullmove counter, and the
// incrementally maintained Zobrist hash.
type Position struct {
	Pieces [FigureCount]Bitboard
	Colors [ColorCount]Bitboard
	Board  [64]PieceOnSquare

	SideToMove     Color
	CastleRights   CastleRights
	EnPassant      Square
	HalfmoveClock  int
	FullmoveNumber int

	Zobrist uint64
}

// NewPosition returns an empty position with no pieces placed, White to
// move, no castling rights and no en passant target.
func NewPosition() *Position {
	pos := &Position{EnPassant: NoSquare}
	for i := range pos.Board {
		pos.Board[i] = Empty
	}
	return pos
}

// StartingPosition returns the standard chess starting position.
func StartingPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Occupied returns every occupied square on the board.
func (pos *Position) Occupied() Bitboard {
	return pos.Colors[White] | pos.Colors[Black]
}

// ByPiece returns the squares occupied by figure of color c.
func (pos *Position) ByPiece(c Color, f Figure) Bitboard {
	return pos.Pieces[f] & pos.Colors[c]
}

// PieceAt returns the piece (possibly Empty) occupying sq.
func (pos *Position) PieceAt(sq Square) PieceOnSquare {
	return pos.Board[sq]
}

// King returns the square of color c's king.
func (pos *Position) King(c Color) Square {
	bb := pos.ByPiece(c, King)
	return Square(trailingZeros(uint64(bb)))
}

// Put places piece p on sq, updating bitboards, the board array and the
// Zobrist hash. sq must currently be empty.
func (pos *Position) Put(sq Square, p PieceOnSquare) {
	pos.Pieces[p.Kind] |= sq.Bitboard()
	pos.Colors[p.Color] |= sq.Bitboard()
	pos.Board[sq] = p
	pos.Zobrist ^= ZobristPiece[p.Color][p.Kind][sq]
}

// Remove clears sq, which must currently hold piece p, updating bitboards,
// the board array and the Zobrist hash.
func (pos *Position) Remove(sq Square, p PieceOnSquare) {
	pos.Pieces[p.Kind] &^= sq.Bitboard()
	pos.Colors[p.Color] &^= sq.Bitboard()
	pos.Board[sq] = Empty
	pos.Zobrist ^= ZobristPiece[p.Color][p.Kind][sq]
}

// HasNonPawnMaterial reports whether c has any piece other than pawns and
// king, used to guard null-move pruning against zugzwang.
func (pos *Position) HasNonPawnMaterial(c Color) bool {
	return pos.Colors[c]&^pos.Pieces[Pawn]&^pos.Pieces[King] != 0
}

// ParseFEN parses Forsyth-Edwards Notation into a new Position.
func ParseFEN(fen string) (*Position, error) {
	pos, err := parseFEN(fen)
	if err != nil {
		logFENError(fen, err)
	}
	return pos, err
}

func parseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, errInvalidFEN
	}
	// Halfmove clock and fullmove number are frequently omitted by callers
	// feeding partial FENs (e.g. from `position fen ... moves ...`); default
	// them rather than rejecting.
	for len(fields) < 6 {
		if len(fields) == 4 {
			fields = append(fields, "0")
		} else {
			fields = append(fields, "1")
		}
	}

	pos := NewPosition()
	if err := parsePlacement(fields[0], pos); err != nil {
		return nil, err
	}
	if err := parseSideToMove(fields[1], pos); err != nil {
		return nil, err
	}
	if err := parseCastling(fields[2], pos); err != nil {
		return nil, err
	}
	if err := parseEnPassant(fields[3], pos); err != nil {
		return nil, err
	}
	hc, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, errInvalidFEN
	}
	fm, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, errInvalidFEN
	}
	pos.HalfmoveClock = hc
	pos.FullmoveNumber = fm
	return pos, nil
}

var fenFigure = map[byte]Figure{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

func parsePlacement(s string, pos *Position) error {
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return errInvalidFEN
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range []byte(rankStr) {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			f, ok := fenFigure[byte(toLower(ch))]
			if !ok || file >= 8 {
				return errInvalidFEN
			}
			c := White
			if ch >= 'a' && ch <= 'z' {
				c = Black
			}
			pos.Put(RankFile(rank, file), PieceOnSquare{Kind: f, Color: c})
			file++
		}
		if file != 8 {
			return errInvalidFEN
		}
	}
	return nil
}

func parseSideToMove(s string, pos *Position) error {
	switch s {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
		pos.Zobrist ^= ZobristSideToMove
	default:
		return errInvalidFEN
	}
	return nil
}

func parseCastling(s string, pos *Position) error {
	if s == "-" {
		return nil
	}
	for _, ch := range []byte(s) {
		switch ch {
		case 'K':
			pos.CastleRights |= WhiteOO
		case 'Q':
			pos.CastleRights |= WhiteOOO
		case 'k':
			pos.CastleRights |= BlackOO
		case 'q':
			pos.CastleRights |= BlackOOO
		default:
			return errInvalidFEN
		}
	}
	pos.Zobrist ^= ZobristCastle[pos.CastleRights]
	return nil
}

func parseEnPassant(s string, pos *Position) error {
	if s == "-" {
		pos.EnPassant = NoSquare
		return nil
	}
	sq, err := SquareFromString(s)
	if err != nil {
		return errInvalidFEN
	}
	pos.EnPassant = sq
	pos.Zobrist ^= ZobristEnPassant[sq.File()]
	return nil
}

// FEN formats the position in Forsyth-Edwards Notation.
func (pos *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := pos.Board[RankFile(rank, file)]
			if p.Kind == NoFigure {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(pos.SideToMove.String())
	sb.WriteByte(' ')
	sb.WriteString(pos.CastleRights.String())
	sb.WriteByte(' ')
	sb.WriteString(pos.EnPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.HalfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.FullmoveNumber))
	return sb.String()
}

func (pos *Position) String() string { return pos.FEN() }

// Verify checks the position's internal invariants; it is used by tests,
// never on the hot path.
func (pos *Position) Verify() error {
	if pos.Colors[White]&pos.Colors[Black] != 0 {
		return fmt.Errorf("engine: a square is occupied by both colors")
	}
	var union Bitboard
	for f := Figure(0); f < FigureCount; f++ {
		if pos.Pieces[f]&union != 0 {
			return fmt.Errorf("engine: a square holds two figures")
		}
		union |= pos.Pieces[f]
	}
	if union != pos.Occupied() {
		return fmt.Errorf("engine: ByFigure/ByColor mismatch")
	}
	for c := Color(0); c < ColorCount; c++ {
		if pos.ByPiece(c, King).Popcount() != 1 {
			return fmt.Errorf("engine: color %v does not have exactly one king", c)
		}
	}
	for sq := 0; sq < 64; sq++ {
		p := pos.Board[sq]
		if p.Kind == NoFigure {
			if pos.Occupied().Has(Square(sq)) {
				return fmt.Errorf("engine: board/bitboard mismatch at %v", Square(sq))
			}
			continue
		}
		if !pos.ByPiece(p.Color, p.Kind).Has(Square(sq)) {
			return fmt.Errorf("engine: board/bitboard mismatch at %v", Square(sq))
		}
	}
	if pos.Pieces[Pawn]&(RankBitboard(0)|RankBitboard(7)) != 0 {
		return fmt.Errorf("engine: pawn on a promotion or home rank")
	}
	if pos.EnPassant != NoSquare {
		wantRank, pawnSq, them := 2, Square(int(pos.EnPassant)+8), White
		if pos.SideToMove == White {
			wantRank, pawnSq, them = 5, Square(int(pos.EnPassant)-8), Black
		}
		if pos.EnPassant.Rank() != wantRank || pos.Board[pawnSq] != (PieceOnSquare{Kind: Pawn, Color: them}) {
			return fmt.Errorf("engine: en passant square %v without a matching double push", pos.EnPassant)
		}
	}
	for _, h := range []struct {
		right CastleRights
		king  Square
		rook  Square
		color Color
	}{
		{WhiteOO, RankFile(0, 4), RankFile(0, 7), White},
		{WhiteOOO, RankFile(0, 4), RankFile(0, 0), White},
		{BlackOO, RankFile(7, 4), RankFile(7, 7), Black},
		{BlackOOO, RankFile(7, 4), RankFile(7, 0), Black},
	} {
		if pos.CastleRights&h.right == 0 {
			continue
		}
		if pos.Board[h.king] != (PieceOnSquare{Kind: King, Color: h.color}) ||
			pos.Board[h.rook] != (PieceOnSquare{Kind: Rook, Color: h.color}) {
			return fmt.Errorf("engine: castling right %v without king and rook at home", h.right)
		}
	}
	return nil
}
