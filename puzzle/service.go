package puzzle

import (
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BoardState is the wire representation of a board: its params, its
// current description (so the client can round-trip it), and the
// validator's current verdict. It intentionally carries the encoded
// description rather than raw known/mask arrays, matching spec.md
// §4.4's "board codec is the interchange format" design.
type BoardState struct {
	Params      string `json:"params"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Completed   bool   `json:"completed"`
}

func stateOf(p Params, b *Board) BoardState {
	return BoardState{
		Params:      p.String(),
		Description: b.Encode(),
		Status:      Validate(b, nil, nil).String(),
		Completed:   b.Completed(),
	}
}

// writeJSON writes obj as the JSON response body with the given
// status code. It reports no write error to the caller.
func writeJSON(c *gin.Context, status int, obj interface{}) {
	c.JSON(status, obj)
}

// writeError translates a puzzle.Error (or any error) into a JSON
// error body sent with the caller-chosen status code; a puzzle.Error
// also contributes its scope and condition to the body.
func writeError(c *gin.Context, status int, err error) {
	body := gin.H{"message": err.Error()}
	if pe, ok := err.(Error); ok {
		body["scope"] = pe.Scope
		body["condition"] = pe.Condition
	}
	c.JSON(status, body)
}

// A GenerateRequest asks for a freshly generated puzzle.
type GenerateRequest struct {
	Params string `json:"params"`
	Seed   int64  `json:"seed"`
}

// GenerateHandler handles POST /api/puzzles: generate a new puzzle.
func GenerateHandler(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	p := DefaultParams
	if req.Params != "" {
		parsed, err := ParseParams(req.Params)
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		p = parsed
	}
	rng := rand.New(rand.NewSource(req.Seed))
	board, err := Generate(p, rng)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	writeJSON(c, http.StatusCreated, stateOf(p, board))
}

// A StateRequest identifies a board by params and description.
type StateRequest struct {
	Params      string `json:"params" form:"params"`
	Description string `json:"description" form:"description"`
}

func loadBoard(req StateRequest) (Params, *Board, error) {
	p, err := ParseParams(req.Params)
	if err != nil {
		return Params{}, nil, err
	}
	b, err := ParseDescription(p, req.Description)
	if err != nil {
		return Params{}, nil, err
	}
	return p, b, nil
}

// StateHandler handles GET /api/puzzles/state: parse a description and
// return its current status.
func StateHandler(c *gin.Context) {
	var req StateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	p, b, err := loadBoard(req)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	writeJSON(c, http.StatusOK, stateOf(p, b))
}

// An AssignRequest applies one move to a board.
type AssignRequest struct {
	Params      string `json:"params"`
	Description string `json:"description"`
	Move        string `json:"move"`
}

// AssignHandler handles POST /api/puzzles/assign: apply a move and return
// the resulting board state.
func AssignHandler(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	p, b, err := loadBoard(StateRequest{Params: req.Params, Description: req.Description})
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	move, err := ParseMove(b, req.Move)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	var update Update
	switch m := move.(type) {
	case *BitMove:
		update, err = b.Apply(m)
	case *SolveMove:
		update, err = b.ApplySolve(m)
	}
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"update": update,
		"state":  stateOf(p, b),
	})
}

// SolveHandler handles POST /api/puzzles/solve: compute the solve move
// that would take a board straight to its solution.
func SolveHandler(c *gin.Context) {
	var req StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	_, b, err := loadBoard(req)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	move, err := SolveMoveFor(b)
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(c, http.StatusOK, move)
}

// Routes registers every handler on a gin engine, grouped under
// /api/puzzles the way the teacher's service.go grouped its Sudoku
// endpoints under a single mux.
func Routes(r gin.IRouter) {
	g := r.Group("/api/puzzles")
	g.POST("", GenerateHandler)
	g.GET("/state", StateHandler)
	g.POST("/assign", AssignHandler)
	g.POST("/solve", SolveHandler)
}
