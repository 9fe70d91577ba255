// susen.go - a web-based Sudoku game and teaching tool.
// Copyright (C) 2015 Daniel C. Brotsky.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
// Licensed under the LGPL v3.  See the LICENSE file for details

package puzzle

import (
	"fmt"
)

/*

Errors

*/

// An Error describes a problem with a puzzle description, a
// requested move, or a params string. It can produce an error
// message in English, but its main function is to support localized
// error messaging by clients: it tells the client "this thing failed
// to meet this condition", with supplemental details about the thing
// and the condition.
type Error struct {
	Scope     ErrorScope     `json:"scope"`
	Structure ErrorStructure `json:"structure,omitempty"`
	Condition ErrorCondition `json:"condition,omitempty"`
	Attribute ErrorAttribute `json:"attribute,omitempty"`
	Values    ErrorData      `json:"values,omitempty"`
	Message   string         `json:"message,omitempty"` // custom message
}

// An ErrorScope explains what part of the system the error concerns.
type ErrorScope int

// Constants for the various error scopes.
const (
	UnknownScope ErrorScope = iota
	ArgumentScope
	CodecScope
	MoveScope
	SolverScope
	InternalScope
	MaxScope
)

// The ErrorStructure denotes whether the problem is in the overall
// Scope, an Attribute of the Scope, or the value of an Attribute.
type ErrorStructure int

// Constants for the various structure codes.
const (
	UnknownStructure ErrorStructure = iota
	ScopeStructure
	AttributeStructure
	AttributeValueStructure
	MaxStructure
)

// The ErrorCondition is the predicate that the scope/attribute/value
// failed to satisfy.
type ErrorCondition int

// Constants for the various error conditions.
const (
	UnknownCondition ErrorCondition = iota
	GeneralCondition
	MalformedParamsCondition
	UnsupportedSizeCondition
	WrongCellCountCondition
	TooMuchDataCondition
	NotEnoughDataCondition
	OutOfRangeNumberCondition
	ExpectingNumberCondition
	ExpectingFlagCondition
	MissingSeparatorCondition
	FlagsOffGridCondition
	FlagsContradictingCondition
	InvalidPuzzleCondition
	ImmutableBitCondition
	OutOfRangeMoveCondition
	MalformedMoveCondition
	MaxCondition
)

// An ErrorAttribute names the attribute that has a problem.
type ErrorAttribute int

// Constants for the various attribute codes.
const (
	UnknownAttribute ErrorAttribute = iota
	ParamsAttribute
	DescriptionAttribute
	CellAttribute
	PositionAttribute
	BitAttribute
	MoveAttribute
	MaxAttribute
)

// The ErrorData provides details about the thing that failed to meet
// the predicate, and the predicate's own parameters. Every item must
// be JSON-serializable so it can be returned to web clients.
type ErrorData []interface{}

// Error returns an error string. If the Error has a pre-canned
// message, it is used verbatim (this is how the exact strings named
// in spec.md §6.2/§7 are produced); otherwise a generic message is
// built from the scope/structure/condition/attribute.
func (e Error) Error() string {
	if len(e.Message) > 0 {
		return e.Message
	}
	values := e.Values
	nextVal := func() interface{} {
		if len(values) == 0 {
			return "<unknown>"
		}
		val := values[0]
		values = values[1:]
		return val
	}
	var es string
	switch e.Scope {
	case ArgumentScope:
		es = "Invalid argument: "
	case CodecScope:
		es = "Invalid game description: "
	case MoveScope:
		es = "Invalid move: "
	case SolverScope:
		es = "Solver error: "
	case InternalScope:
		es = "Internal logic error: "
	default:
		es = "Unknown error: "
	}
	if e.Structure == AttributeStructure || e.Structure == AttributeValueStructure {
		switch e.Attribute {
		case ParamsAttribute:
			es += "Params"
		case DescriptionAttribute:
			es += "Description"
		case CellAttribute:
			es += "Cell"
		case PositionAttribute:
			es += "Position"
		case BitAttribute:
			es += "Bit"
		case MoveAttribute:
			es += "Move"
		default:
			es += "<Unknown attribute>"
		}
		if e.Structure == AttributeValueStructure {
			es += fmt.Sprintf(" (%v)", nextVal())
		}
		es += ": "
	}
	switch e.Condition {
	case GeneralCondition:
		es += fmt.Sprint(nextVal())
	case MalformedParamsCondition:
		es += fmt.Sprintf("Could not parse params string %q", nextVal())
	case UnsupportedSizeCondition:
		es += "Currently only 4x4 puzzles are supported"
	case WrongCellCountCondition:
		es += "W*H must equal 2^N"
	case TooMuchDataCondition:
		es += "Too much data to fill grid"
	case NotEnoughDataCondition:
		es += "Not enough data to fill grid"
	case OutOfRangeNumberCondition:
		es += "Out-of-range number in game description"
	case ExpectingNumberCondition:
		es += "Expecting number in game description"
	case ExpectingFlagCondition:
		es += "Expecting flag URDL in game description"
	case MissingSeparatorCondition:
		es += "Missing separator"
	case FlagsOffGridCondition:
		es += "Flags go off grid"
	case FlagsContradictingCondition:
		es += "Flags contradicting each other"
	case InvalidPuzzleCondition:
		es += "Puzzle is invalid."
	case ImmutableBitCondition:
		es += fmt.Sprintf("Bit %v of cell %v is fixed by the puzzle", nextVal(), nextVal())
	case OutOfRangeMoveCondition:
		es += fmt.Sprintf("Move %v is out of range", nextVal())
	case MalformedMoveCondition:
		es += fmt.Sprintf("Could not parse move %q", nextVal())
	default:
		es += fmt.Sprintf("Supplemental data is %v", values)
	}
	return es
}
