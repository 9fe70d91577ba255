// susen.go - a web-based Sudoku game and teaching tool.
// Copyright (C) 2015-2016 Daniel C. Brotsky.
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

package storage

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/dcbrotsky/subsets/puzzle"
)

// A Session tracks the user's current step in the solving of a
// puzzle. Behind the scenes, we persist every prior step the user
// has taken, so they can undo prior moves.
type Session struct {
	// these elements are persisted as part of the session
	SID     string // session ID
	PID     string // ID of the puzzle being solved
	Step    int    // current step
	Created string // RFC3339 time when the session was created
	Saved   string // RFC3339 time when the session was last saved

	// these elements are persisted in the steps, serialized as JSON
	Board *puzzle.Board `redis:"-"` // board at the current step
}

/*

session manipulation

*/

// StartPuzzle: set the puzzle ID for the current session and clear
// any existing solving steps. If the given puzzle ID is empty, try
// using the session's current puzzle ID. If it's unknown, fall back
// to loading a fresh puzzle for the given params via generation is
// the caller's responsibility - StartPuzzle only ever loads an
// already-persisted puzzle.
func (session *Session) StartPuzzle(pid string) {
	if pid == "" {
		pid = session.PID
	}
	board, err := LoadPuzzle(pid)
	if err != nil {
		log.Printf("Failed to load puzzle %q: %v", pid, err)
		panic(err)
	}
	session.PID = pid
	session.Board = board

	session.Saved = time.Now().Format(time.RFC3339)
	session.Step = 1
	bytes := session.marshalStep()
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		tx.Send("DEL", session.stepsKey())
		_, err = tx.Do("RPUSH", session.stepsKey(), bytes)
		if err != nil {
			log.Printf("Redis error on save of session %q after reset: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	log.Printf("Reset session %v to start solving puzzle %q.", session.SID, session.PID)
}

// AddStep: push the current board as a new step.
func (session *Session) AddStep() {
	session.Saved = time.Now().Format(time.RFC3339)
	session.Step++
	bytes := session.marshalStep()
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		_, err = tx.Do("RPUSH", session.stepsKey(), bytes)
		if err != nil {
			log.Printf("Redis error on save of %s:%q step %d: %v", session.SID, session.PID, session.Step, err)
		}
		return
	}
	rdExecute(body)
	log.Printf("Added session %v:%v step %d.", session.SID, session.PID, session.Step)
}

// RemoveStep: remove the last step and restore the prior step's board.
func (session *Session) RemoveStep() {
	if session.Step <= 1 {
		return
	}

	var bytes []byte
	session.Saved = time.Now().Format(time.RFC3339)
	session.Step--
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		tx.Send("LTRIM", session.stepsKey(), 0, -2)
		bytes, err = redis.Bytes(tx.Do("LINDEX", session.stepsKey(), -1))
		if err != nil {
			log.Printf("Error on remove to %s:%q step %d: %v",
				session.SID, session.PID, session.Step, err)
		}
		return
	}
	rdExecute(body)
	session.unmarshalStep(bytes)
	log.Printf("Reverted session %v:%v to step %d.", session.SID, session.PID, session.Step)
}

// Lookup: lookup a session for an ID.
func (session *Session) Lookup() (found bool) {
	body := func(tx redis.Conn) error {
		vals, err := redis.Values(tx.Do("HGETALL", session.key()))
		if len(vals) > 0 {
			if err := redis.ScanStruct(vals, session); err != nil {
				log.Printf("Redis error on parse of saved session %q: %v", session.SID, err)
				return err
			}
			found = true
			return nil
		}
		if err != nil {
			log.Printf("Redis error on GET of session %q pid: %v", session.SID, err)
			return err
		}
		log.Printf("No redis saved summary for session %q", session.SID)
		return nil
	}
	rdExecute(body)
	return
}

// LoadStep: load the current step's board.
func (session *Session) LoadStep() {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("LINDEX", session.stepsKey(), -1))
		if err != nil {
			log.Printf("Error on load of %s:%q step %d: %v", session.SID, session.PID, session.Step, err)
		}
		return
	}
	rdExecute(body)
	session.unmarshalStep(bytes)
}

/*

serialization of board state into and out of the cache

*/

// stepEntry is the JSON shape persisted for each step: the full
// known/mask bounds for every cell, not just the immutable givens and
// clues that Board.Encode() emits, so an undo can restore an
// in-progress solve rather than collapsing it back to the puzzle's
// starting position.
type stepEntry struct {
	Known []puzzle.Value
	Mask  []puzzle.Value
}

func (session *Session) marshalStep() []byte {
	n := session.Board.Cells()
	entry := stepEntry{Known: make([]puzzle.Value, n), Mask: make([]puzzle.Value, n)}
	for i := 0; i < n; i++ {
		entry.Known[i] = session.Board.Known(i)
		entry.Mask[i] = session.Board.Mask(i)
	}
	bytes, err := json.Marshal(entry)
	if err != nil {
		log.Printf("Failed to marshal step of %s:%q step %d: %v",
			session.SID, session.PID, session.Step, err)
		panic(err)
	}
	return bytes
}

// unmarshalStep restores the board at a step by reloading the
// session's puzzle (for its immutable givens and clues) and replaying
// the step's known/mask bounds onto it.
func (session *Session) unmarshalStep(bytes []byte) {
	var entry stepEntry
	if err := json.Unmarshal(bytes, &entry); err != nil {
		log.Printf("Failed to unmarshal saved JSON of %s:%q step %d: %v",
			session.SID, session.PID, session.Step, err)
		panic(err)
	}
	board, err := LoadPuzzle(session.PID)
	if err != nil {
		log.Printf("Failed to reload puzzle %q for %s step %d: %v",
			session.PID, session.SID, session.Step, err)
		panic(err)
	}
	if _, err := board.ApplySolve(&puzzle.SolveMove{Known: entry.Known, Mask: entry.Mask}); err != nil {
		log.Printf("Failed to replay saved bounds for %s:%q step %d: %v",
			session.SID, session.PID, session.Step, err)
		panic(err)
	}
	session.Board = board
}

/*

session key generation

*/

func (session *Session) key() string {
	return "SID:" + session.SID
}

func (session *Session) stepsKey() string {
	return session.key() + ":Steps"
}
