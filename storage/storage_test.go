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
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/dcbrotsky/subsets/dbprep"
	"github.com/dcbrotsky/subsets/puzzle"
)

// we are creating sessions up the wazoo; make sure they don't
// persist past the end of the test run.
func TestMain(m *testing.M) {
	os.Setenv("DBPREP_PATH", filepath.Join("..", "dbprep"))
	if err := dbprep.ReinitializeAll(); err != nil {
		panic(fmt.Errorf("Failed to reinitialize data at startup: %v", err))
	}
	defer func(code int) {
		if code == 0 {
			if err := dbprep.ReinitializeAll(); err != nil {
				panic(fmt.Errorf("Failed to reinitialize data at teardown: %v", err))
			}
		}
		os.Exit(code)
	}(m.Run())
}

func TestConnect(t *testing.T) {
	os.Setenv("DBPREP_PATH", filepath.Join("..", "dbprep"))
	if cid, dbid, err := Connect(); err != nil {
		t.Errorf("Couldn't connect to storage: %v", err)
	} else if cid != rdUrl || dbid != pgUrl {
		t.Errorf("Connected to wrong cache (%s) or wrong database (%s)", cid, dbid)
	}
	Close()
}

func TestSampleGallery(t *testing.T) {
	os.Setenv("DBPREP_PATH", filepath.Join("..", "dbprep"))
	if _, _, err := Connect(); err != nil {
		t.Fatalf("Couldn't connect to storage: %v", err)
	}
	defer Close()

	infos, err := SampleGallery()
	if err != nil {
		t.Fatalf("SampleGallery: %v", err)
	}
	if len(infos) == 0 {
		t.Errorf("No sample gallery entries")
	}
	for _, info := range infos {
		if _, err := LoadPuzzle(info.PuzzleId); err != nil {
			t.Errorf("LoadPuzzle(%s): %v", info.PuzzleId, err)
		}
	}
}

func TestSaveAndLoadPuzzle(t *testing.T) {
	os.Setenv("DBPREP_PATH", filepath.Join("..", "dbprep"))
	if _, _, err := Connect(); err != nil {
		t.Fatalf("Couldn't connect to storage: %v", err)
	}
	defer Close()

	board, err := puzzle.Generate(puzzle.DefaultParams, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	id, err := SavePuzzle(board)
	if err != nil {
		t.Fatalf("SavePuzzle: %v", err)
	}

	loaded, err := LoadPuzzle(id)
	if err != nil {
		t.Fatalf("LoadPuzzle: %v", err)
	}
	if loaded.Encode() != board.Encode() {
		t.Errorf("LoadPuzzle round-trip = %q, want %q", loaded.Encode(), board.Encode())
	}

	// saving the same board again must be idempotent
	id2, err := SavePuzzle(board)
	if err != nil {
		t.Fatalf("SavePuzzle (again): %v", err)
	}
	if id2 != id {
		t.Errorf("SavePuzzle not idempotent: got %q and %q for the same board", id, id2)
	}
}

func TestSessionSteps(t *testing.T) {
	os.Setenv("DBPREP_PATH", filepath.Join("..", "dbprep"))
	if _, _, err := Connect(); err != nil {
		t.Fatalf("Couldn't connect to storage: %v", err)
	}
	defer Close()

	board, err := puzzle.Generate(puzzle.DefaultParams, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	pid, err := SavePuzzle(board)
	if err != nil {
		t.Fatalf("SavePuzzle: %v", err)
	}

	s := &Session{SID: "test-session-1"}
	s.StartPuzzle(pid)
	if s.Step != 1 {
		t.Errorf("StartPuzzle: Step = %d, want 1", s.Step)
	}

	if _, err := s.Board.Apply(bitMoveOrPanic(t, s.Board)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	s.AddStep()
	if s.Step != 2 {
		t.Errorf("AddStep: Step = %d, want 2", s.Step)
	}

	s.RemoveStep()
	if s.Step != 1 {
		t.Errorf("RemoveStep: Step = %d, want 1", s.Step)
	}

	loaded := &Session{SID: "test-session-1"}
	if !loaded.Lookup() {
		t.Fatalf("Lookup: session not found")
	}
	if loaded.PID != pid {
		t.Errorf("Lookup: PID = %q, want %q", loaded.PID, pid)
	}
}

// bitMoveOrPanic finds a legal move against a mutable cell on b so
// callers can exercise Apply without hand-picking a position.
func bitMoveOrPanic(t *testing.T, b *puzzle.Board) *puzzle.BitMove {
	t.Helper()
	// find a non-immutable cell/bit to toggle
	for i := 0; i < b.Cells(); i++ {
		if b.Immutable(i) != puzzle.Value((1<<uint(b.N))-1) {
			return &puzzle.BitMove{Op: puzzle.ResetBit, Position: i, Bit: 0}
		}
	}
	t.Fatalf("no mutable cell found on generated board")
	return nil
}
