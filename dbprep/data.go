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

package dbprep

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dcbrotsky/subsets/puzzle"
)

/*

entries

*/

type dataFunction func(context.Context, pgx.Tx) error

var (
	upFunctions = []dataFunction{
		insertSamples,
	}
	downFunctions = []dataFunction{
		deleteSamples,
	}
)

// DataUp: load the sample data into the database.  You should do
// this after you get the schema up!
func DataUp() error {
	return applyFunctions(upFunctions)
}

// DataDown: remove the sample data from the database.  You
// should do this before you tear the schema down!
func DataDown() error {
	return applyFunctions(downFunctions)
}

// apply dataFunctions to the database.  Each is applied in a
// separate transaction, so later ones can rely on the effect of
// earlier ones having been committed.
func applyFunctions(fns []dataFunction) error {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = "postgres://localhost/subsets?sslmode=disable"
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	// helper that runs each function inside a transaction, and
	// ensures that any problems are rolled back.
	runFunc := func(fn dataFunction) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if e := recover(); e != nil {
				tx.Rollback(ctx)
				panic(e)
			}
		}()
		if err := fn(ctx, tx); err != nil {
			tx.Rollback(ctx)
			return err
		}
		return tx.Commit(ctx)
	}

	// run the functions
	for _, fn := range fns {
		if err := runFunc(fn); err != nil {
			return fmt.Errorf("%v failed: %v", fn, err)
		}
	}
	return nil
}

/*

insert sample puzzles in a special session

*/

const SampleSessionName = "Subsets Sample Session - not a user session"

// sampleSeeds picks the RNG seeds used to generate the gallery of
// sample puzzles at package init time. Fixed seeds keep the gallery
// stable across restarts without hand-authoring puzzle text.
var sampleSeeds = []int64{101, 202, 303, 404, 505, 606, 707, 808, 909, 1010}

type sampleEntry struct {
	params      puzzle.Params
	description string
}

var (
	samplePuzzles []sampleEntry
	sampleHashes  []string // see init
	sampleNames   []string // see init
)

// initialize the sample gallery, its hashes, and its names
func init() {
	samplePuzzles = make([]sampleEntry, len(sampleSeeds))
	for i, seed := range sampleSeeds {
		b, err := puzzle.Generate(puzzle.DefaultParams, rand.New(rand.NewSource(seed)))
		if err != nil {
			panic(fmt.Errorf("Can't happen! Sample seed %d didn't generate: %v", seed, err))
		}
		samplePuzzles[i] = sampleEntry{params: b.Params, description: b.Encode()}
	}
	sampleHashes = make([]string, len(samplePuzzles))
	for i, sp := range samplePuzzles {
		sum := sha256.Sum256([]byte(sp.params.String() + ":" + sp.description))
		sampleHashes[i] = strings.ToUpper(hex.EncodeToString(sum[:]))[:16]
	}
	sampleNames = make([]string, len(samplePuzzles))
	for i := range samplePuzzles {
		sampleNames[i] = fmt.Sprintf("sample-%d", i+1)
	}
}

// Create and insert the sample puzzles and sample session
func insertSamples(ctx context.Context, tx pgx.Tx) error {
	// idempotency: if the sample session already exists, we are done
	var count int64
	row := tx.QueryRow(ctx, "SELECT COUNT(*) FROM sessions "+
		"WHERE sessionId = $1", SampleSessionName)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("Database error looking for session %q: %v", SampleSessionName, err)
	}
	if count > 0 {
		return nil
	}

	// get the timestamp of this load
	now := time.Now()

	// first save the puzzles
	for i, sp := range samplePuzzles {
		_, err := tx.Exec(ctx,
			"INSERT INTO puzzles (puzzleId, params, description, created) "+
				"VALUES ($1, $2, $3, $4)",
			sampleHashes[i], sp.params.String(), sp.description, now)
		if err != nil {
			return fmt.Errorf("Database error saving sample puzzle %d: %v", i, err)
		}
	}

	// next save the session
	_, err := tx.Exec(ctx,
		"INSERT INTO sessions (sessionId, created, updated) "+
			"VALUES ($1, $2, $3)",
		SampleSessionName, now, now)
	if err != nil {
		return fmt.Errorf("Database error saving sample session: %v", err)
	}

	// next save the session entries
	for i := range samplePuzzles {
		_, err := tx.Exec(ctx,
			"INSERT INTO sessionPuzzles (sessionId, puzzleId, puzzleName, lastWorked) "+
				"VALUES ($1, $2, $3, $4)",
			SampleSessionName, sampleHashes[i], sampleNames[i], now)
		if err != nil {
			return fmt.Errorf("Database error saving sample session puzzle %d: %v", i, err)
		}
	}

	return nil
}

// Delete the common puzzles
func deleteSamples(ctx context.Context, tx pgx.Tx) error {
	// first remove the puzzle summaries from the database
	_, err := tx.Exec(ctx,
		"DELETE from sessionPuzzles where sessionId = $1", SampleSessionName)
	if err != nil {
		return fmt.Errorf("Database error deleting sample session: %v", err)
	}

	// then remove the session
	_, err = tx.Exec(ctx,
		"DELETE from sessions where sessionId = $1", SampleSessionName)
	if err != nil {
		return fmt.Errorf("Database error deleting sample session: %v", err)
	}

	// then remove the puzzles themselves
	for i, hash := range sampleHashes {
		_, err := tx.Exec(ctx,
			"DELETE from puzzles where puzzleId = $1", hash)
		if err != nil {
			return fmt.Errorf("Database error deleting sample puzzle %d: %v", i, err)
		}
	}
	return nil
}
