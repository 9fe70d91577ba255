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
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx/v5"

	"github.com/dcbrotsky/subsets/dbprep"
	"github.com/dcbrotsky/subsets/puzzle"
)

// A PuzzleInfo is the gallery-facing summary of a stored puzzle.
type PuzzleInfo struct {
	PuzzleId    string
	Name        string
	Params      string
	Description string
	LastWorked  time.Time
}

// sorting of info sequences by puzzle name
type ByName []*PuzzleInfo

func (pi ByName) Len() int           { return len(pi) }
func (pi ByName) Swap(i, j int)      { pi[i], pi[j] = pi[j], pi[i] }
func (pi ByName) Less(i, j int) bool { return pi[i].Name < pi[j].Name }

// sorting of info sequences by last-worked time, most recent first
type ByLatestWorked []*PuzzleInfo

func (pi ByLatestWorked) Len() int           { return len(pi) }
func (pi ByLatestWorked) Swap(i, j int)      { pi[i], pi[j] = pi[j], pi[i] }
func (pi ByLatestWorked) Less(i, j int) bool { return pi[i].LastWorked.After(pi[j].LastWorked) }

/*

puzzle entries

*/

// A puzzleEntry represents the stored form of a puzzle: enough to
// reconstruct the board (its Params and its game description). It
// is JSON serializable so it can go into the cache as well as the
// database.
type puzzleEntry struct {
	PuzzleId    string
	Params      string
	Description string
}

// puzzleId computes the stable identifier for a params/description
// pair: the leading 16 hex digits of its SHA-256 digest, in lowercase
// (the sample gallery's IDs are uppercased, these are not).
func puzzleId(params, description string) string {
	sum := sha256.Sum256([]byte(params + ":" + description))
	digits := hex.EncodeToString(sum[:])
	return digits[:16]
}

// SavePuzzle persists a board (typically freshly generated) so it
// can be retrieved later by ID, and returns that ID.
func SavePuzzle(b *puzzle.Board) (string, error) {
	pe := &puzzleEntry{
		Params:      b.Params.String(),
		Description: b.Encode(),
	}
	pe.PuzzleId = puzzleId(pe.Params, pe.Description)
	pe.databaseInsert()
	pe.cacheInsert()
	return pe.PuzzleId, nil
}

// LoadPuzzle reconstructs the board saved under the given ID. It
// checks the cache first, then falls back to the database, caching
// the result on a cache miss. Panics if there is no such entry.
func LoadPuzzle(id string) (*puzzle.Board, error) {
	pe := loadPuzzleEntry(id)
	params, err := puzzle.ParseParams(pe.Params)
	if err != nil {
		return nil, fmt.Errorf("Stored puzzle %q has invalid params %q: %v", id, pe.Params, err)
	}
	return puzzle.ParseDescription(params, pe.Description)
}

// loadPuzzleEntry first checks the cache, then the database, to
// find the puzzle's entry. If it loads from the database, it caches
// the result. Panics if there is no such stored entry.
func loadPuzzleEntry(id string) *puzzleEntry {
	pe := &puzzleEntry{PuzzleId: id}
	if pe.cacheLoad() {
		return pe
	}
	pe.databaseLoad()
	pe.cacheInsert()
	return pe
}

// key: compute the cache key for a puzzleEntry.
func (pe *puzzleEntry) key() string {
	return "PID:" + pe.PuzzleId
}

// cacheLoad: load an already cached puzzle entry. Returns whether
// the entry was found in the cache.
func (pe *puzzleEntry) cacheLoad() bool {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("GET", pe.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("Cache failure loading puzzleEntry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
	if len(bytes) == 0 {
		return false
	}
	var spe *puzzleEntry
	if err := json.Unmarshal(bytes, &spe); err != nil {
		panic(fmt.Errorf("Failed to unmarshal puzzleEntry %q: %v", pe.PuzzleId, err))
	}
	if spe.PuzzleId != pe.PuzzleId {
		panic(fmt.Errorf("Cached puzzleEntry (id: %q) found for puzzle %q!",
			spe.PuzzleId, pe.PuzzleId))
	}
	*pe = *spe
	return true
}

// databaseLoad: load a puzzle entry from the database. Panics if
// there is no saved entry with the given id.
func (pe *puzzleEntry) databaseLoad() {
	pgExecute(func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			"SELECT params, description FROM puzzles WHERE puzzleId = $1", pe.PuzzleId)
		if err := row.Scan(&pe.Params, &pe.Description); err != nil {
			return fmt.Errorf("Failure looking up puzzle %q: %v", pe.PuzzleId, err)
		}
		return nil
	})
}

// cacheInsert: insert a puzzle entry into the cache, replacing any
// existing entry with the same id.
func (pe *puzzleEntry) cacheInsert() {
	bytes, err := json.Marshal(pe)
	if err != nil {
		panic(fmt.Errorf("Failed to marshal puzzleEntry %q: %v", pe.PuzzleId, err))
	}
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("SET", pe.key(), bytes)
		if err != nil {
			err = fmt.Errorf("Cache failure saving puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
}

// databaseInsert: insert a new puzzle entry into the database.
func (pe *puzzleEntry) databaseInsert() {
	pgExecute(func(ctx context.Context, tx pgx.Tx) (err error) {
		_, err = tx.Exec(ctx,
			"INSERT INTO puzzles (puzzleId, params, description, created) "+
				"VALUES ($1, $2, $3, $4) ON CONFLICT (puzzleId) DO NOTHING",
			pe.PuzzleId, pe.Params, pe.Description, time.Now())
		if err != nil {
			err = fmt.Errorf("Database error saving puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	})
}

/*

sample gallery

*/

// SampleGallery lists the puzzles stored under the sample session,
// most recently worked first.
func SampleGallery() ([]*PuzzleInfo, error) {
	var infos []*PuzzleInfo
	var loadErr error
	pgExecute(func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			"SELECT sp.puzzleId, sp.puzzleName, sp.lastWorked, p.params, p.description "+
				"FROM sessionPuzzles sp JOIN puzzles p ON p.puzzleId = sp.puzzleId "+
				"WHERE sp.sessionId = $1", dbprep.SampleSessionName)
		if err != nil {
			loadErr = fmt.Errorf("Database error listing sample gallery: %v", err)
			return nil
		}
		defer rows.Close()
		for rows.Next() {
			info := &PuzzleInfo{}
			if err := rows.Scan(&info.PuzzleId, &info.Name, &info.LastWorked,
				&info.Params, &info.Description); err != nil {
				loadErr = fmt.Errorf("Database error scanning sample gallery row: %v", err)
				return nil
			}
			infos = append(infos, info)
		}
		return nil
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return infos, nil
}
