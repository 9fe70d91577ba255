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

// subsets-solve is a standalone command-line front end for the
// solver: with no description it generates a puzzle, with one it
// validates and solves it.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dcbrotsky/subsets/puzzle"
)

var (
	verbose bool
	seed    int64
)

func main() {
	root := &cobra.Command{
		Use:   "subsets-solve <params> | <params>:<description>",
		Short: "Generate or solve a Subsets puzzle from the command line",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each solver rule as it fires")
	root.Flags().Int64Var(&seed, "seed", 0, "RNG seed to use when generating a puzzle (default: current time)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	paramsStr, desc, hasDesc := strings.Cut(args[0], ":")
	p, err := puzzle.ParseParams(paramsStr)
	if err != nil {
		return err
	}

	if !hasDesc {
		s := seed
		if s == 0 {
			s = time.Now().UnixNano()
		}
		board, err := puzzle.Generate(p, rand.New(rand.NewSource(s)))
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", p.String(), puzzleId(p, board.Encode()))
		fmt.Println(board.Encode())
		return nil
	}

	board, err := puzzle.ParseDescription(p, desc)
	if err != nil {
		return err
	}

	var logger *logrus.Logger
	if verbose {
		logger = logrus.New()
		logger.SetLevel(logrus.DebugLevel)
	}

	solved, status := puzzle.Solve(board, logger)
	if status == puzzle.StatusInvalid {
		return fmt.Errorf("Puzzle is invalid.")
	}
	fmt.Print(solved.Dump())
	fmt.Println(status)
	return nil
}

// puzzleId derives a short, stable identifier for a generated
// puzzle from its params and description, without pulling the
// storage package's database dependency into this command.
func puzzleId(p puzzle.Params, description string) string {
	sum := sha256.Sum256([]byte(p.String() + ":" + description))
	return hex.EncodeToString(sum[:])[:16]
}
