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

// subsets-server exposes the Subsets puzzle JSON API over HTTP.
package main

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dcbrotsky/subsets/internal/config"
	"github.com/dcbrotsky/subsets/puzzle"
	"github.com/dcbrotsky/subsets/storage"
)

var log = logrus.New()

func galleryHandler(c *gin.Context) {
	infos, err := storage.SampleGallery()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, infos)
}

// sessionState is the wire shape returned after any session
// operation: enough for a client to keep solving without re-fetching.
type sessionState struct {
	SID         string `json:"sid"`
	PID         string `json:"pid"`
	Step        int    `json:"step"`
	Description string `json:"description"`
}

func stateOfSession(s *storage.Session) sessionState {
	return sessionState{SID: s.SID, PID: s.PID, Step: s.Step, Description: s.Board.Encode()}
}

// startSessionHandler handles POST /api/sessions/:sid/start: begin
// solving a saved puzzle under this session. If pid is given, that
// saved puzzle is started from step 1; if pid is omitted and the
// session already has a puzzle, that puzzle is restarted from step 1;
// otherwise a fresh puzzle is generated from params/seed, saved, and
// started. A given pid that names no saved puzzle is not replaced by a
// fresh one.
func startSessionHandler(c *gin.Context) {
	var req struct {
		PID    string `json:"pid"`
		Params string `json:"params"`
		Seed   int64  `json:"seed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	pid := req.PID
	if pid == "" {
		s := &storage.Session{SID: c.Param("sid")}
		if !s.Lookup() || s.PID == "" {
			p := puzzle.DefaultParams
			if req.Params != "" {
				parsed, err := puzzle.ParseParams(req.Params)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
					return
				}
				p = parsed
			}
			board, err := puzzle.Generate(p, rand.New(rand.NewSource(req.Seed)))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			savedPid, err := storage.SavePuzzle(board)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
				return
			}
			pid = savedPid
		} else {
			pid = s.PID
		}
	}

	s := &storage.Session{SID: c.Param("sid")}
	s.StartPuzzle(pid)
	c.JSON(http.StatusOK, stateOfSession(s))
}

// stepSessionHandler handles POST /api/sessions/:sid/step: apply a
// move to the session's current board and persist the result as a new
// step, so it can later be undone.
func stepSessionHandler(c *gin.Context) {
	var req struct {
		Move string `json:"move"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s := &storage.Session{SID: c.Param("sid")}
	if !s.Lookup() {
		c.JSON(http.StatusNotFound, gin.H{"message": "no session " + s.SID})
		return
	}
	s.LoadStep()
	move, err := puzzle.ParseMove(s.Board, req.Move)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	switch m := move.(type) {
	case *puzzle.BitMove:
		_, err = s.Board.Apply(m)
	case *puzzle.SolveMove:
		_, err = s.Board.ApplySolve(m)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.AddStep()
	c.JSON(http.StatusOK, stateOfSession(s))
}

// undoSessionHandler handles POST /api/sessions/:sid/undo: revert the
// session's board to the prior step.
func undoSessionHandler(c *gin.Context) {
	s := &storage.Session{SID: c.Param("sid")}
	if !s.Lookup() {
		c.JSON(http.StatusNotFound, gin.H{"message": "no session " + s.SID})
		return
	}
	s.LoadStep()
	s.RemoveStep()
	c.JSON(http.StatusOK, stateOfSession(s))
}

// showSessionHandler handles GET /api/sessions/:sid: report the
// session's current board without changing it.
func showSessionHandler(c *gin.Context) {
	s := &storage.Session{SID: c.Param("sid")}
	if !s.Lookup() {
		c.JSON(http.StatusNotFound, gin.H{"message": "no session " + s.SID})
		return
	}
	s.LoadStep()
	c.JSON(http.StatusOK, stateOfSession(s))
}

func main() {
	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		log.Fatalf("Couldn't connect to storage: %v", err)
	}
	defer storage.Close()
	log.Infof("Connected to cache %q and database %q.", cacheId, databaseId)

	r := gin.New()
	r.Use(gin.Recovery())
	puzzle.Routes(r)
	r.GET("/api/gallery", galleryHandler)
	sessions := r.Group("/api/sessions/:sid")
	sessions.POST("/start", startSessionHandler)
	sessions.POST("/step", stepSessionHandler)
	sessions.POST("/undo", undoSessionHandler)
	sessions.GET("", showSessionHandler)
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	srv := &http.Server{
		Addr:    config.Port(),
		Handler: r,
	}

	go func() {
		log.Infof("Listening on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Listener failure: %v", err)
		}
	}()

	// wait for an interrupt, then drain in-flight requests before exiting
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infof("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Infof("Server stopped.")
}
