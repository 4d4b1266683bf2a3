package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/olivierh59500/charged-particles/sim"
)

func main() {
	st, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logFile, err := setupLogging(st.LogPath, st.Renderer == rendererTerminal)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	c := st.Sim
	log.Printf("initializing %d particles, %s mode, %dx%d grid over %gx%g",
		c.Count, c.Mode, c.Columns, c.Rows, c.Width, c.Height)
	s, err := sim.New(c)
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	log.Printf("placed %d particles (seed %d, %s timestep, %d force workers)",
		s.Store().Len(), c.Seed, c.Timestep, c.Workers)

	switch st.Renderer {
	case rendererTerminal:
		err = runTerminal(s, st)
	case rendererHeadless:
		err = runHeadless(s, st)
	default:
		err = runWindow(s, st)
	}
	if err != nil {
		log.Fatalf("simulation stopped: %v", err)
	}
}

// setupLogging points the standard logger at path, or at stderr when path is
// empty. A terminal renderer owns stderr, so without a file the log is
// discarded.
func setupLogging(path string, quiet bool) (*os.File, error) {
	log.SetPrefix("particles: ")
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if path == "" {
		if quiet {
			log.SetOutput(io.Discard)
		} else {
			log.SetOutput(os.Stderr)
		}
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}
