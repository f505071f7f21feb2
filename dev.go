package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/c8/cosmac"
)

// devMode runs romFile and reloads it, with its symbols, whenever either
// file changes. Halts are reported rather than fatal.
func devMode(s *session, romFile string, debug bool) error {
	romFile = filepath.Clean(romFile)
	symFile := romFile + ".sym"

	rom, err := os.ReadFile(romFile)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(romFile)); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		dbg   *debugger
		state cosmac.StateFunc
	)
	if debug {
		dbg = newDebugger()
		state = dbg.StateFunc
	}
	runner := cosmac.NewRunner(s.m, s.scr, s.buzz, true, state)

	loadSymbols := func() {
		if dbg == nil {
			return
		}
		syms, err := readSymbols(symFile)
		if err != nil {
			log.Printf("dev: reading symbols: %v", err)
			return
		}
		dbg.setSymbols(syms)
	}
	loadSymbols()

	if dbg != nil {
		dbg.run = runner
		defer dbg.app.Stop()
		log.SetPrefix("")
		log.SetOutput(dbg.log)
		go func() {
			err := dbg.Run()
			log.SetOutput(os.Stderr)
			log.SetPrefix("c8: ")
			if err != nil {
				log.Printf("debug: %v", err)
			}
			cancel()
		}()
	}

	go func() {
		var reload <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case <-reload:
				reload = nil
				rom, err := os.ReadFile(romFile)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				if err := runner.Swap(rom); err != nil {
					log.Printf("dev: %v", err)
					break
				}
				loadSymbols()
				log.Printf("dev: reloaded %s", filepath.Base(romFile))
			case ev := <-watcher.Event:
				name := filepath.Clean(ev.Name)
				if (name == romFile || name == symFile) && !ev.IsAttrib() {
					reload = time.After(100 * time.Millisecond)
				}
			case err := <-watcher.Error:
				log.Printf("dev: watcher: %v", err)
			}
		}
	}()

	log.Printf("dev: start %s", filepath.Base(romFile))
	return s.run(ctx, runner, rom)
}
