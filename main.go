// Command c8 executes CHIP-8 programs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"golang.org/x/term"

	"github.com/nf/c8/chip8"
	"github.com/nf/c8/cosmac"
)

func main() {
	log.SetPrefix("c8: ")
	log.SetFlags(0)

	var (
		uiFlag     = flag.String("ui", "shiny", "user interface: "+strings.Join(cosmac.Frontends, ", "))
		rateFlag   = flag.Int("rate", chip8.DefaultConfig().TicksPerSecond, "instructions per second, a multiple of 60")
		eti660Flag = flag.Bool("eti660", false, "load the program at 0x600, as on the ETI 660")
		seedFlag   = flag.Uint64("seed", 0, "random number seed (0 seeds from the clock)")
		muteFlag   = flag.Bool("mute", false, "disable the buzzer")
		devFlag    = flag.Bool("dev", false, "enable developer mode (reload the program when it changes)")
		debugFlag  = flag.Bool("debug", false, "enable debugger (implies -dev)")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.ch8>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	cfg := chip8.DefaultConfig()
	cfg.TicksPerSecond = *rateFlag
	if *eti660Flag {
		cfg.Offset = chip8.ETI660
	}
	if *seedFlag != 0 {
		seed := *seedFlag
		cfg.Seed = &seed
	}
	if *uiFlag == "term" {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			log.Fatal("-ui term requires a terminal")
		}
		if *debugFlag {
			log.Fatal("-debug uses the terminal; choose another -ui")
		}
	}

	s, err := newSession(cfg, *uiFlag, *muteFlag)
	if err != nil {
		log.Fatal(err)
	}
	defer s.close()

	if *devFlag || *debugFlag {
		if err := devMode(s, flag.Arg(0), *debugFlag); err != nil {
			s.close()
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err = run(s, flag.Arg(0))

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		s.close()
		log.Fatal(err)
	}
}

func run(s *session, romFile string) error {
	rom, err := os.ReadFile(romFile)
	if err != nil {
		return err
	}
	r := cosmac.NewRunner(s.m, s.scr, s.buzz, false, nil)
	return s.run(context.Background(), r, rom)
}

// session connects a machine to a frontend and a buzzer.
type session struct {
	m    *chip8.Machine
	scr  *cosmac.Screen
	ui   cosmac.Frontend
	buzz cosmac.Buzzer
}

// newSession validates cfg and builds a machine for it. Audio failures are
// logged and the session runs silently.
func newSession(cfg chip8.Config, ui string, mute bool) (*session, error) {
	keys := new(cosmac.Keys)
	m, err := chip8.New(cfg, keys)
	if err != nil {
		return nil, err
	}
	s := &session{m: m, scr: new(cosmac.Screen), buzz: cosmac.Silent{}}
	if s.ui, err = cosmac.NewFrontend(ui, s.scr, keys); err != nil {
		return nil, err
	}
	if !mute {
		b, err := cosmac.NewBeeper()
		if err != nil {
			log.Printf("audio: %v", err)
		} else {
			s.buzz = b
		}
	}
	return s, nil
}

func (s *session) close() {
	if c, ok := s.buzz.(io.Closer); ok {
		c.Close()
	}
	s.buzz = cosmac.Silent{}
}

// run executes rom under r until the frontend quits, ctx is done or the
// runner stops. The frontend owns the calling goroutine.
func (s *session) run(ctx context.Context, r *cosmac.Runner, rom []byte) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		exit   = make(chan bool)
		runErr = make(chan error, 1)
	)
	go func() {
		runErr <- r.Run(ctx, rom)
		close(exit)
	}()
	if err := s.ui.Run(exit); err != nil {
		return fmt.Errorf("ui: %v", err)
	}
	cancel()
	return <-runErr
}
