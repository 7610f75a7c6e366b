package main

import (
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ezrec/primeval/config"
	"github.com/ezrec/primeval/evolve"
	"github.com/ezrec/primeval/sim"
	"github.com/ezrec/primeval/store"
)

func runCmd() *cobra.Command {
	var configPath string
	var generations int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the headless evolution loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}

			seed := cfg.Seed
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			rng := rand.New(rand.NewPCG(seed, 0))

			pop := evolve.NewPopulation(cfg.Population)
			for _, m := range pop {
				m.DetectStalls = cfg.DetectStalls
			}

			ec := evolve.NewController(pop, rng)
			ec.Verbose = verbose
			ec.StepCap = cfg.StepCap
			ec.Rate = cfg.Rate

			sf := &store.File{Path: cfg.ProgramPath, Verbose: verbose}
			ec.Store = sf

			prog, ok, err := sf.Load()
			if err != nil {
				return err
			}
			if ok {
				if verbose {
					log.Printf("%v: seeding from stored program", cfg.ProgramPath)
				}
				ec.Seed(prog)
			} else {
				ec.SeedRandom()
			}

			s := sim.NewSim(ec)
			s.Verbose = verbose
			s.Speed = cfg.Speed

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			for generations == 0 || ec.Generation < generations {
				if ctx.Err() != nil {
					break
				}
				if err := s.Frame(); err != nil {
					// Save failures never interrupt the loop.
					log.Printf("%v: %v", cfg.ProgramPath, err)
				}
			}

			// Final write-back of the current winner.
			return sf.Publish(ec.Template)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Starlark settings file")
	cmd.Flags().IntVarP(&generations, "generations", "g", 0, "Stop after N generations (0 = run forever)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	return cmd
}
