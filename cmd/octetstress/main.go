// Command octetstress drives a configurable swarm of goroutines that
// transfer balance between in-memory accounts, each protected by an
// octetlock.Lock, and verifies the books still balance when they're done.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hmc-csci/octetlock"
	"github.com/hmc-csci/octetlock/internal/opt"
)

type runConfig struct {
	numThreads    int
	numIterations int
	numAccounts   int
	contention    bool
	yield         bool
	forceUnlock   bool
	checkpoint    int
	duration      time.Duration
}

func main() {
	cfg := runConfig{contention: true}

	root := &cobra.Command{
		Use:   "octetstress num_threads num_iterations num_accounts",
		Short: "Stress-tests the octetlock primitive with concurrent account transfers",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg.numThreads, err = parsePositiveInt(args[0], "num_threads"); err != nil {
				return err
			}
			if cfg.numIterations, err = parsePositiveInt(args[1], "num_iterations"); err != nil {
				return err
			}
			if cfg.numAccounts, err = parsePositiveInt(args[2], "num_accounts"); err != nil {
				return err
			}
			if !cfg.contention && cfg.numAccounts < 30*cfg.numThreads {
				return fmt.Errorf("octetstress: --contention=false needs num_accounts >= 30*num_threads (%d)", 30*cfg.numThreads)
			}
			return run(cfg)
		},
	}

	root.Flags().BoolVar(&cfg.contention, "contention", true, "every worker picks a random account pair each iteration")
	root.Flags().BoolVar(&cfg.yield, "yield", false, "call Thread.Yield at the end of every iteration")
	root.Flags().BoolVar(&cfg.forceUnlock, "force-unlock", false, "call ForceUnlock on all three locks at the end of every iteration")
	root.Flags().IntVar(&cfg.checkpoint, "checkpoint", 0, "rendezvous every N iterations to verify the running balance invariant mid-run")
	root.Flags().DurationVar(&cfg.duration, "duration", 0, "stop all workers once this much time has elapsed, even if iterations remain")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func parsePositiveInt(s, name string) (int, error) {
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil || v <= 0 {
		return 0, fmt.Errorf("octetstress: %s must be a positive integer, got %q", name, s)
	}
	return v, nil
}

func run(cfg runConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	hostname, _ := os.Hostname()
	logger.Info("starting run",
		zap.String("host", hostname),
		zap.Time("start", time.Now()),
		zap.Int("num_threads", cfg.numThreads),
		zap.Int("num_iterations", cfg.numIterations),
		zap.Int("num_accounts", cfg.numAccounts),
		zap.Bool("contention", cfg.contention),
		zap.Bool("yield", cfg.yield),
		zap.Bool("force_unlock", cfg.forceUnlock),
		zap.Int("checkpoint", cfg.checkpoint),
		zap.Duration("duration", cfg.duration),
		zap.Bool("debug", opt.Debug_),
		zap.Bool("sequential", opt.Sequential_),
		zap.Bool("statistics", opt.Statistics_),
		zap.Bool("read_shared", opt.ReadShared_),
	)

	accounts := newAccounts(cfg.numAccounts)

	var checkpointer *cyclicBarrier
	var checkpointLocks *octetlock.LockSet
	if cfg.checkpoint > 0 {
		checkpointer = &cyclicBarrier{}
		reqs := make([]octetlock.Request, len(accounts))
		for i, a := range accounts {
			reqs[i] = octetlock.Request{L: a.lock, Mode: octetlock.WriteMode}
		}
		checkpointLocks = octetlock.NewLockSet(reqs...)
	}

	var gate stopSignal
	if cfg.duration > 0 {
		go func() {
			time.Sleep(cfg.duration)
			gate.trip()
		}()
	} else {
		gate.trip()
	}

	start := &cyclicBarrier{}
	threads := make([]*octetlock.Thread, cfg.numThreads)
	for range threads {
		start.register()
	}
	if checkpointer != nil {
		for range threads {
			checkpointer.register()
		}
	}

	startedAt := time.Now()

	g := new(errgroup.Group)
	for i := 0; i < cfg.numThreads; i++ {
		i := i
		g.Go(func() error {
			t := octetlock.NewThread()
			threads[i] = t
			defer t.Shutdown()

			start.arrive()

			rng := rand.New(rand.NewSource(int64(i) + 1))
			for iter := 0; iter < cfg.numIterations; iter++ {
				if cfg.duration > 0 && gate.isTripped() {
					break
				}
				futz(t, accounts, rng, i, cfg)

				if checkpointer != nil && (iter+1)%cfg.checkpoint == 0 {
					checkpointer.arrive()
					// Every worker rendezvoused at this phase boundary a
					// moment ago, but faster peers may already be racing
					// into their next transfer by the time thread 0 gets
					// here. Thread 0 takes every account lock through the
					// same LockSet before summing, so the checkpoint
					// invariant check is actually linearized rather than
					// a racy snapshot.
					if i == 0 {
						checkpointLocks.Acquire(t)
						sum := sumBalances(accounts)
						for _, a := range accounts {
							t.ForceUnlock(a.lock)
						}
						if sum != 0 {
							logger.Warn("checkpoint balance non-zero",
								zap.Int("iteration", iter+1),
								zap.Int64("sum", sum))
						}
					}
				}
			}
			if checkpointer != nil {
				checkpointer.deregister()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(startedAt)
	sum := sumBalances(accounts)

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("final_balance_sum", sum),
	}
	if opt.Statistics_ {
		var writeBarriers, slowWrites, readBarriers, slowReads uint64
		for _, t := range threads {
			wb, sw, rb, sr := t.Stats()
			writeBarriers += wb
			slowWrites += sw
			readBarriers += rb
			slowReads += sr
		}
		fields = append(fields,
			zap.Uint64("write_barriers", writeBarriers),
			zap.Uint64("slow_writes", slowWrites),
			zap.Uint64("read_barriers", readBarriers),
			zap.Uint64("slow_reads", slowReads),
		)
	}
	logger.Info("run complete", fields...)

	if sum != 0 {
		logger.Error("balance invariant violated", zap.Int64("final_balance_sum", sum))
		return fmt.Errorf("octetstress: final balance sum = %d, want 0", sum)
	}
	return nil
}
