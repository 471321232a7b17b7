package cli

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	lruipv "github.com/djdv/go-lruipv"
	"github.com/djdv/go-lruipv/internal/config"
	"github.com/djdv/go-lruipv/internal/logging"
	"github.com/djdv/go-lruipv/internal/sim"
	"github.com/djdv/go-lruipv/internal/workload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of replaying one pattern with one vector.
type Result struct {
	Pattern   string
	Vector    string
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

func newRunCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay access patterns and report hit rates",
		Args:  cobra.NoArgs,
	}
	defaults := config.Default()
	flags := cmd.Flags()
	flags.Int("sets", defaults.Sets, "number of sets (power of two)")
	flags.Int("block-size", defaults.BlockSize, "block size in bytes (power of two)")
	flags.String("pattern", defaults.Pattern,
		fmt.Sprintf("access pattern: all or one of %v", workload.Names()))
	flags.Int64("seed", defaults.Seed, "random seed for pattern generation")
	flags.String("vector", defaults.Vector,
		fmt.Sprintf("promotion vector: all or one of %v", config.VectorNames()))
	flags.Int("insertion-rank", defaults.InsertionRank, "rank assigned on fill")
	flags.String("log-level", defaults.Logging.Level, "trace, debug, info, warn, or error")
	flags.String("log-format", defaults.Logging.Format, "console or json")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		loader := config.NewLoader(*configFile)
		for key, flag := range map[string]string{
			"sets":           "sets",
			"block_size":     "block-size",
			"pattern":        "pattern",
			"seed":           "seed",
			"vector":         "vector",
			"insertion_rank": "insertion-rank",
			"logging.level":  "log-level",
			"logging.format": "log-format",
		} {
			if err := loader.BindFlag(key, flags.Lookup(flag)); err != nil {
				return err
			}
		}
		cfg, err := loader.Load()
		if err != nil {
			return err
		}
		log, err := logging.New(cfg.Logging, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		results, err := Simulate(cfg, log)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderResults(cfg, results))
		return nil
	}
	return cmd
}

// Simulate replays the configured patterns through a
// fresh cache for every configured vector.
// Each replay runs in its own goroutine; results keep
// pattern-major order.
func Simulate(cfg *config.Config, log zerolog.Logger) ([]Result, error) {
	patterns := workload.Patterns()
	if cfg.Pattern != "all" {
		pattern, err := workload.Lookup(cfg.Pattern)
		if err != nil {
			return nil, err
		}
		patterns = []workload.Pattern{pattern}
	}
	vectors := config.VectorNames()
	if cfg.Vector != "all" {
		vectors = []string{cfg.Vector}
	}
	var (
		results = make([]Result, len(patterns)*len(vectors))
		group   errgroup.Group
	)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, pattern := range patterns {
		for j, name := range vectors {
			group.Go(func() error {
				result, err := simulate(cfg, log, pattern, name)
				if err != nil {
					return err
				}
				results[i*len(vectors)+j] = result
				return nil
			})
		}
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func simulate(cfg *config.Config, log zerolog.Logger, pattern workload.Pattern, vector string) (Result, error) {
	promotion, ok := config.LookupVector(vector)
	if !ok {
		return Result{}, fmt.Errorf("unknown vector %q", vector)
	}
	log = log.With().
		Str("pattern", pattern.Name).
		Str("vector", vector).
		Logger()
	cache, err := sim.New(cfg.Sets, cfg.BlockSize, log,
		lruipv.WithVector(promotion),
		lruipv.WithInsertionRank(lruipv.Rank(cfg.InsertionRank)),
		lruipv.WithLogger(log),
	)
	if err != nil {
		return Result{}, err
	}
	blocks := pattern.Generate(workload.NewRNG(cfg.Seed), cache.Capacity())
	if err := cache.Replay(blocks); err != nil {
		return Result{}, err
	}
	hits, misses, evictions := cache.Counters()
	log.Info().
		Uint64("hits", hits).
		Uint64("misses", misses).
		Uint64("evictions", evictions).
		Msg("replay complete")
	return Result{
		Pattern:   pattern.Name,
		Vector:    vector,
		Hits:      hits,
		Misses:    misses,
		Evictions: evictions,
		HitRate:   cache.HitRate(),
	}, nil
}

func renderResults(cfg *config.Config, results []Result) string {
	rows := make([][]string, len(results))
	for i, result := range results {
		rows[i] = []string{
			result.Pattern,
			result.Vector,
			strconv.FormatUint(result.Hits, 10),
			strconv.FormatUint(result.Misses, 10),
			strconv.FormatUint(result.Evictions, 10),
			strconv.FormatFloat(result.HitRate, 'f', 2, 64),
		}
	}
	title := fmt.Sprintf("%d sets × %d ways, %d byte blocks, insertion rank %d",
		cfg.Sets, lruipv.Associativity, cfg.BlockSize, cfg.InsertionRank)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(title),
		table.New().
			Border(lipgloss.NormalBorder()).
			Headers("PATTERN", "VECTOR", "HITS", "MISSES", "EVICTIONS", "HIT %").
			Rows(rows...).
			String(),
	)
}
