// Command mosaic runs a local demonstration of the Mosaic evaluation core:
// a multi-rank in-process world evaluates a scaled, transposed block tensor
// and folds a global inner product through the pairwise reduction tree.
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/mosaic-hpc/mosaic/internal/dist"
	"github.com/mosaic-hpc/mosaic/internal/future"
	"github.com/mosaic-hpc/mosaic/internal/grid"
	"github.com/mosaic-hpc/mosaic/internal/reduce"
	"github.com/mosaic-hpc/mosaic/internal/sched"
	"github.com/mosaic-hpc/mosaic/internal/tile"
	"github.com/mosaic-hpc/mosaic/internal/tileop"
	"github.com/mosaic-hpc/mosaic/internal/tilestore"
)

const version = "v0.1.0-dev"

// dotOp folds (tile, tile) pairs into a scalar inner product.
type dotOp struct{}

func (dotOp) Identity() float64 { return 0 }
func (dotOp) Reduce(r *float64, arg float64) { *r += arg }
func (dotOp) ReducePair(r *float64, a, b tile.Tile) {
	*r += tileop.Dot(a, b)
}
func (dotOp) ReducePairs(a1, b1, a2, b2 tile.Tile) float64 {
	return tileop.Dot(a1, b1) + tileop.Dot(a2, b2)
}

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "version":
			fmt.Printf("Mosaic %s\n", version)
			return
		case "demo":
			args = args[1:]
		}
	}

	klog.InitFlags(nil)
	configPath := flag.String("config", "", "scheduler config YAML")
	ranks := flag.Int("ranks", 2, "number of simulated ranks")
	scale := flag.Float64("scale", 2.0, "elementwise scale factor")
	flag.CommandLine.Parse(args)

	if err := run(*configPath, *ranks, *scale); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, ranks int, scale float64) error {
	cfg := sched.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = sched.LoadConfig(configPath); err != nil {
			return err
		}
	}
	s := sched.New(cfg)
	defer s.Shutdown()
	klog.InfoS("scheduler started", "workers", cfg.Workers)

	// A 4x4 tile grid of 8x8 tiles, dealt round-robin across the ranks.
	tileRange := grid.NewRange(4, 4)
	blockRange := grid.NewRange(8, 8)
	owner := func(ord int) int { return ord % ranks }

	world := tilestore.NewArray(tileRange, ranks, owner, s)
	for ord := 0; ord < tileRange.Size(); ord++ {
		world.SetTile(ord, tile.Full(blockRange, float64(ord+1)))
	}

	// Each rank evaluates its owned slice of the transposed, scaled result.
	perm := grid.NewPermutation(1, 0)
	op := tileop.Scale{Factor: scale}
	evals := make([]*dist.Evaluator, ranks)
	for rank := 0; rank < ranks; rank++ {
		pmap := dist.NewCyclicMap(tileRange.Size(), rank, ranks)
		evals[rank] = dist.NewEvaluator(world.View(rank), op, perm, pmap, dist.Dense{}, s)
		n := evals[rank].Eval()
		klog.InfoS("evaluation pass scheduled", "rank", rank, "tiles", n)
	}
	s.Fence()

	// Global inner product <source, result> across every rank's tiles.
	rt := reduce.NewPairTask[float64, tile.Tile](s, dotOp{})
	target := tileRange.Permute(perm)
	inv := perm.Inverse()
	for rank := 0; rank < ranks; rank++ {
		pmap := dist.NewCyclicMap(tileRange.Size(), rank, ranks)
		for _, ord := range pmap.Local() {
			srcOrd := tileRange.Ordinal(inv.Apply(target.Index(ord)))
			evaluated := future.New[tile.Tile]()
			sched.When(s, sched.Normal, evals[rank].Store().Find(ord), func(lz *tile.Lazy) {
				evaluated.Set(lz.Eval())
			})
			rt.AddFutures(future.Of(world.Tile(srcOrd)), evaluated)
		}
	}
	dot := rt.Submit().Get()

	klog.InfoS("reduction complete", "innerProduct", dot)
	fmt.Printf("inner product: %g\n", dot)
	return nil
}
