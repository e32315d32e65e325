// Copyright 2025 The Mosaic Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package engine provides the public API of the Mosaic distributed
// block-tensor evaluation core.
//
// The engine decides, for each tile of a distributed tensor, when and how its
// value becomes available, and it reduces streams of partial contributions
// into single future results:
//   - Evaluator: pull-scheduling of lazy tiles into a distributed store
//   - Task / PairTask: asynchronous binary reduction trees
//   - Scheduler: explicit data-flow task scheduler handle
//   - Future: single-assignment asynchronous placeholder
//
// Example:
//
//	s := engine.NewScheduler(engine.DefaultConfig())
//	defer s.Shutdown()
//	ev := engine.NewEvaluator(src, tileop.Scale{Factor: 2}, engine.IdentityPermutation(), pmap, engine.Dense{}, s)
//	n := ev.Eval() // n insertions will reach ev.Store()
package engine

import (
	"github.com/mosaic-hpc/mosaic/internal/dist"
	"github.com/mosaic-hpc/mosaic/internal/future"
	"github.com/mosaic-hpc/mosaic/internal/grid"
	"github.com/mosaic-hpc/mosaic/internal/reduce"
	"github.com/mosaic-hpc/mosaic/internal/sched"
	"github.com/mosaic-hpc/mosaic/internal/tile"
)

// Type aliases for the public API

// Future is a single-assignment placeholder for an asynchronous value.
type Future[T any] = future.Future[T]

// NewFuture creates an empty future.
func NewFuture[T any]() *Future[T] { return future.New[T]() }

// ResolvedFuture creates a future already resolved to v.
func ResolvedFuture[T any](v T) *Future[T] { return future.Of(v) }

// Scheduler runs data-flow tasks on a fixed worker pool.
type Scheduler = sched.Scheduler

// Config controls the scheduler.
type Config = sched.Config

// Task priorities.
const (
	Normal = sched.Normal
	High   = sched.High
)

// NewScheduler creates a scheduler and starts its worker pool.
func NewScheduler(cfg Config) *Scheduler { return sched.New(cfg) }

// DefaultConfig returns scheduler defaults based on CPU count.
func DefaultConfig() Config { return sched.DefaultConfig() }

// Range is a dense multi-dimensional tile grid.
type Range = grid.Range

// NewRange creates a range with the given extents.
func NewRange(dims ...int) Range { return grid.NewRange(dims...) }

// Permutation maps source dimensions to result dimensions.
type Permutation = grid.Permutation

// NewPermutation creates a permutation from a dimension mapping.
func NewPermutation(p ...int) Permutation { return grid.NewPermutation(p...) }

// IdentityPermutation returns the distinguished identity permutation.
func IdentityPermutation() Permutation { return grid.Identity() }

// Tile is a dense block of tensor data.
type Tile = tile.Tile

// Lazy is a single-use deferred binding of a source tile to an operator.
type Lazy = tile.Lazy

// Op is an elementwise tile operator shared across lazy tiles.
type Op = tile.Op

// NewLazy wraps a source tile with a shared operator.
func NewLazy(src Tile, op Op, consume bool) *Lazy { return tile.NewLazy(src, op, consume) }

// ProcessMap assigns tile ordinals to owning processes.
type ProcessMap = dist.ProcessMap

// NewBlockedMap assigns contiguous ordinal runs to processes.
func NewBlockedMap(n, rank, size int) ProcessMap { return dist.NewBlockedMap(n, rank, size) }

// NewCyclicMap deals ordinals round-robin across processes.
func NewCyclicMap(n, rank, size int) ProcessMap { return dist.NewCyclicMap(n, rank, size) }

// Sparsity identifies structurally zero tiles.
type Sparsity = dist.Sparsity

// Dense is a sparsity oracle with no zero tiles.
type Dense = dist.Dense

// Source is the distributed tensor container an evaluator pulls from.
type Source = dist.Source

// Evaluator populates a distributed store with lazy tiles.
type Evaluator = dist.Evaluator

// NewEvaluator creates an evaluator over src; see dist.NewEvaluator.
func NewEvaluator(src Source, op Op, perm Permutation, pmap ProcessMap, sparsity Sparsity, s *Scheduler) *Evaluator {
	return dist.NewEvaluator(src, op, perm, pmap, sparsity, s)
}

// Store is the distributed output container of an evaluator.
type Store[V any] = dist.Store[V]

// ReduceOp combines a stream of single contributions.
type ReduceOp[T any] = reduce.Op[T]

// ReducePairOp combines a stream of contribution pairs.
type ReducePairOp[T, U any] = reduce.PairOp[T, U]

// Task is an asynchronous unary reduction tree.
type Task[T any] = reduce.Task[T]

// PairTask is an asynchronous pairwise reduction tree.
type PairTask[T, U any] = reduce.PairTask[T, U]

// NewReduceTask creates a unary reduction task.
func NewReduceTask[T any](s *Scheduler, op ReduceOp[T]) *Task[T] {
	return reduce.NewTask[T](s, op)
}

// NewReducePairTask creates a pairwise reduction task.
func NewReducePairTask[T, U any](s *Scheduler, op ReducePairOp[T, U]) *PairTask[T, U] {
	return reduce.NewPairTask[T, U](s, op)
}
