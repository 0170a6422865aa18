package graph

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Scheduler executes the tasks of a Graph with a pool of worker goroutines.
// Tasks which do not depend on one another may run in any order and in
// parallel; results are always returned by key.
type Scheduler struct {
	Workers int
	Log bool

	results *cache.Cache
}

type result struct {
	key Key
	val interface{}
	err error
}

// NewScheduler creates a scheduler which runs up to workers tasks at once.
// If workers is not positive, one worker is used per CPU.
//
// If retain is positive, computed values are kept for that long and reused
// by later calls to Get, so shared upstream work (for example, fitting a
// collection of splines which is then evaluated many times) only runs once.
// A negative retain keeps values forever and zero disables retention.
func NewScheduler(workers int, retain time.Duration) *Scheduler {
	if workers <= 0 { workers = runtime.NumCPU() }
	s := &Scheduler{Workers: workers}

	switch {
	case retain > 0:
		s.results = cache.New(retain, retain)
	case retain < 0:
		s.results = cache.New(cache.NoExpiration, 0)
	}
	return s
}

// Get computes the values of the given keys and everything they depend on.
// The first task to fail aborts the computation and its error is returned;
// no partial results are returned. Cancelling ctx stops any tasks which have
// not started yet.
func (s *Scheduler) Get(
	ctx context.Context, g *Graph, keys ...Key,
) ([]interface{}, error) {
	vals := map[Key]interface{}{}
	pending := map[Key]int{}
	dependents := map[Key][]Key{}
	todo := []Key{}

	onStack := map[Key]bool{}
	var visit func(key Key) error
	visit = func(key Key) error {
		if _, ok := pending[key]; ok { return nil }
		if _, ok := vals[key]; ok { return nil }
		if onStack[key] {
			return fmt.Errorf("Task graph has a cycle through %s.", key)
		}

		if s.results != nil {
			if val, ok := s.results.Get(key.String()); ok {
				vals[key] = val
				return nil
			}
		}

		task, ok := g.Task(key)
		if !ok { return fmt.Errorf("Task graph has no task %s.", key) }

		onStack[key] = true
		for _, dep := range task.Deps {
			if err := visit(dep); err != nil { return err }
		}
		onStack[key] = false

		n := 0
		for _, dep := range task.Deps {
			if _, ok := vals[dep]; ok { continue }
			dependents[dep] = append(dependents[dep], key)
			n++
		}
		pending[key] = n
		todo = append(todo, key)
		return nil
	}

	for _, key := range keys {
		if err := visit(key); err != nil { return nil, err }
	}

	if len(todo) > 0 {
		if err := s.run(ctx, g, todo, pending, dependents, vals); err != nil {
			return nil, err
		}
	}

	out := make([]interface{}, len(keys))
	for i, key := range keys { out[i] = vals[key] }
	return out, nil
}

func (s *Scheduler) run(
	ctx context.Context, g *Graph, todo []Key,
	pending map[Key]int, dependents map[Key][]Key, vals map[Key]interface{},
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ready := make(chan Key, len(todo))
	defer close(ready)
	done := make(chan result, len(todo))
	mu := &sync.RWMutex{}

	for _, key := range todo {
		if pending[key] == 0 { ready <- key }
	}

	workers := s.Workers
	if workers > len(todo) { workers = len(todo) }
	if workers < 1 { workers = 1 }
	for id := 0; id < workers; id++ {
		go s.work(ctx, g, ready, done, vals, mu)
	}

	for remaining := len(todo); remaining > 0; remaining-- {
		var res result
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res = <-done:
		}

		if res.err != nil {
			return fmt.Errorf("Task %s failed: %w", res.key, res.err)
		}

		mu.Lock()
		vals[res.key] = res.val
		mu.Unlock()
		if s.results != nil {
			s.results.Set(res.key.String(), res.val, cache.DefaultExpiration)
		}

		for _, key := range dependents[res.key] {
			pending[key]--
			if pending[key] == 0 { ready <- key }
		}
	}

	if s.Log {
		ms := runtime.MemStats{}
		runtime.ReadMemStats(&ms)
		log.Printf(
			"Computed %d tasks with %d workers. Alloc: %5d MB, Sys: %5d MB",
			len(todo), workers, ms.Alloc >> 20, ms.Sys >> 20,
		)
	}
	return nil
}

func (s *Scheduler) work(
	ctx context.Context, g *Graph, ready <-chan Key, done chan<- result,
	vals map[Key]interface{}, mu *sync.RWMutex,
) {
	for key := range ready {
		if err := ctx.Err(); err != nil {
			done <- result{key: key, err: err}
			continue
		}

		task, _ := g.Task(key)
		args := make([]interface{}, len(task.Deps))
		mu.RLock()
		for i, dep := range task.Deps { args[i] = vals[dep] }
		mu.RUnlock()

		val, err := task.Run(args)
		done <- result{key: key, val: val, err: err}
	}
}
