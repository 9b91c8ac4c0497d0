package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Ritesh-201/rbac-and-forms/internal/api/metrics"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrDispatcherStopped is returned for intents submitted after the workers
// have exited.
var ErrDispatcherStopped = errors.New("dispatcher stopped")

type result struct {
	res *ports.MutationResult
	err error
}

type job struct {
	ctx   context.Context
	run   func(context.Context) (*ports.MutationResult, error)
	reply chan result
}

// Dispatcher routes board intents to a fixed set of workers using consistent
// hashing on the board id, so every board has exactly one writer and its
// intents are resolved in arrival order. Reads bypass the workers.
type Dispatcher struct {
	workers []chan job
	service ports.BoardService
	log     zerolog.Logger

	startOnce sync.Once
	done      chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.BoardService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		service: service,
		log:     log,
		done:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// after which every pending and future Submit returns ErrDispatcherStopped.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		var wg sync.WaitGroup
		for i, ch := range d.workers {
			wg.Add(1)
			go func(id int, ch <-chan job) {
				defer wg.Done()
				d.runWorker(ctx, id, ch)
			}(i, ch)
		}
		go func() {
			wg.Wait()
			close(d.done)
		}()
	})
}

// Done is closed once every worker has exited.
func (d *Dispatcher) Done() <-chan struct{} { return d.done }

func (d *Dispatcher) GetBoard(ctx context.Context, in ports.GetBoardInput) (*ports.BoardView, error) {
	return d.service.GetBoard(ctx, in)
}

func (d *Dispatcher) DragEnd(ctx context.Context, in ports.DragEndInput) (*ports.MutationResult, error) {
	return d.submit(ctx, in.BoardID, func(ctx context.Context) (*ports.MutationResult, error) {
		return d.service.DragEnd(ctx, in)
	})
}

func (d *Dispatcher) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*ports.MutationResult, error) {
	return d.submit(ctx, in.BoardID, func(ctx context.Context) (*ports.MutationResult, error) {
		return d.service.CreateTask(ctx, in)
	})
}

func (d *Dispatcher) EditTask(ctx context.Context, in ports.EditTaskInput) (*ports.MutationResult, error) {
	return d.submit(ctx, in.BoardID, func(ctx context.Context) (*ports.MutationResult, error) {
		return d.service.EditTask(ctx, in)
	})
}

// submit hands run to the worker owning boardID and waits for its result.
func (d *Dispatcher) submit(ctx context.Context, boardID string, run func(context.Context) (*ports.MutationResult, error)) (*ports.MutationResult, error) {
	idx := d.shardIndex(boardID)
	j := job{ctx: ctx, run: run, reply: make(chan result, 1)}

	select {
	case d.workers[idx] <- j:
		metrics.DispatchQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.done:
		return nil, ErrDispatcherStopped
	}

	select {
	case r := <-j.reply:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.done:
		return nil, ErrDispatcherStopped
	}
}

// shardIndex maps a board id deterministically to a worker index.
func (d *Dispatcher) shardIndex(boardID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(boardID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ch:
			metrics.DispatchQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := j.ctx.Err(); err != nil {
				j.reply <- result{err: err}
				continue
			}
			res, err := j.run(j.ctx)
			if err != nil {
				d.log.Debug().Err(err).Int("worker_id", id).Msg("intent failed")
			}
			j.reply <- result{res: res, err: err}
		}
	}
}
