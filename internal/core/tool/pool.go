package tool

import (
	"context"
	"sync"

	"depscan/internal/engine/module"
)

// Request is one scan job routed to a pool worker.
type Request struct {
	Args         []string
	Placeholders module.PlaceholderSet
}

// Response pairs a request with its outcome.
type Response struct {
	Request Request
	Output  string
	Err     error
}

// Pool fans scan requests out across independent tool instances, one per
// worker. No cache, lock, or mutable state is shared between workers; each
// tool keeps its own private cache for the disjoint stream of requests it
// happens to receive. Duplicated resolution work across workers is the
// accepted cost of a contention-free traversal path.
type Pool struct {
	size    int
	newTool func() *Tool
}

func NewPool(size int, newTool func() *Tool) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size, newTool: newTool}
}

// Run consumes requests until the channel closes or the context is
// cancelled, and closes the returned channel when all workers are done.
func (p *Pool) Run(ctx context.Context, requests <-chan Request) <-chan Response {
	responses := make(chan Response)

	var wg sync.WaitGroup
	wg.Add(p.size)
	for i := 0; i < p.size; i++ {
		go func() {
			defer wg.Done()
			worker := p.newTool()
			for {
				select {
				case <-ctx.Done():
					return
				case req, ok := <-requests:
					if !ok {
						return
					}
					out, err := worker.GetDependencies(ctx, req.Args, req.Placeholders)
					select {
					case responses <- Response{Request: req, Output: out, Err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(responses)
	}()

	return responses
}
