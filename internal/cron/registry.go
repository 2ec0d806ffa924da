package cron

import "context"

// Job is one unit of scheduled work driven by the worker loop.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a worker executes each cycle, in registration
// order. Nil jobs are ignored so optional wiring can pass through unchecked.
type Registry struct {
	jobs []Job
}

// NewRegistry seeds a registry with the given jobs.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{}
	for _, j := range jobs {
		r.Register(j)
	}
	return r
}

// Register appends a job to the execution order.
func (r *Registry) Register(j Job) {
	if j == nil {
		return
	}
	r.jobs = append(r.jobs, j)
}

// Jobs returns a copy of the execution order.
func (r *Registry) Jobs() []Job {
	out := make([]Job, len(r.jobs))
	copy(out, r.jobs)
	return out
}
