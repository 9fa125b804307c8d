package jobs

import (
	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	Name() string
	Run()
}

type CronJob interface {
	Job
	Schedule() string
}

// Runner executes background jobs on a cron schedule. A job that is still
// running when its next tick arrives is skipped, not stacked.
type Runner struct {
	cron     *cron.Cron
	jobs     []Job
	cronJobs []CronJob
	running  mapset.Set[string]
}

func NewRunner(jobs []Job, cronJobs []CronJob) *Runner {
	return &Runner{
		cron:     cron.New(),
		jobs:     jobs,
		cronJobs: cronJobs,
		running:  mapset.NewSet[string](),
	}
}

// Run registers every job with the cron and starts it. Plain jobs run on
// a fixed short interval; cron jobs bring their own schedule.
func (r *Runner) Run() error {
	for _, job := range r.cronJobs {
		if err := r.cron.AddFunc(job.Schedule(), r.guarded(job)); err != nil {
			return err
		}
	}

	for _, job := range r.jobs {
		if err := r.cron.AddFunc("@every 30s", r.guarded(job)); err != nil {
			return err
		}
	}

	r.cron.Start()
	return nil
}

func (r *Runner) Stop() {
	logrus.Debug("stopping background jobs")
	r.cron.Stop()
}

func (r *Runner) guarded(job Job) func() {
	return func() {
		if !r.running.Add(job.Name()) {
			logrus.Warnf("job %s is already running", job.Name())
			return
		}
		defer r.running.Remove(job.Name())

		job.Run()
	}
}
