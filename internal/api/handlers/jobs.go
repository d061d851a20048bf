package handlers

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/danielhan/advisor/internal/scheduler"
	"github.com/danielhan/advisor/pkg/logger"
)

// JobScheduler is the slice of the scheduler the handlers need.
type JobScheduler interface {
	RunJob(jobName string) error
	GetJobHistory(jobName string) (*scheduler.JobHistory, error)
	GetAllJobs() []string
}

// JobsHandler exposes scheduled-job status and manual triggering
type JobsHandler struct {
	scheduler JobScheduler
	logger    *logger.Logger
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(sched JobScheduler, log *logger.Logger) *JobsHandler {
	return &JobsHandler{
		scheduler: sched,
		logger:    log,
	}
}

// JobStatus summarizes one registered job.
type JobStatus struct {
	Name        string                `json:"name"`
	Runs        int                   `json:"runs"`
	SuccessRate float64               `json:"success_rate"`
	Latest      []scheduler.JobResult `json:"latest"`
}

// ListJobs reports every registered job with its recent run history
// GET /api/v1/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	names := h.scheduler.GetAllJobs()
	sort.Strings(names)

	jobs := make([]JobStatus, 0, len(names))
	for _, name := range names {
		history, err := h.scheduler.GetJobHistory(name)
		if err != nil {
			continue
		}
		jobs = append(jobs, JobStatus{
			Name:        name,
			Runs:        len(history.Results),
			SuccessRate: history.GetSuccessRate(),
			Latest:      history.GetLatestResults(5),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(jobs),
		"jobs":  jobs,
	})
}

// RunJob triggers a job outside its schedule
// POST /api/v1/jobs/{name}/run
func (h *JobsHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.scheduler.RunJob(name); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.WithField("job", name).Info("Job triggered manually")

	respondJSON(w, http.StatusAccepted, map[string]string{
		"job":    name,
		"status": "started",
	})
}
