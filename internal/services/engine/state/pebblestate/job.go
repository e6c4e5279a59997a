package pebblestate

import (
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (s *State) PutJob(j state.Job) error {
	return s.jobs.Put(s.jobs.Key().Int64(j.Key), j)
}

func (s *State) GetJob(key int64) (state.Job, error) {
	return get(s.jobs, s.jobs.Key().Int64(key))
}

func (s *State) DeleteJob(key int64) error {
	return s.jobs.Delete(s.jobs.Key().Int64(key))
}

func (s *State) AddActivatable(jobType string, key int64) error {
	return mark(s.jobActivatable, s.jobActivatable.Key().Text(jobType).Int64(key))
}

func (s *State) RemoveActivatable(jobType string, key int64) error {
	return s.jobActivatable.Delete(s.jobActivatable.Key().Text(jobType).Int64(key))
}

func (s *State) AddDeadline(deadline, key int64) error {
	return mark(s.jobDeadlines, s.jobDeadlines.Key().Int64(deadline).Int64(key))
}

func (s *State) RemoveDeadline(deadline, key int64) error {
	return s.jobDeadlines.Delete(s.jobDeadlines.Key().Int64(deadline).Int64(key))
}

func (s *State) AddBackoff(due, key int64) error {
	return mark(s.jobBackoff, s.jobBackoff.Key().Int64(due).Int64(key))
}

func (s *State) RemoveBackoff(due, key int64) error {
	return s.jobBackoff.Delete(s.jobBackoff.Key().Int64(due).Int64(key))
}
