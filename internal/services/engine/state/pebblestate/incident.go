package pebblestate

import (
	"errors"

	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

// PutIncident stores the incident and indexes it by element instance, or by
// job for job incidents.
func (s *State) PutIncident(i state.Incident) error {
	if err := s.incidents.Put(s.incidents.Key().Int64(i.Key), i); err != nil {
		return err
	}
	if i.Value.JobKey > 0 {
		return s.incidentByJob.Put(s.incidentByJob.Key().Int64(i.Value.JobKey), i.Key)
	}
	return s.incidentByElement.Put(s.incidentByElement.Key().Int64(i.Value.ElementInstanceKey), i.Key)
}

func (s *State) GetIncident(key int64) (state.Incident, error) {
	return get(s.incidents, s.incidents.Key().Int64(key))
}

func (s *State) DeleteIncident(key int64) error {
	i, err := s.GetIncident(key)
	if errors.Is(err, state.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if i.Value.JobKey > 0 {
		if err := s.incidentByJob.Delete(s.incidentByJob.Key().Int64(i.Value.JobKey)); err != nil {
			return err
		}
	} else if err := s.incidentByElement.Delete(s.incidentByElement.Key().Int64(i.Value.ElementInstanceKey)); err != nil {
		return err
	}
	return s.incidents.Delete(s.incidents.Key().Int64(key))
}

func (s *State) IncidentForElement(elementInstanceKey int64) (int64, error) {
	return get(s.incidentByElement, s.incidentByElement.Key().Int64(elementInstanceKey))
}

func (s *State) IncidentForJob(jobKey int64) (int64, error) {
	return get(s.incidentByJob, s.incidentByJob.Key().Int64(jobKey))
}
