package eventapply

import (
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (a Appliers) registerIncident(b *applier.Builder) {
	register(b, intent.IncidentCreated, 1, a.applyIncidentCreated)
	register(b, intent.IncidentResolved, 1, a.applyIncidentResolved)
	register(b, intent.IncidentMigrated, 1, a.applyIncidentMigrated)
}

func (a Appliers) applyIncidentCreated(key int64, v record.IncidentValue) error {
	return a.Incident.PutIncident(state.Incident{Key: key, Value: v})
}

func (a Appliers) applyIncidentResolved(key int64, _ record.IncidentValue) error {
	return a.Incident.DeleteIncident(key)
}

func (a Appliers) applyIncidentMigrated(key int64, v record.IncidentValue) error {
	incident, err := a.Incident.GetIncident(key)
	if err != nil {
		return err
	}
	incident.Value.BpmnProcessID = v.BpmnProcessID
	incident.Value.ProcessDefinitionKey = v.ProcessDefinitionKey
	incident.Value.ElementID = v.ElementID
	return a.Incident.PutIncident(incident)
}
