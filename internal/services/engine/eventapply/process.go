package eventapply

import (
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (a Appliers) registerProcess(b *applier.Builder) {
	register(b, intent.ProcessCreated, 1, a.applyProcessCreated)
	register(b, intent.ProcessDeleting, 1, a.applyProcessDeleting)
	register(b, intent.ProcessDeleted, 1, a.applyProcessDeleted)
}

func (a Appliers) applyProcessCreated(key int64, v record.ProcessValue) error {
	return a.Process.PutProcess(state.Process{Key: key, State: state.ProcessStateCreated, Value: v})
}

func (a Appliers) applyProcessDeleting(key int64, _ record.ProcessValue) error {
	p, err := a.Process.GetProcess(key)
	if err != nil {
		return err
	}
	p.State = state.ProcessStatePendingDeletion
	return a.Process.PutProcess(p)
}

func (a Appliers) applyProcessDeleted(key int64, _ record.ProcessValue) error {
	return a.Process.DeleteProcess(key)
}
