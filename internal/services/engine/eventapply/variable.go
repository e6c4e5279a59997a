package eventapply

import (
	"github.com/louisbranch/waypoint/internal/services/engine/domain/applier"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/intent"
	"github.com/louisbranch/waypoint/internal/services/engine/domain/record"
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (a Appliers) registerVariable(b *applier.Builder) {
	register(b, intent.VariableCreated, 1, a.applyVariableCreated)
	register(b, intent.VariableUpdated, 1, a.applyVariableUpdated)
	register(b, intent.VariableMigrated, 1, a.applyVariableMigrated)
}

func (a Appliers) applyVariableCreated(key int64, v record.VariableValue) error {
	return a.Variable.SetVariable(state.Variable{
		Key:                  key,
		ScopeKey:             v.ScopeKey,
		Name:                 v.Name,
		Value:                v.Value,
		ProcessDefinitionKey: v.ProcessDefinitionKey,
	})
}

// applyVariableUpdated replaces the document and keeps the variable's key.
func (a Appliers) applyVariableUpdated(_ int64, v record.VariableValue) error {
	current, err := a.Variable.GetVariable(v.ScopeKey, v.Name)
	if err != nil {
		return err
	}
	current.Value = v.Value
	return a.Variable.SetVariable(current)
}

func (a Appliers) applyVariableMigrated(_ int64, v record.VariableValue) error {
	current, err := a.Variable.GetVariable(v.ScopeKey, v.Name)
	if err != nil {
		return err
	}
	current.ProcessDefinitionKey = v.ProcessDefinitionKey
	return a.Variable.SetVariable(current)
}
