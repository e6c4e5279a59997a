package pebblestate

import (
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (s *State) CreateScope(scopeKey, parentScopeKey int64) error {
	return s.variableScopes.Put(s.variableScopes.Key().Int64(scopeKey), parentScopeKey)
}

func (s *State) ParentScope(scopeKey int64) (int64, error) {
	return get(s.variableScopes, s.variableScopes.Key().Int64(scopeKey))
}

func (s *State) RemoveScope(scopeKey int64) error {
	if err := s.variables.DeletePrefix(s.variables.Key().Int64(scopeKey)); err != nil {
		return err
	}
	return s.variableScopes.Delete(s.variableScopes.Key().Int64(scopeKey))
}

func (s *State) SetVariable(v state.Variable) error {
	return s.variables.Put(s.variables.Key().Int64(v.ScopeKey).Text(v.Name), v)
}

func (s *State) GetVariable(scopeKey int64, name string) (state.Variable, error) {
	return get(s.variables, s.variables.Key().Int64(scopeKey).Text(name))
}

func (s *State) Variables(scopeKey int64) ([]state.Variable, error) {
	var out []state.Variable
	err := s.variables.ForEach(s.variables.Key().Int64(scopeKey), func(_ []byte, v state.Variable) error {
		out = append(out, v)
		return nil
	})
	return out, err
}
