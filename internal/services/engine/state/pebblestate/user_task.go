package pebblestate

import (
	"github.com/louisbranch/waypoint/internal/services/engine/state"
)

func (s *State) PutUserTask(u state.UserTask) error {
	return s.userTasks.Put(s.userTasks.Key().Int64(u.Key), u)
}

func (s *State) GetUserTask(key int64) (state.UserTask, error) {
	return get(s.userTasks, s.userTasks.Key().Int64(key))
}

func (s *State) DeleteUserTask(key int64) error {
	return s.userTasks.Delete(s.userTasks.Key().Int64(key))
}
