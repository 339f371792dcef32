package memory

import "github.com/crmdesk/agenda/pkg/domain/interfaces"

// ErrNotFound is returned when a record does not exist
var ErrNotFound = interfaces.ErrNotFound

type Memory struct {
	activity *activityRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		activity: newActivityRepository(),
	}
}

func (m *Memory) Activity() interfaces.ActivityRepository {
	return m.activity
}

func (m *Memory) Close() error {
	return nil
}
