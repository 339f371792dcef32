package model

import (
	"time"

	"github.com/crmdesk/agenda/pkg/domain/types"
)

// ChannelSnapshot is the read-only view of a channel's committed state
type ChannelSnapshot struct {
	Channel     types.Channel
	Items       []*Activity
	Loading     bool
	Error       string
	Generation  uint64
	CommittedAt time.Time
}

// HasData reports whether any batch has been committed
func (s ChannelSnapshot) HasData() bool {
	return !s.CommittedAt.IsZero()
}
