package types

// Channel names a logical line of fetches. Each channel has at most one
// batch in flight; a newer batch supersedes the older one.
type Channel string

const (
	ChannelOverview   Channel = "overview"
	ChannelEmployee   Channel = "employee"
	ChannelAssignedTo Channel = "assigned-to"
	ChannelHistory    Channel = "history"
)

// String returns the string representation of the channel
func (c Channel) String() string {
	return string(c)
}
