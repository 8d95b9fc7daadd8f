package model

// Network declares a set of channels shared by one or more processes.
type Network struct {
	Name      string     `yaml:"name,omitempty" json:"name,omitempty"`
	Channels  []*Channel `yaml:"channels" json:"channels"`
	Processes []*Process `yaml:"processes" json:"processes"`
}

// Channel returns the declaration with the supplied id, or nil.
func (n *Network) Channel(id ChannelID) *Channel {
	for _, candidate := range n.Channels {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}

// Process returns the declaration with the supplied name, or nil.
func (n *Network) Process(name string) *Process {
	for _, candidate := range n.Processes {
		if candidate.Name == name {
			return candidate
		}
	}
	return nil
}

// channelIndex builds an id keyed lookup; duplicate ids surface in Validate.
func (n *Network) channelIndex() map[ChannelID]*Channel {
	index := make(map[ChannelID]*Channel, len(n.Channels))
	for _, channel := range n.Channels {
		if _, ok := index[channel.ID]; ok {
			continue
		}
		index[channel.ID] = channel
	}
	return index
}
