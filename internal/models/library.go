package models

import (
	"encoding/json"
	"fmt"
)

// Series groups the models of one product line within an instrument class.
type Series struct {
	SeriesID   string  `json:"series_id"`
	SeriesName string  `json:"series_name"`
	Models     []Model `json:"models"`
}

// Model describes one catalog entry: its channels and connection interfaces.
type Model struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Capabilities Capabilities `json:"capabilities"`
	Interface    Interface    `json:"interface"`
}

// Interface lists the connection interfaces a model supports.
type Interface struct {
	SupportedConnectionTypes []ConnectionType `json:"supported_connection_types"`
}

// ConnectionType is one supported connection descriptor, e.g. {type: "GPIB"}.
type ConnectionType struct {
	Type string `json:"type"`
}

// ChannelDescriptor names one channel of a model.
type ChannelDescriptor struct {
	Label     string `json:"label"`
	ChannelID string `json:"channel_id"`
}

// Capabilities carries a model's channel set. The catalog expresses it either
// as a descriptor list or, for simple multi-channel classes, a bare count.
type Capabilities struct {
	Channels []ChannelDescriptor
	Count    int
}

// ChannelCount returns the number of channels regardless of representation.
func (c Capabilities) ChannelCount() int {
	if c.Channels != nil {
		return len(c.Channels)
	}
	return c.Count
}

func (c *Capabilities) UnmarshalJSON(data []byte) error {
	var raw struct {
		Channels json.RawMessage `json:"channels"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Channels) == 0 {
		return nil
	}
	var count int
	if err := json.Unmarshal(raw.Channels, &count); err == nil {
		c.Count = count
		return nil
	}
	var list []ChannelDescriptor
	if err := json.Unmarshal(raw.Channels, &list); err != nil {
		return fmt.Errorf("capabilities channels must be a count or a descriptor list: %w", err)
	}
	c.Channels = list
	c.Count = len(list)
	return nil
}

func (c Capabilities) MarshalJSON() ([]byte, error) {
	if c.Channels != nil {
		return json.Marshal(struct {
			Channels []ChannelDescriptor `json:"channels"`
		}{c.Channels})
	}
	return json.Marshal(struct {
		Channels int `json:"channels"`
	}{c.Count})
}
