// Package report turns reduced measurements into the JSON artifacts consumed
// by the plotting scripts.
package report

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/runningwild/microbench/pkg/stats"
)

// Record is one reduced value for an operation at a workload size. It
// serializes as the array [name, param, value].
type Record struct {
	Name  string
	Param int
	Value float64
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{r.Name, r.Param, r.Value})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return errors.Errorf("record: want 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &r.Name); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &r.Param); err != nil {
		return err
	}
	return json.Unmarshal(raw[2], &r.Value)
}

// ChannelRecords groups the regression estimates of one instrumentation
// channel. It serializes as [channel, [record, ...]].
type ChannelRecords struct {
	Channel string
	Records []Record
}

func (c ChannelRecords) MarshalJSON() ([]byte, error) {
	recs := c.Records
	if recs == nil {
		recs = []Record{}
	}
	return json.Marshal([]interface{}{c.Channel, recs})
}

func (c *ChannelRecords) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return errors.Errorf("channel records: want 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &c.Channel); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &c.Records)
}

// FromMeans converts reduced table series to records, keeping their order.
func FromMeans(reduced []stats.Reduced) []Record {
	out := make([]Record, len(reduced))
	for i, r := range reduced {
		out[i] = Record{Name: r.Name, Param: r.Param, Value: r.Value}
	}
	return out
}
