package stats

import (
	"fmt"
	"time"
)

// Key identifies one measured series: an operation at a workload size.
type Key struct {
	Name  string
	Param int
}

func (k Key) String() string { return fmt.Sprintf("%s/%d", k.Name, k.Param) }

// Table accumulates raw samples per key. Series only grow; keys are
// reported in the order they were first recorded.
type Table struct {
	series map[Key][]float64
	order  []Key
}

func NewTable() *Table {
	return &Table{series: make(map[Key][]float64)}
}

// Record appends v to the series for k.
func (t *Table) Record(k Key, v float64) {
	s, ok := t.series[k]
	if !ok {
		t.order = append(t.order, k)
	}
	t.series[k] = append(s, v)
}

// Series returns the samples recorded for k in trial order.
func (t *Table) Series(k Key) []float64 { return t.series[k] }

// Keys returns every key in first-recorded order.
func (t *Table) Keys() []Key {
	out := make([]Key, len(t.order))
	copy(out, t.order)
	return out
}

func (t *Table) Len() int { return len(t.order) }

// Measure runs fn once and appends its wall-clock duration, in seconds, to
// the series for (name, param). If fn fails nothing is recorded and the
// error is returned as is.
func Measure(t *Table, name string, param int, fn func() error) error {
	start := time.Now()
	if err := fn(); err != nil {
		return err
	}
	t.Record(Key{Name: name, Param: param}, time.Since(start).Seconds())
	return nil
}
