package state

import (
	"context"
	"fmt"

	"flixviz/internal/models"
	"flixviz/internal/source"
)

// Dashboard groups one ChartState per chart kind
type Dashboard struct {
	states map[models.ChartKind]*ChartState
}

// NewDashboard creates a state for every chart kind with the given options
func NewDashboard(opts ...Option) *Dashboard {
	d := &Dashboard{states: make(map[models.ChartKind]*ChartState, len(models.AllKinds))}
	for _, k := range models.AllKinds {
		d.states[k] = New(k, opts...)
	}
	return d
}

// Load hands the same records to every chart
func (d *Dashboard) Load(records []models.Record) {
	for _, k := range models.AllKinds {
		d.states[k].Load(records)
	}
}

// LoadFrom loads the dataset once and shares it between charts. On failure
// every chart is left empty.
func (d *Dashboard) LoadFrom(ctx context.Context, src source.RecordSource, location string) error {
	records, err := src.Load(ctx, location)
	if err != nil {
		d.Load(nil)
		return err
	}
	d.Load(records)
	return nil
}

// State returns the chart state of kind
func (d *Dashboard) State(kind models.ChartKind) (*ChartState, error) {
	s, ok := d.states[kind]
	if !ok {
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
	return s, nil
}

// Views returns the current view of every chart in dashboard order
func (d *Dashboard) Views() []View {
	out := make([]View, 0, len(models.AllKinds))
	for _, k := range models.AllKinds {
		out = append(out, d.states[k].View())
	}
	return out
}

// Records is the number of records currently loaded
func (d *Dashboard) Records() int {
	return d.states[models.AllKinds[0]].Records()
}
