package tracing

import (
	"context"

	"github.com/sarchlab/eventsim/datarecording"
)

// A TraceReader reads back the records a DBTracer wrote.
type TraceReader struct {
	*datarecording.Reader
}

// NewTraceReader opens the trace file at path.
func NewTraceReader(path string) (*TraceReader, error) {
	r, err := datarecording.NewReader(path)
	if err != nil {
		return nil, err
	}

	return &TraceReader{Reader: r}, nil
}

// Dispatches returns the recorded dispatches that match params.
func (r *TraceReader) Dispatches(
	ctx context.Context,
	params datarecording.QueryParams,
) ([]DispatchRecord, error) {
	return datarecording.Query[DispatchRecord](ctx, r.Reader, DispatchTable,
		params)
}

// PrimitiveOps returns the recorded primitive operations that match params.
func (r *TraceReader) PrimitiveOps(
	ctx context.Context,
	params datarecording.QueryParams,
) ([]PrimitiveRecord, error) {
	return datarecording.Query[PrimitiveRecord](ctx, r.Reader, PrimitiveTable,
		params)
}
