package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/eventsim/datarecording"
	"github.com/sarchlab/eventsim/tracing"
)

type traceOptions struct {
	table string
	count bool
	datarecording.QueryParams
}

func newTraceCmd() *cobra.Command {
	opts := traceOptions{}

	traceCmd := &cobra.Command{
		Use:   "trace <file>",
		Short: "Print the records of a trace file written by `run --trace`.",
		Long: "Print the records of a trace file as JSON lines. Dispatches " +
			"are in table dispatch, primitive operations in table " +
			"primitive_op. Columns are the record field names, for example " +
			"--where \"Op = 'Get'\" --order-by \"Time DESC\".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := tracing.NewTraceReader(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			return opts.print(cmd, reader)
		},
	}

	flags := traceCmd.Flags()
	flags.StringVar(&opts.table, "table", tracing.DispatchTable,
		"Table to read: dispatch or primitive_op.")
	flags.BoolVar(&opts.count, "count", false,
		"Print the number of matching records only.")
	flags.StringVar(&opts.Where, "where", "",
		"SQL condition on the record fields.")
	flags.StringVar(&opts.OrderBy, "order-by", "",
		"SQL ordering on the record fields.")
	flags.IntVar(&opts.Limit, "limit", 0,
		"Maximum number of records. 0 prints all.")
	flags.IntVar(&opts.Offset, "offset", 0, "Number of records to skip.")

	return traceCmd
}

func (o traceOptions) print(cmd *cobra.Command, r *tracing.TraceReader) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if o.count {
		n, err := r.Count(ctx, o.table, o.QueryParams)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(out, n)

		return err
	}

	var (
		records []any
		err     error
	)

	switch o.table {
	case tracing.DispatchTable:
		records, err = collect(r.Dispatches(ctx, o.QueryParams))
	case tracing.PrimitiveTable:
		records, err = collect(r.PrimitiveOps(ctx, o.QueryParams))
	default:
		return fmt.Errorf("%w: %s", datarecording.ErrUnknownTable, o.table)
	}

	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}

	return nil
}

func collect[T any](records []T, err error) ([]any, error) {
	all := make([]any, len(records))
	for i, rec := range records {
		all[i] = rec
	}

	return all, err
}
