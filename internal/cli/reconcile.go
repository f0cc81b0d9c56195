package cli

import (
	"io"

	"github.com/spf13/cobra"

	reconcileReleases "github.com/m04kA/SMC-TeeTimeService/internal/usecase/reconcile_releases"
)

// ReconcileOptions флаги команды reconcile
type ReconcileOptions struct {
	*RootOptions
	BatchSize int
	UntilDone bool
}

// NewReconcileCommand создает команду сверки
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReconcileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Retry capacity releases left behind by partial cancellations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(svc *Services) error {
				total, err := reconcile(cmd, svc.Reconcile, opts.BatchSize, opts.UntilDone)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts.Format, total, func(w io.Writer) {
					writeLine(w, "processed=%d released=%d dropped=%d corrupt=%d failed=%d",
						total.Processed, total.Released, total.Dropped, total.Corrupt, total.Failed)
				})
			})
		},
	}

	cmd.Flags().IntVar(&opts.BatchSize, "batch", reconcileReleases.DefaultBatchSize, "tasks per pass")
	cmd.Flags().BoolVar(&opts.UntilDone, "until-done", false, "repeat passes while every task of a pass succeeds")

	return cmd
}

// reconcile повторяет проходы, пока они что-то освобождают;
// задачи, оставшиеся после неудачи, ждут следующего запуска
func reconcile(cmd *cobra.Command, r Reconciler, batchSize int, untilDone bool) (*reconcileReleases.Result, error) {
	total := &reconcileReleases.Result{}
	for {
		result, err := r.Execute(cmd.Context(), batchSize)
		if err != nil {
			return nil, err
		}
		total.Processed += result.Processed
		total.Released += result.Released
		total.Dropped += result.Dropped
		total.Corrupt += result.Corrupt
		total.Failed += result.Failed

		if !untilDone || result.Processed < batchSize || result.Corrupt+result.Failed > 0 {
			return total, nil
		}
	}
}
