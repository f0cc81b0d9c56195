package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
)

// RegenerateOptions флаги команды regenerate
type RegenerateOptions struct {
	*RootOptions
	ResourceID int64
	From       string
	To         string
	All        bool
}

// NewRegenerateCommand создает команду перегенерации слотов
func NewRegenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Rebuild unbooked slots from the resource configuration",
		Long: `Rebuild unbooked slots from the resource configuration.

Booked slots are never deleted. Either pass --resource with a date range,
or --all to fill every resource's booking window starting today.

Examples:
  slotctl regenerate --resource 10 --from 2026-11-02 --to 2026-11-08
  slotctl regenerate --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegenerate(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.ResourceID, "resource", 0, "resource id")
	cmd.Flags().StringVar(&opts.From, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.To, "to", "", "last date, YYYY-MM-DD (defaults to --from)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "regenerate every resource over its booking window")
	cmd.MarkFlagsMutuallyExclusive("resource", "all")

	return cmd
}

func runRegenerate(opts *RegenerateOptions, cmd *cobra.Command) error {
	if opts.All {
		return opts.run(func(svc *Services) error {
			result, err := svc.RollHorizon.Execute(cmd.Context())
			if err != nil {
				return err
			}
			if err := printResult(cmd.OutOrStdout(), opts.Format, result, func(w io.Writer) {
				writeLine(w, "resources=%d inserted=%d deleted=%d failed=%v",
					result.Resources, result.Inserted, result.Deleted, result.Failed)
			}); err != nil {
				return err
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d resources failed to regenerate", len(result.Failed))
			}
			return nil
		})
	}

	req, err := opts.request()
	if err != nil {
		return err
	}

	return opts.run(func(svc *Services) error {
		resp, err := svc.Regenerate.Execute(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), opts.Format, resp, func(w io.Writer) {
			writeLine(w, "resource %d %s..%s: deleted=%d inserted=%d preserved=%d skipped=%d pending_release=%d",
				resp.ResourceID, resp.From.Format(domain.DateFormat), resp.To.Format(domain.DateFormat),
				resp.Deleted, resp.Inserted, resp.Preserved, resp.Skipped, resp.PendingRelease)
		})
	})
}

func (o *RegenerateOptions) request() (*regenerateSlots.Request, error) {
	if o.ResourceID <= 0 {
		return nil, errors.New("--resource or --all is required")
	}
	if o.From == "" {
		return nil, errors.New("--from is required with --resource")
	}
	from, err := time.Parse(domain.DateFormat, o.From)
	if err != nil {
		return nil, fmt.Errorf("invalid --from: %w", err)
	}
	to := from
	if o.To != "" {
		if to, err = time.Parse(domain.DateFormat, o.To); err != nil {
			return nil, fmt.Errorf("invalid --to: %w", err)
		}
	}
	return &regenerateSlots.Request{ResourceID: o.ResourceID, From: from, To: to}, nil
}
