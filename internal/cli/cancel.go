package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	cancelBooking "github.com/m04kA/SMC-TeeTimeService/internal/usecase/cancel_booking"
)

// CancelOptions флаги команды cancel
type CancelOptions struct {
	*RootOptions
	BookingID int64
}

// NewCancelCommand создает команду отмены бронирования оператором
func NewCancelCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CancelOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a booking on behalf of the venue (no owner check)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.BookingID <= 0 {
				return errors.New("--booking is required")
			}
			return opts.run(func(svc *Services) error {
				resp, err := svc.Cancel.Execute(cmd.Context(), &cancelBooking.Request{BookingID: opts.BookingID})
				var partial *cancelBooking.PartialError
				if errors.As(err, &partial) {
					// Бронирование удалено; остаток освободит reconcile
					out := pendingResult{BookingID: partial.BookingID, Status: "cancellation_pending", PendingSlotIDs: partial.PendingSlotIDs}
					return printResult(cmd.OutOrStdout(), opts.Format, out, func(w io.Writer) {
						writeLine(w, "booking %d cancelled, pending slots %v will be released by reconcile",
							partial.BookingID, partial.PendingSlotIDs)
					})
				}
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts.Format, resp, func(w io.Writer) {
					writeLine(w, "booking %d cancelled, released slots %v", resp.BookingID, resp.ReleasedSlotIDs)
				})
			})
		},
	}

	cmd.Flags().Int64Var(&opts.BookingID, "booking", 0, "booking id")

	return cmd
}

type pendingResult struct {
	BookingID      int64   `json:"bookingId"`
	Status         string  `json:"status"`
	PendingSlotIDs []int64 `json:"pendingSlotIds"`
}
