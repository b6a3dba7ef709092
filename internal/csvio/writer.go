package csvio

import (
	"bufio"
	"fmt"
	"io"

	"PayEngine/internal/engine"
)

// WriteSnapshots renders the end-of-run account report: a header plus
// one row per client, amounts at fixed 4-fractional-digit precision.
// The input is already sorted by ascending client id.
func WriteSnapshots(w io.Writer, snaps []engine.AccountSnapshot) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, "client,available,held,total,locked"); err != nil {
		return err
	}
	for _, s := range snaps {
		_, err := fmt.Fprintf(bw, "%d,%s,%s,%s,%t\n",
			s.Client,
			s.Available.StringFixed(4),
			s.Held.StringFixed(4),
			s.Total.StringFixed(4),
			s.Locked,
		)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
