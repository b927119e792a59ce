package experiment

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
)

// WriteTable prints one aligned row per result.
func WriteTable(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EXPERIMENT\tMODULATOR\tDEMODULATOR\tCHANNEL\tCORR\tAMP\tSNR(dB)\tPEAK(Hz)")

	for _, res := range results {
		ch := "clean"
		if res.Job.Noisy {
			ch = formatSNR(res.Job.SNRdB) + " dB"
		}
		rep := res.Report
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.4f\t%.3f\t%s\t%.1f\n",
			res.Job.Name(), res.Job.Modulator, res.Job.Demodulator, ch,
			rep.Correlation, rep.AmplitudeRatio, formatDB(rep.SNRdB), rep.DominantHz)
	}

	return tw.Flush()
}

func formatDB(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.1f", v)
}
