package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/alvinbaena/pwd-meter/pkg/hibp"
	"github.com/alvinbaena/pwd-meter/pkg/strength"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func breachLine(r hibp.Result) string {
	switch r.Status {
	case hibp.Found:
		return printer.Sprintf("found in breaches %d times", r.Count)
	case hibp.NotFound:
		return "not found in known breaches"
	default:
		if r.Err == nil {
			return "unknown"
		}
		return "unknown (" + r.Err.Error() + ")"
	}
}

func writeResult(w io.Writer, res analysis.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Strength:\t%s (%.2f bits, %s, pool %d, %s)\n",
		res.Classification, res.EntropyBits, res.Sample.Classes, res.Sample.PoolSize, res.Source)
	fmt.Fprintf(tw, "Breach:\t%s\n", breachLine(res.Breach))
	fmt.Fprintf(tw, "Dictionary:\tscore %d/4, %s", res.Dictionary.Score, res.Dictionary.CrackTimeDisplay)
	if len(res.Dictionary.Patterns) > 0 {
		fmt.Fprintf(tw, " (%s)", strings.Join(res.Dictionary.Patterns, ", "))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Brute force:")
	for _, p := range strength.Profiles {
		if d, ok := res.CrackTimes[p.Name]; ok {
			fmt.Fprintf(tw, "  %s\t%s\n", p.Label, d)
		}
	}

	if len(res.Observations) > 0 {
		fmt.Fprintln(tw, "Observations:")
		for _, o := range res.Observations {
			fmt.Fprintf(tw, "  - %s\n", o)
		}
	}

	if res.Hardened != "" {
		fmt.Fprintf(tw, "Hardened:\t%s\n", res.Hardened)
	}
	for i, s := range res.Suggestions {
		label := ""
		if i == 0 {
			label = "Suggestions:"
		}
		fmt.Fprintf(tw, "%s\t%s\n", label, s)
	}
	for _, n := range res.Notices {
		fmt.Fprintf(tw, "Notice:\t%s\n", n)
	}

	return tw.Flush()
}

func writeSimilarity(w io.Writer, sim strength.Similarity) {
	if sim.Similar {
		fmt.Fprintf(w, "History:  %s\n", sim.Reason)
	} else {
		fmt.Fprintln(w, "History:  not similar to any saved password")
	}
}
