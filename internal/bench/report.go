package bench

import (
	"encoding/json"
	"io"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteText renders r as an aligned table. Unit counts are grouped by
// thousands.
func WriteText(w io.Writer, r *Report) (err error) {
	defer Error.WrapP(&err)

	p := message.NewPrinter(language.English)

	_, err = p.Fprintf(w, "run %s suite=%s correction=%d repeat=%d started=%s\n",
		r.ID, r.Suite, r.Correction, r.Repeat, r.Started.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	_, err = p.Fprintf(tw, "case\tmin\tmedian\tmax\tvalue\t\n")
	if err != nil {
		return err
	}

	for _, c := range r.Cases {
		if c.Failed() {
			_, err = p.Fprintf(tw, "%s\t-\t-\t-\tFAIL: %s\t\n", c.Name, c.Error)
		} else {
			_, err = p.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t\n", c.Name, c.Stats.Min, c.Stats.Median, c.Stats.Max, c.Value)
		}

		if err != nil {
			return err
		}
	}

	err = tw.Flush()
	if err != nil {
		return err
	}

	_, err = p.Fprintf(w, "%d cases, %d failed\n", len(r.Cases), r.Failed())

	return err
}

// WriteJSON renders r as indented JSON.
func WriteJSON(w io.Writer, r *Report) (err error) {
	defer Error.WrapP(&err)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}
