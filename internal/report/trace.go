package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/engine"
)

// Trace prints one row per simulated year. Call Flush when the trial ends.
type Trace struct {
	tw     *tabwriter.Writer
	events int
}

// NewTrace writes the table header to w.
func NewTrace(w io.Writer) *Trace {
	tr := &Trace{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	fmt.Fprintln(tr.tw, "YEAR\tFOOD\tFIREWOOD\tTOOLS\tPOPULATION\tHAPPINESS\tINSURANCE\tEVENTS")
	return tr
}

// Year appends the town's current state. Events that fired since the
// previous row are listed in the last column.
func (tr *Trace) Year(t *engine.Town) {
	var fired []string
	if tr.events < len(t.Events) {
		for _, e := range t.Events[tr.events:] {
			fired = append(fired, e.Kind.String())
		}
		tr.events = len(t.Events)
	}

	fmt.Fprintf(tr.tw, "%d\t%d\t%d\t%d\t%d\t%s\t%d\t%s\n",
		t.Year,
		t.Food(),
		t.Stock.Get(economy.Firewood),
		t.Stock.Get(economy.Tools),
		len(t.Population),
		formatHappiness(engine.MeanHappiness(t.Population)),
		t.InsuranceFund,
		strings.Join(fired, ","),
	)
}

// Flush writes the buffered table.
func (tr *Trace) Flush() error {
	return tr.tw.Flush()
}

func formatHappiness(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}
