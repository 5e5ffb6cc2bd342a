package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/pinochle-score/internal/api/response"
	"github.com/mcoot/pinochle-score/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == FormatJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == FormatJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Game:
		o.printGame(v)
	case response.GameList:
		o.printGameList(v)
	case response.Hand:
		o.printHand(v, "")
	case response.HandList:
		o.printHandList(v)
	case response.Totals:
		o.printTotals(v)
	case response.Health:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printGame(g response.Game) {
	o.printf("Game: %s\n", g.ID)
	o.printf("State: %s\n", g.State)
	o.printf("Dealer: %s\n", g.CurrentDealer)
	o.printf("Hands played: %d\n", g.HandsCompleted)
	o.printTotals(g.Totals)

	if g.CurrentHand != nil {
		o.printf("\nCurrent hand:\n")
		o.printHand(*g.CurrentHand, "  ")
	}
}

func (o *Output) printGameList(l response.GameList) {
	if len(l.Games) == 0 {
		o.printf("No games\n")
		return
	}
	for _, g := range l.Games {
		o.printf("%s  %-16s  us %d / them %d\n", g.ID, g.State, g.Totals.Us, g.Totals.Them)
	}
}

func (o *Output) printHand(h response.Hand, indent string) {
	o.printf("%sPhase: %s\n", indent, h.Phase)
	o.printf("%sDealer: %s\n", indent, h.Dealer)

	if h.Bidder != "" && h.BidAmount != nil {
		o.printf("%sBid: %d by %s (%s)\n", indent, *h.BidAmount, h.Bidder, h.Bidder.Team())
	}
	if h.Trump != "" {
		o.printf("%sTrump: %s\n", indent, h.Trump)
	}
	if h.UsMeld.Present() || h.ThemMeld.Present() {
		o.printf("%sMeld: us %s / them %s\n", indent, h.UsMeld, h.ThemMeld)
	}
	if h.RequiredTricks != nil {
		o.printf("%sBidding team needs %d in tricks\n", indent, *h.RequiredTricks)
	}
	if h.UsTricks.Present() || h.ThemTricks.Present() {
		o.printf("%sTricks: us %s / them %s\n", indent, h.UsTricks, h.ThemTricks)
	}
	if h.UsTotal.Present() || h.ThemTotal.Present() {
		o.printf("%sScore: us %s / them %s\n", indent, h.UsTotal, h.ThemTotal)
	}
	if h.Outcome != "" {
		o.printf("%sOutcome: %s\n", indent, outcomeText(h.Outcome))
	}
}

func (o *Output) printHandList(l response.HandList) {
	if len(l.Hands) == 0 {
		o.printf("No completed hands\n")
		return
	}
	for i, h := range l.Hands {
		bid := "-"
		if h.BidAmount != nil {
			bid = fmt.Sprintf("%s %d", h.Bidder, *h.BidAmount)
		}
		o.printf("%2d. %-10s %-9s us %5s  them %5s  %s\n",
			i+1, bid, h.Trump, h.UsTotal, h.ThemTotal, outcomeText(h.Outcome))
	}
}

func (o *Output) printTotals(t response.Totals) {
	o.printf("Score: us %d / them %d\n", t.Us, t.Them)
	if t.Complete {
		if t.Winner != "" {
			o.printf("Winner: %s\n", t.Winner)
		} else {
			o.printf("Game over: tied\n")
		}
	}
}

func outcomeText(outcome model.HandOutcome) string {
	return strings.ReplaceAll(string(outcome), "_", " ")
}
