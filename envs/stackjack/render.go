package stackjack

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/finite-mdp/core"
)

// Render writes one row per card sum with its value and the policy's choice.
// Either values or policy may be nil.
func (g *Game) Render(w io.Writer, values core.ValueFunction, policy core.Chooser, colors bool) error {
	au := aurora.NewAurora(colors)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "sum\tvalue\tpolicy")
	for _, s := range g.states {
		value := "-"
		if values != nil {
			value = fmt.Sprintf("%.3f", values[s])
		}
		choice := "-"
		if g.IsTerminal(s) {
			choice = au.Gray(12, "bust").String()
		} else if policy != nil {
			choice = choiceLabel(au, policy.Choice(s))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s, value, choice)
	}
	return tw.Flush()
}

func choiceLabel(au aurora.Aurora, c core.Choice) string {
	switch c := c.(type) {
	case core.SingleAction:
		name := ActionNames[c]
		if core.Action(c) == ActionStand {
			return au.Green(name).String()
		}
		return au.Yellow(name).String()
	case core.ActionSet:
		names := make([]string, len(c))
		for i, a := range c {
			names[i] = ActionNames[a]
		}
		return strings.Join(names, "|")
	}
	return "?"
}
