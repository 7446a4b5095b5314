package gridworld

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/finite-mdp/core"
)

// Snapshot is what a rendering shows besides the world itself
type Snapshot struct {
	Agent  *Position
	Values core.ValueFunction
	Policy core.Chooser
	Colors bool
}

// Render draws the world as a table, one cell per position:
// agent marker, label, teleport, reward, value and policy arrows.
func (w *World) Render(out io.Writer, snap Snapshot) error {
	au := aurora.NewAurora(snap.Colors)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i := 0; i < w.config.Height; i++ {
		cells := make([]string, w.config.Width)
		for j := 0; j < w.config.Width; j++ {
			cells[j] = w.cell(au, Position{Row: i, Col: j}, snap)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}

func (w *World) cell(au aurora.Aurora, p Position, snap Snapshot) string {
	if w.blocked[p] {
		return au.Gray(12, "###").String()
	}
	infos := make([]string, 0)
	if snap.Agent != nil && *snap.Agent == p {
		infos = append(infos, au.Green("X").Bold().String())
	}
	if label, ok := w.config.Labels[p]; ok {
		infos = append(infos, label)
	}
	if t, ok := w.config.Teleports[p]; ok {
		target := t.Target.String()
		if label, ok := w.config.Labels[t.Target]; ok {
			target = label
		}
		infos = append(infos, fmt.Sprintf("*%s(%+g)", target, t.Reward))
	}
	if r, ok := w.config.Rewards[p]; ok {
		infos = append(infos, au.Cyan(fmt.Sprintf("%+g", r)).String())
	}
	s := w.StateOf(p)
	if snap.Values != nil {
		if v, ok := snap.Values[s]; ok {
			infos = append(infos, fmt.Sprintf("%.1f", v))
		}
	}
	if snap.Policy != nil && !w.IsTerminal(s) {
		infos = append(infos, arrows(snap.Policy.Choice(s)))
	}
	if len(infos) == 0 {
		return "."
	}
	return strings.Join(infos, " ")
}

func arrows(c core.Choice) string {
	switch c := c.(type) {
	case core.SingleAction:
		return MoveLabels[c]
	case core.ActionSet:
		var b strings.Builder
		for _, a := range c {
			b.WriteString(MoveLabels[a])
		}
		return b.String()
	}
	return ""
}
