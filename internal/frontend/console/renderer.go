package console

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
)

// teamHeadings names each team's section on the battlefield display.
var teamHeadings = []struct {
	team  battle.Team
	label string
	color string
}{
	{battle.Player, "characters", BrightGreen},
	{battle.Monster, "monsters", BrightRed},
}

// Renderer writes an encounter to a terminal. It is not safe for concurrent use.
type Renderer struct {
	w     io.Writer
	paint Painter
	title cases.Caser
	err   error
}

// NewRenderer creates a Renderer writing to w, styled when color is true.
//
// Precondition: w must be non-nil.
func NewRenderer(w io.Writer, color bool) *Renderer {
	if w == nil {
		panic("console.NewRenderer: writer must not be nil")
	}
	return &Renderer{w: w, paint: Painter{Enabled: color}, title: cases.Title(language.English)}
}

// Err returns the first write error, if any.
func (r *Renderer) Err() error { return r.err }

// print writes s, dropping any escape sequences when color is off so names
// loaded from content cannot style a plain terminal.
func (r *Renderer) print(s string) {
	if r.err != nil {
		return
	}
	if !r.paint.Enabled {
		s = StripANSI(s)
	}
	_, r.err = io.WriteString(r.w, s)
}

// Round shows the round number and every combatant, numbered within its team.
func (r *Renderer) Round(field *battle.Battlefield) {
	r.print(RenderBattlefield(field, r.paint, r.title))
}

// Events shows a round's narration in resolution order.
func (r *Renderer) Events(events []battle.Event) {
	var b strings.Builder
	for _, e := range events {
		b.WriteString(renderEvent(e, r.paint))
		b.WriteString("\n")
	}
	r.print(b.String())
}

// Outcome shows the final status.
func (r *Renderer) Outcome(status battle.Status) {
	color := BrightGreen
	if status == battle.MonsterVictory {
		color = BrightRed
	}
	r.print("\n" + r.paint.Colorize(Bold+color, r.title.String(status.String())+"!") + "\n")
}

// Printf writes free-form text, used by the prompt.
func (r *Renderer) Printf(format string, args ...any) {
	r.print(fmt.Sprintf(format, args...))
}

// RenderBattlefield formats field with a round header and one titled section
// per team.
func RenderBattlefield(field *battle.Battlefield, p Painter, title cases.Caser) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(p.Colorf(Bold+BrightYellow, "=== Round %d ===", field.Round))
	b.WriteString("\n")
	for _, h := range teamHeadings {
		b.WriteString(p.Colorize(h.color, title.String(h.label)))
		b.WriteString("\n")
		n := 0
		for _, c := range field.Members(h.team) {
			n++
			line := fmt.Sprintf("  %d. %s", n, c)
			if !c.IsAlive() {
				line = p.Colorize(Dim, line+" (dead)")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderEvent(e battle.Event, p Painter) string {
	switch e.Kind {
	case battle.EventHit:
		return p.Colorize(Red, e.Narrative)
	case battle.EventMiss, battle.EventSkip:
		return p.Colorize(Dim, e.Narrative)
	case battle.EventDeath:
		return p.Colorize(Bold+BrightRed, e.Narrative)
	case battle.EventDefend:
		return p.Colorize(Cyan, e.Narrative)
	case battle.EventRetarget:
		return p.Colorize(Yellow, e.Narrative)
	default:
		return e.Narrative
	}
}
