package graph

import (
	"fmt"
	"strings"

	"github.com/kasimali67/ai-call-agent/pkg/dialogue"
	"github.com/kasimali67/ai-call-agent/pkg/domain"
)

// Overlay highlights a call's position on the script graph.
type Overlay struct {
	Answered []domain.Step
	Current  domain.Step
}

// GenerateMermaid produces a Mermaid flowchart of the booking script.
// Shapes:
// - First question: ((Circle))
// - Terminal: [[Subroutine]]
// - Questions: [/Parallelogram/]
// Silence loops are omitted unless includeSilence is set.
func GenerateMermaid(edges []dialogue.Edge, overlay *Overlay, includeSilence bool) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[domain.Step]bool)
	declare := func(s domain.Step) {
		if declared[s] {
			return
		}
		declared[s] = true

		opener, closer := "[/", "/]"
		switch {
		case s == domain.StepAskLocation:
			opener, closer = "((", "))"
		case s.Terminal():
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", s, opener, s, closer)
	}

	for _, e := range edges {
		if e.Label == dialogue.LabelSilence && !includeSilence {
			declare(e.From)
			continue
		}
		declare(e.From)
		declare(e.To)

		arrow := fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(e.Label, "\"", "'"))
		if e.Label == dialogue.LabelSilence {
			arrow = fmt.Sprintf("-. \"%s\" .->", e.Label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", e.From, arrow, e.To)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef answered fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.Step]bool)
		for _, s := range overlay.Answered {
			if !seen[s] && declared[s] && s != overlay.Current {
				seen[s] = true
				fmt.Fprintf(&sb, "    class %s answered;\n", s)
			}
		}
		if declared[overlay.Current] {
			fmt.Fprintf(&sb, "    class %s current;\n", overlay.Current)
		}
	}

	return sb.String()
}

// OverlayFor derives the overlay of a stored call record.
func OverlayFor(state domain.ConversationState) *Overlay {
	o := &Overlay{Current: state.Step}
	if state.Location != "" {
		o.Answered = append(o.Answered, domain.StepAskLocation)
	}
	if state.Dates != "" {
		o.Answered = append(o.Answered, domain.StepAskDates)
	}
	if state.RoomType != "" {
		o.Answered = append(o.Answered, domain.StepAskRoomType)
	}
	if state.Booked() {
		o.Answered = append(o.Answered, domain.StepConfirm)
	}
	return o
}
