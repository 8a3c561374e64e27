package dialogue

import "github.com/kasimali67/ai-call-agent/pkg/domain"

// Edge labels.
const (
	LabelAnswer  = "answer"
	LabelYes     = "yes"
	LabelDecline = "other"
	LabelSilence = "silence"
)

// Edge is one transition of the booking script.
type Edge struct {
	From  domain.Step
	To    domain.Step
	Label string
}

// Edges lists the transitions Transition can make between recognized steps.
// Silence loops on every step and is reported once per step.
func Edges() []Edge {
	edges := []Edge{
		{From: domain.StepAskLocation, To: domain.StepAskDates, Label: LabelAnswer},
		{From: domain.StepAskDates, To: domain.StepAskRoomType, Label: LabelAnswer},
		{From: domain.StepAskRoomType, To: domain.StepConfirm, Label: LabelAnswer},
		{From: domain.StepConfirm, To: domain.StepBooked, Label: LabelYes},
		{From: domain.StepConfirm, To: domain.StepAskLocation, Label: LabelDecline},
		{From: domain.StepBooked, To: domain.StepBooked, Label: LabelAnswer},
	}
	for _, s := range domain.Steps {
		edges = append(edges, Edge{From: s, To: s, Label: LabelSilence})
	}
	return edges
}
