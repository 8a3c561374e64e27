package dialogue

import (
	"strings"

	"github.com/kasimali67/ai-call-agent/pkg/domain"
)

// confirmToken is matched case-insensitively anywhere in the confirmation answer.
const confirmToken = "yes"

// Transition computes the reply to utterance and the next state of the call.
//
// Silence never advances the flow, and an uninitialized record is reset to the
// first question without consuming the utterance. Once booked, the record is no
// longer mutated.
func Transition(utterance string, state domain.ConversationState) (string, domain.ConversationState) {
	text := strings.TrimSpace(utterance)

	if text == "" {
		return Prompt(state.Step), state
	}

	if !state.Initialized() {
		return PromptLocation, domain.NewConversation()
	}

	next := state
	switch state.Step {
	case domain.StepAskLocation:
		next.Location = text
		next.Step = domain.StepAskDates
		return datesReply(text), next

	case domain.StepAskDates:
		next.Dates = text
		next.Step = domain.StepAskRoomType
		return ReplyRoomType, next

	case domain.StepAskRoomType:
		next.RoomType = text
		next.Step = domain.StepConfirm
		return confirmReply(next), next

	case domain.StepConfirm:
		if Confirmed(text) {
			next.Step = domain.StepBooked
			return ReplyBooked, next
		}
		return ReplyRestart, domain.NewConversation()

	case domain.StepBooked:
		return ReplyAlreadyBooked, state

	default:
		// Corrupted record: keep it as is and ask again.
		return ReplyNotUnderstood, state
	}
}

// Confirmed reports whether text counts as a positive confirmation.
// There is no negative-word detection: anything without "yes" is a decline.
func Confirmed(text string) bool {
	return strings.Contains(strings.ToLower(text), confirmToken)
}
