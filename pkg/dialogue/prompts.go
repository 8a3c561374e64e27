package dialogue

import (
	"fmt"

	"github.com/kasimali67/ai-call-agent/pkg/domain"
)

// Re-ask prompts, spoken when the caller says nothing.
const (
	PromptLocation = "Which city or hotel are you interested in?"
	PromptDates    = "What dates would you like to book? Please say your check-in and check-out dates."
	PromptRoomType = "What type of room would you like? For example, single, double, or suite."
	PromptConfirm  = "Please confirm your booking. Is that correct?"
	PromptInput    = "Please provide your input."
)

// Replies to an answered step.
const (
	ReplyRoomType      = "Thank you. What type of room would you like? For example, single, double, or suite."
	ReplyBooked        = "Your booking has been confirmed. Thank you for choosing our service."
	ReplyRestart       = "Let's start over. Which city or hotel are you interested in?"
	ReplyAlreadyBooked = "Your booking is already confirmed. Thank you for choosing our service."
	ReplyNotUnderstood = "I'm sorry, I didn't understand that. Could you please repeat?"
	replyDatesFormat   = "Great! What dates would you like to book for in %s? Please say your check-in and check-out dates."
	replyConfirmFormat = "Please confirm: you want to book a %s room for dates %s in %s. Is that correct?"
)

// Call framing lines used by the voice adapter around each turn.
const (
	Greeting = "Welcome to the AI Voice Assistant."
	NoInput  = "We did not receive any input."
	Goodbye  = "Thank you for your booking. Goodbye."
)

// Follow-up prompts spoken inside the next listening window.
const (
	FollowUpDates    = "Please say your check-in and check-out dates."
	FollowUpConfirm  = "Please confirm your booking by saying yes, or say no to start over."
	FollowUpContinue = "Please continue with your response."
)

// Prompt returns the question to repeat for step when no speech was recognized.
// Uninitialized and unrecognized steps fall back to the location question.
func Prompt(step domain.Step) string {
	switch step {
	case domain.StepAskLocation:
		return PromptLocation
	case domain.StepAskDates:
		return PromptDates
	case domain.StepAskRoomType:
		return PromptRoomType
	case domain.StepConfirm:
		return PromptConfirm
	case domain.StepBooked:
		return PromptInput
	default:
		return PromptLocation
	}
}

// FollowUp returns the text spoken while listening for the answer to step.
func FollowUp(step domain.Step) string {
	switch step {
	case domain.StepAskDates:
		return FollowUpDates
	case domain.StepAskRoomType:
		return PromptRoomType
	case domain.StepConfirm:
		return FollowUpConfirm
	default:
		return FollowUpContinue
	}
}

func datesReply(location string) string {
	return fmt.Sprintf(replyDatesFormat, location)
}

func confirmReply(s domain.ConversationState) string {
	return fmt.Sprintf(replyConfirmFormat, s.RoomType, s.Dates, s.Location)
}
