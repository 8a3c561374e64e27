package domain

// Step identifies the active stage of the booking script.
// The zero value means the record was never initialized.
type Step string

const (
	StepAskLocation Step = "ask_location"
	StepAskDates    Step = "ask_dates"
	StepAskRoomType Step = "ask_room_type"
	StepConfirm     Step = "confirm"
	StepBooked      Step = "booked" // Terminal
)

// Steps lists every valid step in script order.
var Steps = []Step{StepAskLocation, StepAskDates, StepAskRoomType, StepConfirm, StepBooked}

// Valid reports whether s is a member of the enumeration.
func (s Step) Valid() bool {
	switch s {
	case StepAskLocation, StepAskDates, StepAskRoomType, StepConfirm, StepBooked:
		return true
	}
	return false
}

// Terminal reports whether the script has finished.
func (s Step) Terminal() bool {
	return s == StepBooked
}

func (s Step) String() string {
	if s == "" {
		return "uninitialized"
	}
	return string(s)
}

// ConversationState is the record kept for one call.
// Location, Dates and RoomType are filled in that order as the caller answers.
type ConversationState struct {
	Step     Step   `json:"step"`
	Location string `json:"location,omitempty"`
	Dates    string `json:"dates,omitempty"`
	RoomType string `json:"room_type,omitempty"`
}

// NewConversation returns a fresh record positioned at the first question.
func NewConversation() ConversationState {
	return ConversationState{Step: StepAskLocation}
}

// Initialized reports whether the record carries a step at all.
func (c ConversationState) Initialized() bool {
	return c.Step != ""
}

// Booked reports whether the caller confirmed the booking.
func (c ConversationState) Booked() bool {
	return c.Step.Terminal()
}
