package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/kasimali67/ai-call-agent/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// StateMarkdown describes a stored call record as markdown.
func StateMarkdown(callID string, state domain.ConversationState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Call `%s`\n\n", callID)
	fmt.Fprintf(&sb, "**Step:** `%s`\n\n", state.Step)
	sb.WriteString("| Field | Answer |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Location | %s |\n", cell(state.Location))
	fmt.Fprintf(&sb, "| Dates | %s |\n", cell(state.Dates))
	fmt.Fprintf(&sb, "| Room type | %s |\n", cell(state.RoomType))
	if state.Booked() {
		sb.WriteString("\nBooking confirmed.\n")
	}
	return sb.String()
}

func cell(s string) string {
	if s == "" {
		return "_pending_"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}
