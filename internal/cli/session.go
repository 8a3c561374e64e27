package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/kasimali67/ai-call-agent/internal/presentation/graph"
	"github.com/kasimali67/ai-call-agent/internal/presentation/tui"
	"github.com/kasimali67/ai-call-agent/pkg/dialogue"
	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/kasimali67/ai-call-agent/pkg/ports"
)

// Inspect output formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatGraph    = "graph"
)

// ListSessions prints the ids of all live call records.
func ListSessions(ctx context.Context, w io.Writer, store ports.CallStore) error {
	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list calls: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No active calls found.")
		return nil
	}

	sort.Strings(ids)
	fmt.Fprintln(w, "Active Calls:")
	for _, id := range ids {
		fmt.Fprintln(w, "- "+id)
	}
	return nil
}

// InspectSession prints one call record in format.
// render, if set, post-processes markdown (the terminal renderer).
func InspectSession(ctx context.Context, w io.Writer, store ports.CallStore, callID, format string, render func(string) (string, error)) error {
	state, err := store.Load(ctx, callID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("call %q not found", callID)
		}
		return fmt.Errorf("failed to load call %q: %w", callID, err)
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal state: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case FormatGraph:
		fmt.Fprint(w, graph.GenerateMermaid(dialogue.Edges(), graph.OverlayFor(state), false))
	case FormatMarkdown, "":
		md := tui.StateMarkdown(callID, state)
		if render != nil {
			if out, err := render(md); err == nil {
				md = out
			}
		}
		fmt.Fprint(w, md)
	default:
		return fmt.Errorf("unknown format %q; allowed: markdown, json, graph", format)
	}
	return nil
}

// RemoveSessions deletes the given call records, or every record when all is set.
func RemoveSessions(ctx context.Context, w io.Writer, store ports.CallStore, ids []string, all bool) error {
	if all {
		listed, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list calls: %w", err)
		}
		ids = listed
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "Nothing to remove.")
		return nil
	}

	failed := 0
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "Removed call '%s'\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("failed to remove %d of %d calls", failed, len(ids))
	}
	return nil
}
