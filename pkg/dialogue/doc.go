/*
Package dialogue implements the hotel booking script as a pure transition function.

Transition never fails and never performs I/O: every (utterance, state) pair maps to a
reply and a valid next state. The caller owns persistence (see package session).

	prompt, next := dialogue.Transition("Paris", state)
*/
package dialogue
