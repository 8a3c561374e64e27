package twiml_test

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/kasimali67/ai-call-agent/pkg/twiml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Incoming(t *testing.T) {
	gather := &twiml.GatherElement{Input: twiml.InputSpeech, Action: "/gather-response", Timeout: 5}
	gather.Say("Which city?", twiml.VoiceAlice)

	out, err := twiml.NewResponse().
		Say("Welcome.", twiml.VoiceAlice).
		Gather(gather).
		Say("Nothing heard.", twiml.VoiceAlice).
		Render()
	require.NoError(t, err)

	want := xml.Header +
		`<Response>` +
		`<Say voice="alice">Welcome.</Say>` +
		`<Gather input="speech" action="/gather-response" timeout="5"><Say voice="alice">Which city?</Say></Gather>` +
		`<Say voice="alice">Nothing heard.</Say>` +
		`</Response>`
	assert.Equal(t, want, out)
}

func TestRender_Hangup(t *testing.T) {
	out := twiml.NewResponse().Say("Bye.", "").Hangup().String()
	assert.True(t, strings.HasSuffix(out, `<Response><Say>Bye.</Say><Hangup></Hangup></Response>`), out)
}

func TestRender_GatherSpeechTuning(t *testing.T) {
	gather := &twiml.GatherElement{
		Input:         twiml.InputSpeech,
		Action:        "/gather-response",
		Timeout:       3,
		SpeechTimeout: "auto",
		Language:      "en-GB",
	}
	out := twiml.NewResponse().Gather(gather.Say("Which city?", "")).String()
	assert.Contains(t, out, `<Gather input="speech" action="/gather-response" timeout="3" speechTimeout="auto" language="en-GB">`)
}

func TestRender_EscapesText(t *testing.T) {
	out := twiml.NewResponse().Say(`Rooms <cheap> & "nice"`, twiml.VoiceAlice).String()
	assert.NotContains(t, out, "<cheap>")

	var parsed struct {
		Say string `xml:"Say"`
	}
	require.NoError(t, xml.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, `Rooms <cheap> & "nice"`, parsed.Say)
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, xml.Header+`<Response></Response>`, twiml.NewResponse().String())
}
