// Package twiml renders the subset of Twilio's voice markup used by the call agent.
package twiml

import (
	"encoding/xml"
	"fmt"
)

// ContentType is the media type Twilio expects for TwiML responses.
const ContentType = "application/xml"

// VoiceAlice is Twilio's default Say voice.
const VoiceAlice = "alice"

// InputSpeech makes Gather listen for speech.
const InputSpeech = "speech"

// Verb is any element allowed directly inside <Response> or <Gather>.
type Verb interface {
	verb()
}

// Response represents a TwiML <Response> element.
type Response struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []Verb
}

// SayElement represents a TwiML <Say> element.
type SayElement struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

// GatherElement represents a TwiML <Gather> element.
type GatherElement struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr,omitempty"`
	Action        string   `xml:"action,attr,omitempty"`
	Timeout       int      `xml:"timeout,attr,omitempty"`
	SpeechTimeout string   `xml:"speechTimeout,attr,omitempty"`
	Language      string   `xml:"language,attr,omitempty"`
	Verbs         []Verb
}

// HangupElement represents a TwiML <Hangup> element.
type HangupElement struct {
	XMLName xml.Name `xml:"Hangup"`
}

func (*SayElement) verb()    {}
func (*GatherElement) verb() {}
func (*HangupElement) verb() {}

// NewResponse starts an empty response.
func NewResponse() *Response {
	return &Response{}
}

// Say appends a <Say> verb.
func (r *Response) Say(text, voice string) *Response {
	r.Verbs = append(r.Verbs, &SayElement{Text: text, Voice: voice})
	return r
}

// Gather appends a <Gather> verb.
func (r *Response) Gather(g *GatherElement) *Response {
	r.Verbs = append(r.Verbs, g)
	return r
}

// Hangup appends a <Hangup> verb.
func (r *Response) Hangup() *Response {
	r.Verbs = append(r.Verbs, &HangupElement{})
	return r
}

// Say appends a nested <Say> to the gather and returns it.
func (g *GatherElement) Say(text, voice string) *GatherElement {
	g.Verbs = append(g.Verbs, &SayElement{Text: text, Voice: voice})
	return g
}

// Render returns the XML document, header included.
func (r *Response) Render() (string, error) {
	body, err := xml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal twiml: %w", err)
	}
	return xml.Header + string(body), nil
}

// String renders the response and panics on failure. Intended for logs and tests.
func (r *Response) String() string {
	s, err := r.Render()
	if err != nil {
		panic(err)
	}
	return s
}
