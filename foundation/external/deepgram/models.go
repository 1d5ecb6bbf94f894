package deepgram

// Result is one frame off the live transcription socket. Frames with a type
// other than "Results" (Metadata, UtteranceEnd, SpeechStarted) carry no
// transcript and are passed through for the caller to skip.
type Result struct {
	Type        string  `json:"type"`
	IsFinal     bool    `json:"is_final"`
	SpeechFinal bool    `json:"speech_final"`
	Channel     Channel `json:"channel"`
}

type Channel struct {
	Alternatives []Alternative `json:"alternatives"`
}

type Alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

func (r Result) Transcript() string {
	if len(r.Channel.Alternatives) == 0 {
		return ""
	}
	return r.Channel.Alternatives[0].Transcript
}
