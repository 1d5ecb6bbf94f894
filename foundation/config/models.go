package config

type Document struct {
	Profiles []Profile `json:"profiles"`
}

// Profile is one assistant configuration: how the gate listens, which
// providers serve speech and generation, and the persona set.
type Profile struct {
	ID        string            `json:"id"`
	Assistant string            `json:"assistant"`
	Gate      GateSettings      `json:"gate"`
	Speech    SpeechSettings    `json:"speech"`
	Model     ModelSettings     `json:"model"`
	Voice     VoiceSettings     `json:"voice"`
	History   HistorySettings   `json:"history"`
	Personas  []PersonaSettings `json:"personas"`
	Publish   PublishSettings   `json:"publish"`
}

type GateSettings struct {
	Mode               string   `json:"mode"`
	WakePhrases        []string `json:"wake_phrases"`
	ClarificationReply string   `json:"clarification_reply"`
}

type SpeechSettings struct {
	Provider      string            `json:"provider"`
	LanguageCode  string            `json:"language_code"`
	SpeechContext map[string]string `json:"speech_context"`
}

type ModelSettings struct {
	Provider      string  `json:"provider"`
	Name          string  `json:"name"`
	Temperature   float64 `json:"temperature"`
	FallbackReply string  `json:"fallback_reply"`
}

type VoiceSettings struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Language   string `json:"language"`
	SampleRate int    `json:"sample_rate"`
}

type HistorySettings struct {
	ContextTurns int `json:"context_turns"`
}

type PersonaSettings struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	Voice        string   `json:"voice"`
	Instructions string   `json:"instructions"`
	Tools        []string `json:"tools"`
	AutoReturn   bool     `json:"auto_return"`
}

type PublishSettings struct {
	Translation TranslationSettings `json:"translation"`
}

type TranslationSettings struct {
	InUse              bool   `json:"in_use"`
	SourceLanguageCode string `json:"source_language_code"`
	TargetLanguageCode string `json:"target_language_code"`
}
