package livefeed

type AuthorizationData struct {
	Token string `json:"token"`
}

type CallData struct {
	CallID    string `json:"call_id"`
	ProfileID string `json:"profile_id"`
	Assistant string `json:"assistant"`
	Extension string `json:"extension_id"`
}

type TranscriptData struct {
	CallID               string `json:"call_id"`
	DataID               string `json:"data_id"`
	Speaker              string `json:"speaker"`
	Transcript           string `json:"transcript"`
	TranslationEnabled   bool   `json:"translation_enabled"`
	TranslatedTranscript string `json:"translated_transcript"`
	WakeTriggered        bool   `json:"wake_triggered"`
	IsFinal              bool   `json:"isFinal"`
}

type AssistData struct {
	CallID    string `json:"call_id"`
	DataID    string `json:"data_id"`
	Kind      string `json:"kind"`
	Persona   string `json:"persona"`
	Text      string `json:"text,omitempty"`
	Target    string `json:"target,omitempty"`
	FactKind  string `json:"fact_kind,omitempty"`
	FactValue string `json:"fact_value,omitempty"`
}
