package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// GetProfile loads the assistant profile document and returns the
// profile with the given id.
func GetProfile(configPath string, profileID string) (Profile, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return Profile{}, err
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Profile{}, err
	}

	var doc Document

	if err := json.Unmarshal(bytes, &doc); err != nil {
		return Profile{}, err
	}

	profile, exists := profileExists(doc.Profiles, profileID)
	if !exists {
		return Profile{}, fmt.Errorf("profile[%s] does not exist", profileID)
	}

	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}

	return profile, nil
}

// Validate rejects profiles the engine cannot run: unknown gate or
// provider names, a wake profile without phrases, or an empty persona
// set. Persona capability checks happen when the personas are built.
func (p Profile) Validate() error {
	switch p.Gate.Mode {
	case "wake":
		if len(p.Gate.WakePhrases) == 0 {
			return fmt.Errorf("profile[%s]: wake mode needs at least one wake phrase", p.ID)
		}
	case "always":
	default:
		return fmt.Errorf("profile[%s]: unknown gate mode[%s]", p.ID, p.Gate.Mode)
	}

	switch p.Speech.Provider {
	case "google", "deepgram", "":
	default:
		return fmt.Errorf("profile[%s]: unknown speech provider[%s]", p.ID, p.Speech.Provider)
	}

	switch p.Model.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("profile[%s]: unknown model provider[%s]", p.ID, p.Model.Provider)
	}

	if len(p.Personas) == 0 {
		return fmt.Errorf("profile[%s]: no personas defined", p.ID)
	}

	return nil
}

func (p Profile) IsWakeGated() bool {
	return p.Gate.Mode == "wake"
}

func (p Profile) IsGoogleSpeechInUse() bool {
	return p.Speech.Provider == "google"
}

func (p Profile) IsDeepgramSpeechInUse() bool {
	return p.Speech.Provider == "deepgram"
}

func (p Profile) IsTranslationEnabled() bool {
	return p.Publish.Translation.InUse
}

// GetSpeechContext flattens the speech context map into the phrase
// list the speech provider expects.
func (p Profile) GetSpeechContext() []string {
	scSlice := make([]string, 0, len(p.Speech.SpeechContext))

	for _, v := range p.Speech.SpeechContext {
		scSlice = append(scSlice, v)
	}

	return scSlice
}

// GetLeadPersona returns the profile's lead persona settings.
func (p Profile) GetLeadPersona() (PersonaSettings, error) {
	for _, persona := range p.Personas {
		if persona.Kind == "lead" {
			return persona, nil
		}
	}
	return PersonaSettings{}, fmt.Errorf("profile[%s]: no lead persona defined", p.ID)
}

func profileExists(profiles []Profile, profileID string) (Profile, bool) {
	for _, profile := range profiles {
		if profile.ID == profileID {
			return profile, true
		}
	}
	return Profile{}, false
}
