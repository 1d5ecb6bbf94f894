package config_test

import (
	"testing"

	"github.com/superfeelapi/goCallAssist/foundation/config"
)

const filepath = "testdata/assistants.json"

func TestGetProfile(t *testing.T) {
	t.Run("profile exists", func(t *testing.T) {
		t.Parallel()
		profile, err := config.GetProfile(filepath, "alex-wake")
		if err != nil {
			t.Fatal(err)
		}
		if profile.Assistant != "Alex" {
			t.Fatalf("expected assistant Alex, got %s", profile.Assistant)
		}
		if !profile.IsWakeGated() {
			t.Fatal("expected wake gated profile")
		}
		if len(profile.Gate.WakePhrases) != 2 {
			t.Fatalf("expected 2 wake phrases, got %d", len(profile.Gate.WakePhrases))
		}
	})

	t.Run("profile does not exist", func(t *testing.T) {
		t.Parallel()
		_, err := config.GetProfile(filepath, "nope")
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("config file does not exist", func(t *testing.T) {
		t.Parallel()
		_, err := config.GetProfile("testdata/missing.json", "alex-wake")
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestProfileValidate(t *testing.T) {
	profile, err := config.GetProfile(filepath, "alex-wake")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("wake mode requires phrases", func(t *testing.T) {
		p := profile
		p.Gate.WakePhrases = nil
		if err := p.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unknown gate mode", func(t *testing.T) {
		p := profile
		p.Gate.Mode = "sometimes"
		if err := p.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unknown speech provider", func(t *testing.T) {
		p := profile
		p.Speech.Provider = "whisper"
		if err := p.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unknown model provider", func(t *testing.T) {
		p := profile
		p.Model.Provider = "llama"
		if err := p.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("personas required", func(t *testing.T) {
		p := profile
		p.Personas = nil
		if err := p.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestProfileAccessors(t *testing.T) {
	t.Run("speech context", func(t *testing.T) {
		t.Parallel()
		profile, err := config.GetProfile(filepath, "alex-wake")
		if err != nil {
			t.Fatal(err)
		}
		got := profile.GetSpeechContext()
		if len(got) != 2 {
			t.Fatalf("expected 2 speech context phrases, got %d", len(got))
		}
	})

	t.Run("lead persona", func(t *testing.T) {
		t.Parallel()
		profile, err := config.GetProfile(filepath, "duo-handoff")
		if err != nil {
			t.Fatal(err)
		}
		lead, err := profile.GetLeadPersona()
		if err != nil {
			t.Fatal(err)
		}
		if lead.ID != "business" {
			t.Fatalf("expected lead persona business, got %s", lead.ID)
		}
		if len(profile.Personas) != 2 {
			t.Fatalf("expected 2 personas, got %d", len(profile.Personas))
		}
	})

	t.Run("deepgram speech", func(t *testing.T) {
		t.Parallel()
		profile, err := config.GetProfile(filepath, "concierge")
		if err != nil {
			t.Fatal(err)
		}
		if !profile.IsDeepgramSpeechInUse() {
			t.Fatal("expected deepgram speech provider")
		}
		if profile.IsWakeGated() {
			t.Fatal("expected always-on profile")
		}
	})
}
