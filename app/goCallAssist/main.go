package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/google/uuid"
	"github.com/superfeelapi/goEagi"
	"go.uber.org/zap"

	"github.com/superfeelapi/goCallAssist/business/assist"
	"github.com/superfeelapi/goCallAssist/business/worker"
	"github.com/superfeelapi/goCallAssist/foundation/config"
	"github.com/superfeelapi/goCallAssist/foundation/console"
	"github.com/superfeelapi/goCallAssist/foundation/external/cartesia"
	"github.com/superfeelapi/goCallAssist/foundation/external/deepgram"
	"github.com/superfeelapi/goCallAssist/foundation/external/gemini"
	"github.com/superfeelapi/goCallAssist/foundation/external/google"
	"github.com/superfeelapi/goCallAssist/foundation/external/livefeed"
	"github.com/superfeelapi/goCallAssist/foundation/external/openai"
	"github.com/superfeelapi/goCallAssist/foundation/kafka"
	"github.com/superfeelapi/goCallAssist/foundation/logger"
	"github.com/superfeelapi/goCallAssist/foundation/metrics"
	"github.com/superfeelapi/goCallAssist/foundation/redis"
	"github.com/superfeelapi/goCallAssist/foundation/replay"
)

// Telephony audio arrives as 8kHz signed linear PCM.
const telephonySampleRate = 8000

var (
	version   string
	buildTime string
)

func main() {
	// =================================================================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Assist struct {
			Mode           string `conf:"default:eagi,help:eagi | console | replay"`
			ConfigFilePath string `conf:"default:/etc/asterisk/call_assist.json,noprint"`
			ProfileID      string
			CallID         string
			CallerID       string `conf:"default:caller"`
			Extension      string
		}
		OpenAI struct {
			Endpoint string `conf:"default:https://api.openai.com/v1"`
			ApiKey   string `conf:"noprint"`
		}
		Gemini struct {
			ApiKey string `conf:"noprint"`
		}
		Cartesia struct {
			Endpoint string `conf:"default:https://api.cartesia.ai"`
			ApiKey   string `conf:"noprint"`
		}
		Deepgram struct {
			Host   string `conf:"default:api.deepgram.com"`
			ApiKey string `conf:"noprint"`
		}
		Google struct {
			PrivateKeyPath  string `conf:"default:/var/lib/asterisk/agi-bin/google-service-account.json,noprint"`
			TranslateApiKey string `conf:"noprint"`
		}
		Redis struct {
			Address           string
			Password          string `conf:"noprint"`
			TranscriptChannel string `conf:"default:callAssist:transcript"`
			ControlChannel    string `conf:"default:callAssist:control:"`
		}
		LiveFeed struct {
			ApiEndpoint string `conf:"noprint"`
			ApiToken    string `conf:"noprint"`
		}
		Kafka struct {
			Brokers []string
			Topic   string `conf:"default:call-assist-stream"`
		}
		Asterisk struct {
			AudioDirectory string `conf:"default:/var/lib/asterisk/sounds/en/"`
		}
		Metrics struct {
			Addr string
		}
		Replay struct {
			ScriptPath string
			Delay      time.Duration `conf:"default:2s"`
		}
		Logger struct {
			LogDirectory string `conf:"default:/var/log/goCallAssist/profiles/,noprint"`
		}
	}{
		Version: conf.Version{
			Build: version,
			Desc:  buildTime,
		},
	}

	// Configuration Parsing
	_, err := conf.Parse("", &cfg)
	if err != nil {
		os.Exit(1)
	}

	// =================================================================================================================
	// Version Checking Support

	displayVersion := flag.Bool("version", false, "Display version and exit")
	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		fmt.Printf("Build time:\t%s\n", buildTime)
		os.Exit(0)
	}

	// =================================================================================================================
	// Eagi Environment Variables

	var eagi *goEagi.Eagi
	if cfg.Assist.Mode == "eagi" {
		eagi, err = goEagi.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			os.Exit(1)
		}

		cfg.Assist.Extension = strings.TrimSpace(eagi.Env["arg_1"])
		cfg.Assist.CallID = strings.TrimSpace(eagi.Env["arg_2"])
		cfg.Assist.ProfileID = strings.TrimSpace(eagi.Env["arg_3"])
	}

	if cfg.Assist.CallID == "" {
		cfg.Assist.CallID = uuid.New().String()
	}

	// =================================================================================================================
	// Application Logger

	var log *zap.SugaredLogger
	if cfg.Assist.Mode == "eagi" {
		log, err = logger.New(cfg.Logger.LogDirectory, cfg.Assist.ProfileID, cfg.Assist.CallID)
		if err != nil {
			eagi.Verbose(fmt.Sprintf("ERROR: %s\n", err.Error()))
			os.Exit(1)
		}
	} else {
		log, err = logger.NewConsole()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			os.Exit(1)
		}
	}
	defer log.Sync()

	// =================================================================================================================
	// Assistant Profile

	profile, err := config.GetProfile(cfg.Assist.ConfigFilePath, cfg.Assist.ProfileID)
	if err != nil {
		log.Errorw("startup", "ERROR", err)
		os.Exit(1)
	}

	// =================================================================================================================
	// Configuration Stringify

	out, err := conf.String(&cfg)
	if err != nil {
		log.Errorw("startup", "ERROR", err)
	}
	log.Infow("startup", "config", out)

	// =================================================================================================================
	// Session

	personas := make([]*assist.Persona, 0, len(profile.Personas))
	for _, ps := range profile.Personas {
		personas = append(personas, &assist.Persona{
			ID:           ps.ID,
			Name:         ps.Name,
			Kind:         assist.PersonaKind(ps.Kind),
			Voice:        ps.Voice,
			Instructions: ps.Instructions,
			Tools:        ps.Tools,
			AutoReturn:   ps.AutoReturn,
		})
	}
	if err := assist.ValidatePersonas(personas); err != nil {
		log.Errorw("startup", "ERROR", err)
		os.Exit(1)
	}

	var lead *assist.Persona
	specialists := make([]*assist.Persona, 0, len(personas))
	for _, p := range personas {
		if p.Kind == assist.KindLead {
			lead = p
			continue
		}
		specialists = append(specialists, p)
	}

	session := assist.NewSession(assist.SessionConfig{
		ID: cfg.Assist.CallID,
		Gate: assist.NewGate(assist.GateConfig{
			AlwaysOn:    !profile.IsWakeGated(),
			WakePhrases: profile.Gate.WakePhrases,
		}),
		Coordinator:  assist.NewCoordinator(lead, specialists...),
		ContextTurns: profile.History.ContextTurns,
	})

	// =================================================================================================================
	// Response Generation

	var responder worker.Responder

	switch profile.Model.Provider {
	case "openai":
		client := openai.New(cfg.OpenAI.Endpoint, cfg.OpenAI.ApiKey, profile.Model.Name)
		responder = worker.NewOpenAIResponder(client, profile.Model.Temperature)

	case "gemini":
		client, err := gemini.New(cfg.Gemini.ApiKey, profile.Model.Name)
		if err != nil {
			log.Errorw("startup", "ERROR", err)
			os.Exit(1)
		}
		responder = worker.NewGeminiResponder(client, profile.Model.Temperature)
	}

	// =================================================================================================================
	// Speech2Text

	var googleSpeech *goEagi.GoogleService
	var deepgramSpeech *deepgram.Client

	if cfg.Assist.Mode == "eagi" {
		if profile.IsGoogleSpeechInUse() {
			googleSpeech, err = goEagi.NewGoogleService(cfg.Google.PrivateKeyPath, profile.Speech.LanguageCode, profile.GetSpeechContext())
			if err != nil {
				log.Errorw("startup", "ERROR", err)
				os.Exit(1)
			}
		}

		if profile.IsDeepgramSpeechInUse() {
			deepgramSpeech, err = deepgram.New(cfg.Deepgram.Host, cfg.Deepgram.ApiKey, profile.Speech.LanguageCode, telephonySampleRate)
			if err != nil {
				log.Errorw("startup", "ERROR", err)
				os.Exit(1)
			}
		}
	}

	// =================================================================================================================
	// Text2Speech

	var synthesizer worker.Synthesizer
	if cfg.Assist.Mode == "eagi" {
		synthesizer = cartesia.New(cfg.Cartesia.Endpoint, cfg.Cartesia.ApiKey, profile.Voice.Model, profile.Voice.Language, profile.Voice.SampleRate)
	}

	// =================================================================================================================
	// Offline Frontends

	var consoleIO *console.Console
	var replaySource *replay.Source

	switch cfg.Assist.Mode {
	case "eagi":

	case "console":
		consoleIO = console.New(os.Stdin, os.Stdout)

	case "replay":
		replaySource, err = replay.New(cfg.Replay.ScriptPath, cfg.Replay.Delay)
		if err != nil {
			log.Errorw("startup", "ERROR", err)
			os.Exit(1)
		}
		consoleIO = console.New(strings.NewReader(""), os.Stdout)

	default:
		log.Errorw("startup", "ERROR", fmt.Errorf("unknown mode[%s]", cfg.Assist.Mode))
		os.Exit(1)
	}

	// =================================================================================================================
	// Redis

	var redisClient *redis.Redis
	if cfg.Redis.Address != "" {
		controlChannel := fmt.Sprintf("%s%s", cfg.Redis.ControlChannel, cfg.Assist.CallID)

		redisClient, err = redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.TranscriptChannel, controlChannel, log)
		if err != nil {
			log.Errorw("startup", "ERROR", err)
			redisClient = nil
		}
	}

	// =================================================================================================================
	// Live Feed

	var liveFeed *livefeed.Polling
	if cfg.LiveFeed.ApiEndpoint != "" {
		liveFeed = livefeed.New(cfg.LiveFeed.ApiEndpoint, cfg.LiveFeed.ApiToken)
		if err := liveFeed.SetupConnection(); err != nil {
			log.Errorw("startup", "ERROR", err)
			liveFeed = nil
		}
	}

	// =================================================================================================================
	// Kafka

	var kafkaProducer *kafka.Kafka
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer = kafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer kafkaProducer.Close()
	}

	// =================================================================================================================
	// Translation

	var translator worker.Translator
	if profile.IsTranslationEnabled() {
		translation, err := google.NewTranslation(cfg.Google.TranslateApiKey, profile.Publish.Translation.SourceLanguageCode, profile.Publish.Translation.TargetLanguageCode)
		if err != nil {
			log.Errorw("startup", "ERROR", err)
		} else {
			translator = translation
		}
	}

	// =================================================================================================================
	// Metrics

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		server := m.Serve(cfg.Metrics.Addr, log)
		defer server.Close()
	}

	// =================================================================================================================
	// Run Worker

	workerCh := worker.Run(worker.Settings{
		Config: worker.Config{
			CallID:                 cfg.Assist.CallID,
			ProfileID:              cfg.Assist.ProfileID,
			CallerID:               cfg.Assist.CallerID,
			Extension:              cfg.Assist.Extension,
			AsteriskAudioDirectory: cfg.Asterisk.AudioDirectory,
		},
		Logger:  log,
		Session: session,
		Profile: profile,
		Metrics: m,

		Eagi:     eagi,
		Google:   googleSpeech,
		Deepgram: deepgramSpeech,
		Console:  consoleIO,
		Replay:   replaySource,

		Responder:   responder,
		Synthesizer: synthesizer,

		Redis:      redisClient,
		LiveFeed:   liveFeed,
		Kafka:      kafkaProducer,
		Translator: translator,
	})

	// Blocking main and waiting for error or shutdown.
	err = <-workerCh

	log.Infow("shutdown", "status", "shutdown started")
	defer log.Infow("shutdown", "status", "shutdown complete")

	if err != nil {
		log.Errorw("shutdown", "ERROR", err)
	}
}
