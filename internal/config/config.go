// Package config resolves the command-line flags and BONSAI_* environment
// variables that select which brain a session connects to, composing the
// final WebSocket URL and inferring the session mode from its shape.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Mode is the kind of session a connection drives.
type Mode int

const (
	// ModeTraining drives a TrainingDriver; the URL ends in /sims/ws.
	ModeTraining Mode = iota
	// ModePrediction drives a PredictionDriver; the URL ends in /predictions/ws.
	ModePrediction
)

func (m Mode) String() string {
	if m == ModePrediction {
		return "prediction"
	}
	return "training"
}

const (
	// DefaultAPIHost is the default websocket base used to compose a brain
	// URL from --train-brain/--predict-brain, mirroring the original SDK's
	// BonsaiConfig.brain_websocket_url() default.
	DefaultAPIHost = "wss://api.bons.ai"

	trainingSuffix   = "/sims/ws"
	predictionSuffix = "/predictions/ws"
)

// Flags holds the raw, unresolved command-line values, before environment
// fallback and validation. cmd/simlink populates this directly from pflag.
type Flags struct {
	APIHost        string
	Username       string
	TrainBrain     string
	PredictBrain   string
	PredictVersion string
	BrainURL       string
	AccessKey      string
	RecordingFile  string
	MetricsAddr    string
}

// Config is the fully resolved, validated configuration a session runs with.
type Config struct {
	Mode          Mode
	BrainURL      string
	AccessKey     string
	RecordingFile string
	MetricsAddr   string
}

// Resolve applies environment fallback to f, validates the result, and
// composes the final Config. Command-line values in f always win over the
// corresponding BONSAI_* environment variable.
func Resolve(f Flags) (*Config, error) {
	trainBrain := firstNonEmpty(f.TrainBrain, os.Getenv("BONSAI_TRAIN_BRAIN"))
	predictBrain := firstNonEmpty(f.PredictBrain, os.Getenv("BONSAI_PREDICT_BRAIN"))
	predictVersion := firstNonEmpty(f.PredictVersion, os.Getenv("BONSAI_PREDICT_VERSION"))
	brainURL := firstNonEmpty(f.BrainURL, os.Getenv("BONSAI_BRAIN_URL"))
	accessKey := firstNonEmpty(f.AccessKey, os.Getenv("BONSAI_ACCESS_KEY"))

	selectors := 0
	for _, s := range []string{trainBrain, predictBrain, brainURL} {
		if s != "" {
			selectors++
		}
	}
	if selectors == 0 {
		return nil, newError("one of --train-brain, --predict-brain, or --brain-url must be specified")
	}
	if selectors > 1 {
		return nil, newError("only one of --train-brain, --predict-brain, or --brain-url may be specified")
	}

	if accessKey == "" {
		return nil, newError("--access-key (or BONSAI_ACCESS_KEY) is required")
	}

	var resolvedURL string
	switch {
	case brainURL != "":
		resolvedURL = brainURL
	case trainBrain != "":
		resolvedURL = fmt.Sprintf("%s/v1/%s/%s%s", apiHost(f.APIHost), f.Username, trainBrain, trainingSuffix)
	case predictBrain != "":
		if predictVersion == "" {
			return nil, newError("--predict-version is required when --predict-brain is used")
		}
		resolvedURL = fmt.Sprintf("%s/v1/%s/%s/%s%s", apiHost(f.APIHost), f.Username, predictBrain, predictVersion, predictionSuffix)
	}

	return &Config{
		Mode:          inferMode(resolvedURL),
		BrainURL:      resolvedURL,
		AccessKey:     accessKey,
		RecordingFile: f.RecordingFile,
		MetricsAddr:   f.MetricsAddr,
	}, nil
}

func inferMode(url string) Mode {
	if strings.HasSuffix(url, predictionSuffix) {
		return ModePrediction
	}
	return ModeTraining
}

func apiHost(host string) string {
	if host == "" {
		return DefaultAPIHost
	}
	return host
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
