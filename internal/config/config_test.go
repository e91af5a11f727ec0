package config

import (
	"testing"
)

func TestResolve_TrainBrainComposesTrainingURL(t *testing.T) {
	cfg, err := Resolve(Flags{
		Username:   "mikest",
		TrainBrain: "cartpole",
		AccessKey:  "key123",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := DefaultAPIHost + "/v1/mikest/cartpole/sims/ws"
	if cfg.BrainURL != want {
		t.Errorf("BrainURL = %q, want %q", cfg.BrainURL, want)
	}
	if cfg.Mode != ModeTraining {
		t.Errorf("Mode = %v, want ModeTraining", cfg.Mode)
	}
}

func TestResolve_PredictBrainComposesPredictionURL(t *testing.T) {
	cfg, err := Resolve(Flags{
		Username:       "mikest",
		PredictBrain:   "cartpole",
		PredictVersion: "2",
		AccessKey:      "key123",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := DefaultAPIHost + "/v1/mikest/cartpole/2/predictions/ws"
	if cfg.BrainURL != want {
		t.Errorf("BrainURL = %q, want %q", cfg.BrainURL, want)
	}
	if cfg.Mode != ModePrediction {
		t.Errorf("Mode = %v, want ModePrediction", cfg.Mode)
	}
}

func TestResolve_PredictBrainWithoutVersionIsFatal(t *testing.T) {
	_, err := Resolve(Flags{PredictBrain: "cartpole", AccessKey: "key123"})
	if err == nil {
		t.Fatal("expected error when --predict-version is missing")
	}
}

func TestResolve_BrainURLUsedLiterally(t *testing.T) {
	cfg, err := Resolve(Flags{BrainURL: "ws://some_url_here", AccessKey: "key123"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.BrainURL != "ws://some_url_here" {
		t.Errorf("BrainURL = %q, want literal passthrough", cfg.BrainURL)
	}
}

func TestResolve_MutuallyExclusiveSelectorsAreFatal(t *testing.T) {
	_, err := Resolve(Flags{TrainBrain: "a", BrainURL: "ws://b", AccessKey: "key123"})
	if err == nil {
		t.Fatal("expected error when more than one brain selector is set")
	}
}

func TestResolve_NoSelectorIsFatal(t *testing.T) {
	_, err := Resolve(Flags{AccessKey: "key123"})
	if err == nil {
		t.Fatal("expected error when no brain selector is set")
	}
}

func TestResolve_MissingAccessKeyIsFatal(t *testing.T) {
	_, err := Resolve(Flags{TrainBrain: "cartpole"})
	if err == nil {
		t.Fatal("expected error when access key is missing")
	}
}

func TestResolve_EnvironmentFallback(t *testing.T) {
	t.Setenv("BONSAI_TRAIN_BRAIN", "cartpole")
	t.Setenv("BONSAI_ACCESS_KEY", "env-key")

	cfg, err := Resolve(Flags{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.AccessKey != "env-key" {
		t.Errorf("AccessKey = %q, want env fallback", cfg.AccessKey)
	}
}

func TestResolve_CommandLineOverridesEnvironment(t *testing.T) {
	t.Setenv("BONSAI_BRAIN_URL", "ws://from-env")

	cfg, err := Resolve(Flags{BrainURL: "ws://from-flag", AccessKey: "key123"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.BrainURL != "ws://from-flag" {
		t.Errorf("BrainURL = %q, want command-line value to win", cfg.BrainURL)
	}
}

func TestInferMode_PredictionSuffix(t *testing.T) {
	if inferMode("wss://host/v1/u/b/2/predictions/ws") != ModePrediction {
		t.Error("expected ModePrediction for /predictions/ws suffix")
	}
	if inferMode("wss://host/v1/u/b/sims/ws") != ModeTraining {
		t.Error("expected ModeTraining for /sims/ws suffix")
	}
}
