package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable suffixes, read as {prefix}{suffix}.
const (
	EnvToken          = "TOKEN"
	EnvHost           = "HOST"
	EnvProject        = "PROJECT"
	EnvRunComplete    = "RUN_COMPLETE"
	EnvMode           = "MODE"
	EnvEnvironment    = "ENVIRONMENT"
	EnvRunID          = "RUN_ID"
	EnvRunTitle       = "RUN_TITLE"
	EnvRunDescription = "RUN_DESCRIPTION"
	EnvPlanID         = "PLAN_ID"
	EnvDebug          = "DEBUG"
)

// LoadEnv reads the environment layer. Unset variables leave the zero value,
// which never overrides an earlier layer. Boolean variables are true only
// for the exact string "true".
func LoadEnv(prefix string) (Config, error) {
	get := func(suffix string) string {
		v, _ := os.LookupEnv(prefix + suffix)
		return v
	}

	cfg := Config{
		Token:          get(EnvToken),
		Host:           get(EnvHost),
		Project:        get(EnvProject),
		RunComplete:    get(EnvRunComplete) == "true",
		Mode:           Mode(get(EnvMode)),
		Environment:    get(EnvEnvironment),
		RunTitle:       get(EnvRunTitle),
		RunDescription: get(EnvRunDescription),
		Debug:          get(EnvDebug) == "true",
	}

	var err error
	if cfg.RunID, err = parseID(prefix+EnvRunID, get(EnvRunID)); err != nil {
		return Config{}, err
	}
	if cfg.PlanID, err = parseID(prefix+EnvPlanID, get(EnvPlanID)); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseID(name, raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrParse, name, raw)
	}
	return id, nil
}
