package config

import (
	"fmt"
	"net/url"
)

// Code classifies a validation failure.
type Code string

const (
	CodeMissingRequiredArgument    Code = "missing-required-argument"
	CodeInvalidAttackCombination   Code = "invalid-attack-combination"
	CodeTargetConfirmationMismatch Code = "target-confirmation-mismatch"
)

// ValidationError describes why a resolved configuration was rejected.
type ValidationError struct {
	Code    Code
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks a resolved configuration against the rules that must hold
// before the engine may run. Rules are evaluated in order and the first
// failure wins.
func Validate(cfg Resolved) error {
	if cfg.Target == "" || cfg.Method == "" {
		return &ValidationError{
			Code:    CodeMissingRequiredArgument,
			Message: "'target' and '-m/--method' are required (via CLI or config file)",
		}
	}

	if cfg.Method == MethodMixed && len(cfg.Attacks) == 0 {
		return &ValidationError{
			Code:    CodeInvalidAttackCombination,
			Message: "--attacks is required when using the 'mixed' method",
		}
	}

	if cfg.ConfirmTarget != "" {
		// A target without a parseable hostname confirms against "".
		// Comparison is exact: no case folding, no normalization.
		hostname := ""
		if u, err := url.Parse(cfg.Target); err == nil {
			hostname = u.Hostname()
		}
		if cfg.ConfirmTarget != hostname {
			return &ValidationError{
				Code: CodeTargetConfirmationMismatch,
				Message: fmt.Sprintf("--confirm-target (%q) does not match the target hostname (%q)",
					cfg.ConfirmTarget, hostname),
			}
		}
	}

	return nil
}
