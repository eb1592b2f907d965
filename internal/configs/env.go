package configs

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// EnvInputs holds the environment variables rimu reads. They are parsed once
// per invocation and passed down as values; rimu never mutates its own
// environment.
type EnvInputs struct {
	// Passphrase supplies the identity passphrase directly, bypassing any
	// getter command. Environment: RIMU_PASSPHRASE.
	Passphrase string `env:"RIMU_PASSPHRASE"`

	// PassphraseGetter overrides which [passphrase] getter runs. nil means
	// the variable is unset. A set-but-empty value explicitly suppresses the
	// implicit getter, so no command runs at all.
	// Environment: RIMU_PASSPHRASE_GETTER.
	PassphraseGetter *string `env:"RIMU_PASSPHRASE_GETTER"`
}

// LoadEnvInputs parses rimu's environment variables.
func LoadEnvInputs() (*EnvInputs, error) {
	inputs := &EnvInputs{}
	if err := env.Parse(inputs); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// env.Parse leaves fields untouched for empty values, but a set-but-empty
	// getter override must still register as suppression.
	if value, ok := os.LookupEnv("RIMU_PASSPHRASE_GETTER"); ok && inputs.PassphraseGetter == nil {
		inputs.PassphraseGetter = &value
	}

	return inputs, nil
}
