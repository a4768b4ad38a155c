package store

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/swarmchat/swarmchat/internal/domain"
)

var validate = validator.New()

// Hosted provider keys: fixed "sk-" prefix followed by 48 base62 characters.
var apiKeyPattern = regexp.MustCompile(`^sk-[A-Za-z0-9]{48}$`)

func init() {
	validate.RegisterValidation("provider_key", func(fl validator.FieldLevel) bool {
		return apiKeyPattern.MatchString(fl.Field().String())
	})
}

// UpdateSettings merges a partial settings update. Each field is validated
// on its own; invalid fields are dropped from the update instead of
// rejecting the whole call.
func (s *Store) UpdateSettings(patch domain.SettingsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.EndpointURL != nil {
		if err := validate.Var(*patch.EndpointURL, "required,http_url"); err != nil {
			s.log.Debug().Str("field", "endpoint_url").Msg("dropping invalid settings field")
		} else {
			s.settings.EndpointURL = *patch.EndpointURL
		}
	}

	if patch.APIKey != nil {
		// Empty clears the key; anything else must match the provider format.
		if *patch.APIKey == "" {
			s.settings.APIKey = ""
		} else if err := validate.Var(*patch.APIKey, "provider_key"); err != nil {
			s.log.Debug().Str("field", "api_key").Msg("dropping invalid settings field")
		} else {
			s.settings.APIKey = *patch.APIKey
		}
	}

	if patch.SystemPrompt != nil {
		s.settings.SystemPrompt = domain.SanitizeSystemPrompt(*patch.SystemPrompt, s.limits.MaxSystemPromptLength)
	}

	if patch.DefaultProvider != nil {
		if err := validate.Var(string(*patch.DefaultProvider), "oneof=local hosted"); err != nil {
			s.log.Debug().Str("field", "default_provider").Msg("dropping invalid settings field")
		} else {
			s.settings.DefaultProvider = *patch.DefaultProvider
		}
	}

	if patch.UseSwarmMode != nil {
		s.settings.UseSwarmMode = *patch.UseSwarmMode
	}
}

// Settings returns a copy of the current settings record.
func (s *Store) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}
