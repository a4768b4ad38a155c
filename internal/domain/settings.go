package domain

// ProviderKind selects which inference backend a session talks to.
type ProviderKind string

const (
	ProviderLocal  ProviderKind = "local"
	ProviderHosted ProviderKind = "hosted"
)

// Settings is the single process-wide configuration record. It is owned by
// the store and mutated only through the validating settings update.
type Settings struct {
	EndpointURL     string       `json:"endpoint_url"`
	APIKey          string       `json:"api_key"`
	SystemPrompt    string       `json:"system_prompt"`
	DefaultProvider ProviderKind `json:"default_provider"`
	UseSwarmMode    bool         `json:"use_swarm_mode"`
}

// SettingsPatch is a partial settings update. Nil fields are left untouched;
// present fields are validated individually and invalid ones are dropped
// from the update rather than failing the whole call.
type SettingsPatch struct {
	EndpointURL     *string       `json:"endpoint_url,omitempty"`
	APIKey          *string       `json:"api_key,omitempty"`
	SystemPrompt    *string       `json:"system_prompt,omitempty"`
	DefaultProvider *ProviderKind `json:"default_provider,omitempty"`
	UseSwarmMode    *bool         `json:"use_swarm_mode,omitempty"`
}
