package domain

// Provider identifies the external service a translation came from.
// It is part of the translation cache key: the same word pair translated
// by two providers yields two independent rows.
type Provider string

const (
	ProviderMicrosoft Provider = "microsoft"
	ProviderYandex    Provider = "yandex"
	ProviderChatGPT   Provider = "chatgpt"
)

func (p Provider) String() string { return string(p) }

func (p Provider) IsValid() bool {
	switch p {
	case ProviderMicrosoft, ProviderYandex, ProviderChatGPT:
		return true
	}
	return false
}

// AllProviders returns the closed set of supported providers.
func AllProviders() []Provider {
	return []Provider{ProviderMicrosoft, ProviderYandex, ProviderChatGPT}
}
