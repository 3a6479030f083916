package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535] (got %d)", c.Server.Port)
	}

	if err := c.Credits.validate(); err != nil {
		return fmt.Errorf("credits: %w", err)
	}

	if c.Generator.VocabularyLimit < 0 {
		return fmt.Errorf("generator.vocabulary_limit must be >= 0 (got %d)", c.Generator.VocabularyLimit)
	}

	return nil
}

func (c *CreditsConfig) validate() error {
	if c.TranslationCost < 0 {
		return fmt.Errorf("translation_cost must be >= 0 (got %d)", c.TranslationCost)
	}
	if c.TextCost < 0 {
		return fmt.Errorf("text_cost must be >= 0 (got %d)", c.TextCost)
	}
	if c.InitialBalance < 0 {
		return fmt.Errorf("initial_balance must be >= 0 (got %d)", c.InitialBalance)
	}
	return nil
}
