package match

import "fmt"

// Config holds the thresholds for candidate matching and auto-accept.
type Config struct {
	// SimilarityThreshold is the minimum text similarity (0.0-1.0) for a pair
	// of partition representatives to become a candidate edge.
	// Default: 0.85
	SimilarityThreshold float64

	// AutoAcceptThreshold is the stricter similarity above which
	// disjoint-waves candidates are accepted without human review.
	// Overlapping-waves candidates are never auto-accepted.
	// 0 disables auto-accept. Default: 0.95
	AutoAcceptThreshold float64

	// OpenTextThreshold replaces SimilarityThreshold when both records have
	// no coded alternatives. Matching degrades to text-only for open
	// questions, so the bar is raised to limit false merges.
	// Default: 0.92
	OpenTextThreshold float64

	// OpenQuestionLimit is the raw alternative count above which a question
	// is treated as open-ended and its alternatives collapse to the
	// open-question sentinel. Default: 20
	OpenQuestionLimit int
}

// DefaultConfig returns the default matching configuration.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.85,
		AutoAcceptThreshold: 0.95,
		OpenTextThreshold:   0.92,
		OpenQuestionLimit:   20,
	}
}

// Validate checks that the configuration values are usable.
func (c Config) Validate() error {
	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return fmt.Errorf("similarity threshold must be between 0.0 and 1.0 (got %.2f)", c.SimilarityThreshold)
	}
	if c.AutoAcceptThreshold < 0.0 || c.AutoAcceptThreshold > 1.0 {
		return fmt.Errorf("auto-accept threshold must be between 0.0 and 1.0 (got %.2f)", c.AutoAcceptThreshold)
	}
	if c.AutoAcceptThreshold > 0 && c.AutoAcceptThreshold < c.SimilarityThreshold {
		return fmt.Errorf("auto-accept threshold (%.2f) must not be below similarity threshold (%.2f)",
			c.AutoAcceptThreshold, c.SimilarityThreshold)
	}
	if c.OpenTextThreshold < c.SimilarityThreshold || c.OpenTextThreshold > 1.0 {
		return fmt.Errorf("open-text threshold must be between similarity threshold and 1.0 (got %.2f)", c.OpenTextThreshold)
	}
	if c.OpenQuestionLimit <= 0 {
		return fmt.Errorf("open question limit must be positive (got %d)", c.OpenQuestionLimit)
	}
	return nil
}
