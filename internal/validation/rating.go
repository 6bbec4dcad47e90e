package validation

import (
	"fmt"
	"strings"
)

// ValidateRatingScore checks that a star score is within the 1-5 scale.
func ValidateRatingScore(score int) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("score must be between 1 and 5")
	}
	return nil
}

// ValidateReviewContent checks review title and body constraints.
func ValidateReviewContent(title, content string) error {
	if len(title) > 120 {
		return fmt.Errorf("title must not exceed 120 characters")
	}

	if strings.TrimSpace(content) == "" && strings.TrimSpace(title) != "" {
		return fmt.Errorf("review with a title must include content")
	}

	if len(content) > 5000 {
		return fmt.Errorf("content must not exceed 5000 characters")
	}

	return nil
}
