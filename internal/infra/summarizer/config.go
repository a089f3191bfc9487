package summarizer

import "fmt"

const (
	// minTopK and maxTopK bound the number of sentences per summary.
	minTopK = 1
	maxTopK = 50

	// minTokenLengthLimit and maxTokenLengthLimit bound the minimum token length.
	minTokenLengthLimit = 1
	maxTokenLengthLimit = 20
)

// ValidateTopK validates that the number of selected sentences is within 1-50.
//
// Example:
//
//	err := ValidateTopK(3)  // nil (valid)
//	err := ValidateTopK(0)  // error: "top_k 0 is below minimum 1"
//	err := ValidateTopK(80) // error: "top_k 80 exceeds maximum 50"
func ValidateTopK(k int) error {
	if k < minTopK {
		return fmt.Errorf("top_k %d is below minimum %d", k, minTopK)
	}
	if k > maxTopK {
		return fmt.Errorf("top_k %d exceeds maximum %d", k, maxTopK)
	}
	return nil
}

// ValidateMinTokenLength validates that the minimum token length is within 1-20.
func ValidateMinTokenLength(n int) error {
	if n < minTokenLengthLimit {
		return fmt.Errorf("min_token_length %d is below minimum %d", n, minTokenLengthLimit)
	}
	if n > maxTokenLengthLimit {
		return fmt.Errorf("min_token_length %d exceeds maximum %d", n, maxTokenLengthLimit)
	}
	return nil
}
