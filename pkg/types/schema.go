package types

// ValidationResult contains the result of validating a single value.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// DocumentValidation is the validation result of one input document.
type DocumentValidation struct {
	Index   int    `json:"index"`
	Preview string `json:"preview,omitempty"` // document with long arrays and strings trimmed
	ValidationResult
}

// VerifyResult reports whether an inferred schema accepts every document it
// was inferred from.
type VerifyResult struct {
	Valid    bool                 `json:"valid"`
	Checked  int                  `json:"checked"`
	Failures []DocumentValidation `json:"failures,omitempty"`
}
