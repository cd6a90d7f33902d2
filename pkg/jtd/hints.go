package jtd

// Hints disambiguate shapes that data alone cannot tell apart.
type Hints struct {
	DefaultNumType NumType
	Enum           *HintSet // string paths to infer as enums
	Values         *HintSet // object paths to infer as maps
	Discriminator  *HintSet // pointers to the tag property of tagged unions
}

// HintConfig is the unparsed form of Hints, as supplied by a caller.
type HintConfig struct {
	DefaultNumType     string   `json:"default_number_type,omitempty"`
	EnumHints          []string `json:"enum_hints,omitempty"`
	ValuesHints        []string `json:"values_hints,omitempty"`
	DiscriminatorHints []string `json:"discriminator_hints,omitempty"`
}

// NoHints returns an empty hint configuration.
func NoHints() *Hints {
	return &Hints{
		Enum:          NewHintSet(),
		Values:        NewHintSet(),
		Discriminator: NewHintSet(),
	}
}

// ParseHints validates the whole configuration before any inference starts.
func ParseHints(cfg HintConfig) (*Hints, error) {
	def, err := ParseNumType(cfg.DefaultNumType)
	if err != nil {
		return nil, err
	}
	enum, err := ParseHintSet(cfg.EnumHints)
	if err != nil {
		return nil, err
	}
	values, err := ParseHintSet(cfg.ValuesHints)
	if err != nil {
		return nil, err
	}
	disc, err := ParseHintSet(cfg.DiscriminatorHints)
	if err != nil {
		return nil, err
	}
	for _, p := range disc.Patterns() {
		if len(p) == 0 {
			return nil, &PatternError{Hint: "", Reason: "discriminator hint must name the tag property"}
		}
	}
	return &Hints{
		DefaultNumType: def,
		Enum:           enum,
		Values:         values,
		Discriminator:  disc,
	}, nil
}
