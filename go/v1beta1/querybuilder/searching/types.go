package searching

import "fmt"

// Priority is a boost multiplier. Only the ordering between levels is meaningful to callers.
type Priority float64

const (
	PriorityLowest  Priority = 1
	PriorityLow     Priority = 2
	PriorityMedium  Priority = 3
	PriorityHigh    Priority = 4
	PriorityHighest Priority = 5
)

const (
	// AccentFieldSuffix names the sub-field indexed with an accent folding analyzer
	AccentFieldSuffix = "accent"
	// DefaultSubKey names the unanalyzed sub-field used for exact matches
	DefaultSubKey = "keyword"
)

// Attribute describes a searchable field and its relative weight
type Attribute struct {
	Key                 string  `json:"key"`
	Rate                float64 `json:"rate"`
	AllowSearchNoAccent bool    `json:"allowSearchNoAccent"`
	IsLink              bool    `json:"isLink"`
	SubKey              string  `json:"subKey,omitempty"`
}

func (a Attribute) rate() float64 {
	if a.Rate <= 0 {
		return 1
	}

	return a.Rate
}

func (a Attribute) accentField() string {
	return fmt.Sprintf("%s.%s", a.Key, AccentFieldSuffix)
}

func (a Attribute) exactField() string {
	subKey := a.SubKey
	if subKey == "" {
		subKey = DefaultSubKey
	}

	return fmt.Sprintf("%s.%s", a.Key, subKey)
}

type AnalyzerMode string

const (
	AnalyzerExactOrder       AnalyzerMode = "EXACT_ORDER"
	AnalyzerIgnoreDiacritics AnalyzerMode = "IGNORE_DIACRITICS"
)

type SearchInput struct {
	Key     string         `json:"key"`
	Value   string         `json:"value"`
	Options *SearchOptions `json:"options,omitempty"`
}

type SearchOptions struct {
	Analyzers []AnalyzerMode `json:"analyzers,omitempty"`
	Boost     float64        `json:"boost,omitempty"`
}

func (in *SearchInput) analyzers() []AnalyzerMode {
	if in.Options == nil {
		return nil
	}

	return in.Options.Analyzers
}

func (in *SearchInput) boost() float64 {
	if in.Options == nil {
		return 0
	}

	return in.Options.Boost
}

func (in *SearchInput) uses(mode AnalyzerMode) bool {
	for _, analyzer := range in.analyzers() {
		if analyzer == mode {
			return true
		}
	}

	return false
}

type UnsupportedAnalyzerError struct {
	Key      string
	Analyzer AnalyzerMode
}

func (e *UnsupportedAnalyzerError) Error() string {
	return fmt.Sprintf("unsupported analyzer %q for search on %q", e.Analyzer, e.Key)
}
