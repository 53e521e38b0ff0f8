package post

import (
	"bytes"
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/kalkulator/blogbuilder/internal/foundation/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Example is a worked example with ordered steps.
type Example struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}

// ManualFormula overrides the generic formula section.
type ManualFormula struct {
	Heading string `json:"heading"`
	Prose   string `json:"prose"`
	Latex   string `json:"latex"`
}

// Input is a post generation request.
type Input struct {
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	MainKeyword string `json:"main_keyword"`
	Date        string `json:"date"`

	UpdatedAt            string         `json:"updatedAt,omitempty"`
	Status               Status         `json:"status,omitempty"`
	Description          string         `json:"description,omitempty"`
	Tags                 []string       `json:"tags,omitempty"`
	HeroImage            string         `json:"hero_image,omitempty"`
	FAQ                  []FAQItem      `json:"faq,omitempty"`
	Examples             []Example      `json:"examples,omitempty"`
	CommonMistakes       []string       `json:"common_mistakes,omitempty"`
	Calculator           *Calculator    `json:"calculator,omitempty"`
	SecondaryCalculators []Calculator   `json:"secondary_calculators,omitempty"`
	ManualFormula        *ManualFormula `json:"manual_formula,omitempty"`
	QuickAnswer          string         `json:"quick_answer,omitempty"`
}

// ReadInput loads and validates a generation request from a JSON file.
func ReadInput(path string) (Input, error) {
	// #nosec G304 -- path is the user-supplied CLI argument.
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, errors.WrapError(err, errors.CategoryValidation, "read input file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return ParseInput(data)
}

// ParseInput decodes and validates a generation request.
func ParseInput(data []byte) (Input, error) {
	var in Input
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&in); err != nil {
		return Input{}, errors.WrapError(err, errors.CategoryValidation, "decode input JSON").Fatal().Build()
	}
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}

// Validate checks required fields and value formats.
func (in Input) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"slug", in.Slug},
		{"category", in.Category},
		{"main_keyword", in.MainKeyword},
		{"date", in.Date},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.ValidationError("missing required field").WithContext("field", r.key).Build()
		}
	}

	if !slugPattern.MatchString(in.Slug) {
		return errors.ValidationError("slug must be lowercase words separated by hyphens").
			WithContext("slug", in.Slug).
			Build()
	}
	if _, err := ParseDate(in.Date); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid date").Fatal().WithContext("field", "date").Build()
	}
	if in.UpdatedAt != "" {
		if _, err := ParseDate(in.UpdatedAt); err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "invalid date").Fatal().WithContext("field", "updatedAt").Build()
		}
	}
	if in.Status != "" && !in.Status.Valid() {
		return errors.ValidationError("status must be draft or published").
			WithContext("status", string(in.Status)).
			Build()
	}
	return nil
}

// EffectiveStatus returns the requested status, defaulting to published.
func (in Input) EffectiveStatus() Status {
	if in.Status == "" {
		return StatusPublished
	}
	return in.Status
}
