package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/daycare-finder/internal/prompts"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ProgramInfo")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
	Fallback    string        // Value the model should use when the text is silent
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	fallback := schema.Fallback
	if fallback == "" {
		fallback = "empty"
	}
	sb.WriteString(prompts.Format(prompts.MustGet(prompts.ExtractionFile, "output-rules"), map[string]string{"Fallback": fallback}))
	sb.WriteString("\n\n")
	sb.WriteString(prompts.Format(prompts.MustGet(prompts.ExtractionFile, "input-block"), map[string]string{"Text": inputText}))
	sb.WriteString("\n")

	return sb.String()
}

// ProgramInfoSchema returns the extraction schema for a daycare website.
func ProgramInfoSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "ProgramInfo",
		Description: prompts.MustGet(prompts.ExtractionFile, "program-info"),
		Fallback:    `"No" for yes/no fields, "Unknown" for curriculum, "Low" for diversity, [] for ages`,
		Fields: []SchemaField{
			{
				Name:        "ages_served",
				Type:        "[\"string\"]",
				Description: "Age groups served, from: infant, toddler, preschool, pre-k, school age",
				Required:    true,
			},
			{
				Name:        "mandarin",
				Type:        "\"Yes\" | \"No\"",
				Description: "Yes if Mandarin, Chinese or bilingual Chinese instruction is offered",
				Required:    true,
			},
			{
				Name:        "meals_provided",
				Type:        "\"Yes\" | \"No\"",
				Description: "Yes if meals or snacks are provided by the program",
				Required:    true,
			},
			{
				Name:        "curriculum",
				Type:        "\"string\"",
				Description: "Curriculum style such as Montessori, Reggio Emilia, Play-based, Emergent; \"Unknown\" if not stated",
				Required:    true,
			},
			{
				Name:        "cultural_diversity",
				Type:        "\"High\" | \"Medium\" | \"Low\"",
				Description: "How strongly the site emphasizes diversity, inclusion or multicultural programs",
				Required:    true,
			},
			{
				Name:        "staff_stability",
				Type:        "\"Yes\" | \"No\"",
				Description: "Yes if the site mentions low turnover, consistent caregivers or long-tenured staff",
				Required:    true,
			},
		},
	}
}
