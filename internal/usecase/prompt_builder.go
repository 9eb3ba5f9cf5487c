package usecase

import (
	"fmt"
	"strings"

	"book-recommender/internal/domain"
)

// PromptInput defines the input for building a recommendation prompt.
type PromptInput struct {
	Section  domain.Section
	Category string
	Count    int
}

// PromptBuilder builds the chat messages sent to the LLM.
type PromptBuilder interface {
	Build(input PromptInput) ([]domain.Message, error)
}

type sectionPromptBuilder struct{}

// NewSectionPromptBuilder creates a prompt builder that selects a fixed
// template per section.
func NewSectionPromptBuilder() PromptBuilder {
	return &sectionPromptBuilder{}
}

// Build constructs a system message carrying the instructions and output
// contract, and a user message restating the request.
func (b *sectionPromptBuilder) Build(input PromptInput) ([]domain.Message, error) {
	count := input.Count
	if count <= 0 {
		count = 15
	}

	var flavor, window string
	switch input.Section {
	case domain.SectionNew:
		flavor = "recently published"
		window = "2022 and 2024"
	default:
		// Unknown sections deliberately fall through to the broad template;
		// the section value is advisory prompt input, not a validated enum.
		flavor = "award-winning"
		window = "1950 and 2024"
	}

	var sysSb strings.Builder
	sysSb.WriteString("You are a book recommendation expert.\n\n")

	sysSb.WriteString("### Task\n")
	sysSb.WriteString(fmt.Sprintf("Recommend exactly %d %s %s books published between %s.\n\n",
		count, flavor, input.Category, window))

	sysSb.WriteString("### Instructions\n")
	sysSb.WriteString("1. Every book must be a real, published title.\n")
	sysSb.WriteString(fmt.Sprintf("2. publicationYear must fall between %s.\n", window))
	sysSb.WriteString("3. description must be at most 150 characters.\n")
	sysSb.WriteString("4. themes must contain 2-3 entries.\n")
	sysSb.WriteString("5. rating is a decimal out of 5, e.g. \"4.5\".\n")
	sysSb.WriteString("6. Output MUST be a valid JSON array and nothing else.\n\n")

	sysSb.WriteString("### Response Format\n")
	sysSb.WriteString("[\n")
	sysSb.WriteString("  {\n")
	sysSb.WriteString("    \"title\": \"Book Title\",\n")
	sysSb.WriteString("    \"author\": \"Author Name\",\n")
	sysSb.WriteString("    \"publicationYear\": \"2023\",\n")
	sysSb.WriteString("    \"description\": \"Short description...\",\n")
	sysSb.WriteString("    \"themes\": [\"theme1\", \"theme2\"],\n")
	sysSb.WriteString("    \"rating\": \"4.5\"\n")
	sysSb.WriteString("  }\n")
	sysSb.WriteString("]\n")

	userMsg := fmt.Sprintf("Recommend %d %s %s books.", count, flavor, input.Category)

	return []domain.Message{
		{Role: "system", Content: sysSb.String()},
		{Role: "user", Content: userMsg},
	}, nil
}
