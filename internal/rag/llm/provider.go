package llm

import (
	"context"
	"fmt"
	"strings"
)

type Provider interface {
	Generate(ctx context.Context, query string, matches []string) (string, error)
}

// BuildPrompt joins the retrieved chunks into the user prompt every provider
// sends alongside the system instruction.
func BuildPrompt(query string, matches []string) string {
	return fmt.Sprintf("Context:\n%s\n\nUser Question: %s", strings.Join(matches, "\n\n"), query)
}
