package credentials

import (
	"errors"
	"testing"

	"github.com/redhatinsights/profilesync/internal/document"
)

func parse(t *testing.T, input string) document.Node {
	t.Helper()
	n, err := document.Parse([]byte(input))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	return n
}

func TestFindFirstString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue string
		wantFound bool
	}{
		{
			name:      "top level key",
			input:     "openai_api_key: sk-top",
			wantValue: "sk-top",
			wantFound: true,
		},
		{
			name: "shallower occurrence wins over deeper",
			input: `
deep:
  nested:
    openai_api_key: sk-deep
openai-api-key: sk-shallow
`,
			wantValue: "sk-shallow",
			wantFound: true,
		},
		{
			name: "earlier sibling subtree wins",
			input: `
first:
  inner:
    openai_key: sk-first
second:
  openai_key: sk-second
`,
			wantValue: "sk-first",
			wantFound: true,
		},
		{
			name: "keys compared case-insensitively",
			input: `
secrets:
  OPENAI_API_KEY: sk-upper
`,
			wantValue: "sk-upper",
			wantFound: true,
		},
		{
			name: "value is trimmed",
			input: `
openai_api_key: "  sk-pad  "
`,
			wantValue: "sk-pad",
			wantFound: true,
		},
		{
			name: "empty and non-string values are skipped",
			input: `
openai_api_key: "   "
openai-key: 12345
nested:
  openai_key: sk-real
`,
			wantValue: "sk-real",
			wantFound: true,
		},
		{
			name: "sequences are searched in order",
			input: `
providers:
  - name: other
  - openai_api_key: sk-one
  - openai_api_key: sk-two
`,
			wantValue: "sk-one",
			wantFound: true,
		},
		{
			name:      "not found",
			input:     "anthropic_api_key: sk-ant",
			wantFound: false,
		},
		{
			name:      "empty document",
			input:     "",
			wantFound: false,
		},
	}

	aliases := AliasSet(OpenAI.Aliases)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, found := FindFirstString(parse(t, tt.input), aliases)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if value != tt.wantValue {
				t.Errorf("value = %q, want %q", value, tt.wantValue)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	doc := parse(t, `
secrets:
  openai_api_key: sk-x
  llm:
    claude_api_key: sk-c
`)
	creds, err := Resolve(doc, DefaultProviders())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(creds) != 2 {
		t.Fatalf("expected 2 credentials, got %d", len(creds))
	}
	if creds[0].Provider.Name != "openai" || creds[0].Value != "sk-x" {
		t.Errorf("unexpected openai credential for provider %s", creds[0].Provider.Name)
	}
	if creds[1].Provider.Name != "anthropic" || creds[1].Value != "sk-c" {
		t.Errorf("unexpected claude credential for provider %s", creds[1].Provider.Name)
	}
}

func TestResolve_MissingProvider(t *testing.T) {
	doc := parse(t, "openai_api_key: sk-x")
	_, err := Resolve(doc, DefaultProviders())

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if notFound.Provider.Name != "anthropic" {
		t.Errorf("expected claude to be missing, got %s", notFound.Provider.Name)
	}
}
