package credentials

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/redhatinsights/profilesync/internal/document"
)

// Provider describes one family of API credentials: the key names it may be
// stored under in a source document and where it goes in a profile.
type Provider struct {
	// Name is used in messages and reports, e.g. "openai".
	Name string
	// Label is the human name used in "could not find" errors.
	Label string
	// Aliases are the lower-case key names accepted in the source document.
	Aliases []string
	// Profile is the profile that receives the credential.
	Profile string
	// Section is the layer inside the profile holding the key.
	Section string
	// Key is the parameter name of the credential within Section.
	Key string
	// APIType is the default ai-api-type hint for the profile.
	APIType string
}

// OpenAI and Claude are the providers synced by default.
var (
	OpenAI = Provider{
		Name:  "openai",
		Label: "OpenAI API key",
		Aliases: []string{
			"openai_api_key",
			"openai-api-key",
			"openaiapikey",
			"openai_key",
			"openai-key",
		},
		Profile: "o4-mini",
		Section: "openai-chat",
		Key:     "openai-api-key",
		APIType: "openai",
	}
	Claude = Provider{
		Name:  "anthropic",
		Label: "Anthropic/Claude API key",
		Aliases: []string{
			"anthropic_api_key",
			"anthropic-api-key",
			"anthropicapikey",
			"anthropic_key",
			"anthropic-key",
			"claude_api_key",
			"claude-api-key",
			"claudeapikey",
		},
		Profile: "sonnet-4.5",
		Section: "claude-chat",
		Key:     "claude-api-key",
		APIType: "claude",
	}
)

// DefaultProviders returns the built-in providers in sync order.
func DefaultProviders() []Provider {
	return []Provider{OpenAI, Claude}
}

// NotFoundError reports a provider whose credential could not be located
// under any of its aliases.
type NotFoundError struct {
	Provider Provider
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find %s (looked for: %s)", e.Provider.Label, strings.Join(e.Provider.Aliases, ", "))
}

// Credential is a located secret. Value must never be logged or printed.
type Credential struct {
	Provider Provider
	Value    string
}

// Resolve locates a credential for every provider in doc. The first missing
// one is returned as a *NotFoundError.
func Resolve(doc document.Node, providers []Provider) ([]Credential, error) {
	creds := make([]Credential, 0, len(providers))
	for _, p := range providers {
		value, ok := FindFirstString(doc, AliasSet(p.Aliases))
		if !ok {
			return nil, &NotFoundError{Provider: p}
		}
		slog.Debug("credential located", "provider", p.Name, "length", len(value))
		creds = append(creds, Credential{Provider: p, Value: value})
	}
	return creds, nil
}

// AliasSet builds a lookup set of lower-cased aliases.
func AliasSet(aliases []string) map[string]struct{} {
	set := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		set[strings.ToLower(a)] = struct{}{}
	}
	return set
}

// FindFirstString searches n depth first for a key in aliases (compared
// lower-cased) whose value is a non-empty string, and returns that value
// trimmed. At each mapping every key of that level is checked before any
// value is descended into; sequences are searched element by element.
func FindFirstString(n document.Node, aliases map[string]struct{}) (string, bool) {
	switch v := n.(type) {
	case *document.Mapping:
		for _, e := range v.Entries() {
			if _, ok := aliases[strings.ToLower(e.Key.Value)]; !ok {
				continue
			}
			if s, ok := document.IsString(e.Value); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s, true
				}
			}
		}
		for _, e := range v.Entries() {
			if s, ok := FindFirstString(e.Value, aliases); ok {
				return s, true
			}
		}
	case document.Sequence:
		for _, item := range v {
			if s, ok := FindFirstString(item, aliases); ok {
				return s, true
			}
		}
	}
	return "", false
}
