package profiles

import (
	"sort"

	"github.com/redhatinsights/profilesync/internal/credentials"
	"github.com/redhatinsights/profilesync/internal/document"
)

// Keys of the shared ai-chat layer that hint which engine a profile uses.
const (
	AISection  = "ai-chat"
	APITypeKey = "ai-api-type"
	EngineKey  = "ai-engine"
)

// EnsureProfile returns the profile called name, replacing a missing or
// non-mapping value with an empty mapping.
func EnsureProfile(doc *document.Mapping, name string) *document.Mapping {
	return ensureMapping(doc, name)
}

// EnsureSection returns the section (layer) of profile, replacing a missing or
// non-mapping value with an empty mapping.
func EnsureSection(profile *document.Mapping, section string) *document.Mapping {
	return ensureMapping(profile, section)
}

func ensureMapping(parent *document.Mapping, key string) *document.Mapping {
	if v, ok := parent.Get(key); ok {
		if m, ok := v.(*document.Mapping); ok && m != nil {
			return m
		}
	}
	m := document.NewMapping()
	parent.Set(key, m)
	return m
}

// SetIfAbsent stores value under key unless key is already present, and
// reports whether it did.
func SetIfAbsent(m *document.Mapping, key string, value document.Node) bool {
	if m.Has(key) {
		return false
	}
	m.Set(key, value)
	return true
}

// ApplyCredential writes cred into its provider's profile. The credential key
// is always overwritten; the ai-api-type and ai-engine hints are only filled
// in when missing, so hand-edited hints survive.
func ApplyCredential(doc *document.Mapping, cred credentials.Credential) {
	p := cred.Provider
	profile := EnsureProfile(doc, p.Profile)

	section := EnsureSection(profile, p.Section)
	section.Set(p.Key, document.String(cred.Value))

	ai := EnsureSection(profile, AISection)
	SetIfAbsent(ai, APITypeKey, document.String(p.APIType))
	SetIfAbsent(ai, EngineKey, document.String(p.Profile))
}

// SyncCredentials applies creds to every target profile already present in
// doc, and also creates the missing ones when appendMissing is set. It
// returns the names of the updated profiles, sorted and without duplicates.
func SyncCredentials(doc *document.Mapping, creds []credentials.Credential, appendMissing bool) []string {
	updated := map[string]struct{}{}

	var missing []credentials.Credential
	for _, cred := range creds {
		if !doc.Has(cred.Provider.Profile) {
			missing = append(missing, cred)
			continue
		}
		ApplyCredential(doc, cred)
		updated[cred.Provider.Profile] = struct{}{}
	}

	if appendMissing {
		for _, cred := range missing {
			ApplyCredential(doc, cred)
			updated[cred.Provider.Profile] = struct{}{}
		}
	}

	names := make([]string, 0, len(updated))
	for name := range updated {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
