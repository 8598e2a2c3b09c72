package profiles

import (
	"github.com/redhatinsights/profilesync/internal/document"
)

// Migration is the outcome of merging legacy layers into a profile.
type Migration struct {
	// Profiles is the updated profiles document. The input is not modified.
	Profiles *document.Mapping
	// Profile is the name of the profile that received the layers.
	Profile string
	// Layers are the legacy layers that were merged, in legacy order.
	Layers []Layer
	// Skipped are the legacy keys that were not layers.
	Skipped []SkippedKey
}

// MigrateLayers merges every layer of the legacy config into the profile
// called name. Values from config win over values already in the profile;
// keys only present in the profile are kept.
//
// The existing profile and each existing layer that receives parameters must
// be mappings (or absent/null); anything else is a *document.ShapeError.
func MigrateLayers(profiles, config *document.Mapping, name string) (*Migration, error) {
	layers, skipped := ExtractLayers(config)

	existing, _ := profiles.Get(name)
	profile, err := document.AsMapping(existing, document.Path("profiles", name))
	if err != nil {
		return nil, err
	}

	merged := profile.Clone()
	for _, layer := range layers {
		current, _ := merged.Lookup(layer.Key)
		existingLayer, err := document.AsMapping(current, document.Path("profiles", name, layer.Name))
		if err != nil {
			return nil, err
		}
		layerCopy := existingLayer.Clone()
		document.DeepMerge(layerCopy, layer.Parameters)
		merged.SetEntry(layer.Key, layerCopy)
	}

	out := profiles.Clone()
	out.Set(name, merged)

	return &Migration{
		Profiles: out,
		Profile:  name,
		Layers:   layers,
		Skipped:  skipped,
	}, nil
}
