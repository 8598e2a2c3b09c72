package profiles

import (
	"github.com/redhatinsights/profilesync/internal/document"
)

// Layer is a named group of parameters.
type Layer struct {
	Name string
	// Key is the layer's key as written, tag included.
	Key        document.Scalar
	Parameters *document.Mapping
}

// SkippedKey is a top-level legacy key that could not be treated as a layer.
type SkippedKey struct {
	Key  string
	Type string
}

// ExtractLayers splits the top-level entries of config into layers (entries
// whose value is a mapping) and skipped keys (everything else, with the type
// that was found). Both keep the order of config.
func ExtractLayers(config *document.Mapping) ([]Layer, []SkippedKey) {
	var layers []Layer
	var skipped []SkippedKey
	for _, e := range config.Entries() {
		if m, ok := e.Value.(*document.Mapping); ok && m != nil {
			layers = append(layers, Layer{Name: e.Key.Value, Key: e.Key, Parameters: m})
			continue
		}
		skipped = append(skipped, SkippedKey{Key: e.Key.Value, Type: document.TypeName(e.Value)})
	}
	return layers, skipped
}
