package document

// DeepMerge merges src into dst:
//   - keys missing from dst are added
//   - when both values are mappings the merge recurses
//   - otherwise the value from src replaces the one in dst
//
// Keys present only in dst are never removed. Values taken from src are
// cloned, so dst does not share structure with src and merging the same src
// again leaves dst unchanged.
func DeepMerge(dst, src *Mapping) {
	for _, e := range src.Entries() {
		srcMap, srcIsMap := e.Value.(*Mapping)
		if existing, ok := dst.Lookup(e.Key); ok && srcIsMap && srcMap != nil {
			if dstMap, ok := existing.(*Mapping); ok && dstMap != nil {
				DeepMerge(dstMap, srcMap)
				continue
			}
		}
		dst.SetEntry(e.Key, Clone(e.Value))
	}
}
