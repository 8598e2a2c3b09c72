package document

// Package document holds parsed YAML documents as a small tagged union.
//
// Every value is a Node, which is exactly one of:
//
//   - *Mapping: an insertion-ordered map keyed by scalar text
//   - Sequence: an ordered list of nodes
//   - *Scalar: a leaf with its resolved YAML tag and literal text
//
// Code working on documents switches on the variant instead of inspecting
// interface{} values:
//
//	switch v := n.(type) {
//	case *document.Mapping:
//	case document.Sequence:
//	case *document.Scalar:
//	}
//
// # Parsing and writing
//
// Parse decodes through yaml.Node, so mapping keys keep the order they had in
// the file and Marshal writes them back in that order. Aliases and merge keys
// are expanded at parse time, which means a parsed document is always a tree
// and recursive functions over it terminate.
//
// # Merging
//
// DeepMerge combines two mappings recursively with source-wins semantics.
// It only assigns and recurses, never accumulates, so it is idempotent.
