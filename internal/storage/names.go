package storage

import "strings"

// SanitizeFilename derives the collection name segment from an
// uploaded filename: the ".pdf" extension is stripped and spaces
// become underscores. The mapping is lossy for filenames that already
// contain underscores; DisplayName cannot distinguish them.
func SanitizeFilename(filename string) string {
	name := strings.TrimSuffix(filename, ".pdf")
	return strings.ReplaceAll(name, " ", "_")
}

// CollectionName builds the per-document collection name. Only
// collections carrying the prefix belong to this system, which lets
// the store host unrelated collections alongside.
func CollectionName(prefix, filename string) string {
	return prefix + "_" + SanitizeFilename(filename)
}

// DisplayName reconstructs a best-effort filename from a collection
// name: strip the prefix, underscores back to spaces, append ".pdf".
func DisplayName(prefix, collection string) string {
	name := strings.TrimPrefix(collection, prefix+"_")
	return strings.ReplaceAll(name, "_", " ") + ".pdf"
}
