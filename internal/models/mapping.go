package models

// MappingTable resolves an external mapping value (the trimmed string stored
// in the mapping custom field) to a case id in the destination project.
// Duplicate mapping values overwrite: last case encountered wins.
type MappingTable map[string]int64
