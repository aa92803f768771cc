package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Richardmlacerda/qase-poc-rml/internal/models"
)

// ExtractMappingValue returns the trimmed string form of the mapping custom
// field, or "" when the field is absent or its value is empty/null. The
// first entry with the matching field id wins.
func ExtractMappingValue(fields []models.CustomFieldValue, fieldId int64) string {
	for _, f := range fields {
		if f.FieldId == fieldId {
			return stringifyFieldValue(f.Value)
		}
	}
	return ""
}

func stringifyFieldValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode as float64; mapping ids are integers in
		// practice, so render without a trailing ".0".
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// BuildMapping fetches every case of the project and indexes it by its
// mapping value. Duplicate values overwrite: the case fetched last wins.
func (s *MigrationService) BuildMapping(project string) (models.MappingTable, error) {
	cases, err := s.store.GetAllCases(project)
	if err != nil {
		return nil, fmt.Errorf("get cases from %s: %w", project, err)
	}

	fmt.Printf("📋 Loaded %d cases for %s\n", len(cases), project)

	mapping := make(models.MappingTable)
	for _, c := range cases {
		if value := ExtractMappingValue(c.CustomFields, s.mappingFieldId); value != "" {
			mapping[value] = c.Id
		}
	}

	fmt.Printf("📋 Mapping keys found: %d\n", len(mapping))

	return mapping, nil
}
