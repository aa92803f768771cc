package models

// CustomFieldValue is one custom-field entry attached to a case. Value keeps
// whatever JSON type the API returned; extraction stringifies it.
type CustomFieldValue struct {
	FieldId int64
	Value   any
}

type Case struct {
	Id           int64
	Title        string
	CustomFields []CustomFieldValue
}
