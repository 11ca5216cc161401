package models

// Expertise is one type/value pair of the expertise collection.
type Expertise struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
