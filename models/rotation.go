package models

// RotationState is the position of the display in the catalog
type RotationState struct {
	CategoryIndex int `json:"categoryIndex"`
	PagePartIndex int `json:"pagePartIndex"`
}
