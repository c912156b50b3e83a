package models

// InstructionBox is pinned informational content scoped to a folder and
// party. Only privileged roles create or edit it; the sync snapshot consumes
// it read-only.
type InstructionBox struct {
	ID       string `json:"id"`
	FolderID string `json:"folder_id"`
	PartyID  string `json:"party_id"`
	Content  string `json:"content"`

	// Layout fields, free for the consumer to interpret.
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}
