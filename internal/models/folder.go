package models

// Folder groups cards within a party. Folders owned by the system party are
// visible to every party but accept new cards only from architects.
type Folder struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	PartyID string `json:"party_id"`
}
