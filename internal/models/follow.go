package models

// Follow is a directed engagement edge from a follower to a target card,
// scoped to a party. At most one edge exists per (follower, card) pair;
// toggling removes the edge instead of duplicating it.
type Follow struct {
	ID           string `json:"id"`
	FollowerID   string `json:"follower_id"`
	TargetCardID string `json:"target_card_id"`
	PartyID      string `json:"party_id"`
	Timestamp    int64  `json:"timestamp"`
}
