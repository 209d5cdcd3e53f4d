package hotseatdto

type StartRequest struct {
	Minutes int `json:"minutes"`
}

type MoveRequest struct {
	Player string `json:"player"`
	Move   string `json:"move"`
}

type ResignRequest struct {
	Player string `json:"player"`
}

// Response wraps every API reply. Error is set for rejected controls; State
// is always the state after the call, so a rejected move still carries the
// player's advisory.
type Response struct {
	State *SessionState `json:"state,omitempty"`
	Error *DomainError  `json:"error,omitempty"`
}

type Health struct {
	Status string `json:"status"`
}
