package hotseatdto

// Error codes carried by DomainError.
const (
	CodeEmptyInput     = "empty_input"
	CodeNotYourTurn    = "not_your_turn"
	CodeInvalidMove    = "invalid_move"
	CodeUnknownPlayer  = "unknown_player"
	CodeEmptyHistory   = "empty_history"
	CodeNotStarted     = "not_started"
	CodeAlreadyStarted = "already_started"
	CodeGameOver       = "game_over"
	CodeBadRequest     = "bad_request"
	CodeInternal       = "internal"
)

type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "hotseat service error"
}
