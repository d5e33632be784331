package response

const (
	VoteAccepted    = 1001 // Vote recorded
	VoteRateLimited = 1002 // Same question voted within the window
	OptionNotFound  = 1003

	PollNotFound     = 2001
	QuestionNotFound = 2002
	PollDeleted      = 2003

	AuthLoginFailed   = 3001
	AuthTokenMissing  = 3002
	AuthTokenInvalid  = 3003
	AuthTokenRevoked  = 3004
	AuthLoggedOut     = 3005
	AuthLoginThrottle = 3006

	ErrCodeParamInvalid = 4003
	ErrCodeUnavailable  = 5003
	ErrCodeInternal     = 5000
)

// message
var msg = map[int]string{
	// Voting
	VoteAccepted:    "Vote recorded",
	VoteRateLimited: "You have already voted on this question recently. Please try again later.",
	OptionNotFound:  "Option not found",

	// Polls
	PollNotFound:     "Poll not found",
	QuestionNotFound: "Question not found",
	PollDeleted:      "Poll deleted",

	// Auth
	AuthLoginFailed:   "Invalid username or password",
	AuthTokenMissing:  "Authorization token is required",
	AuthTokenInvalid:  "Invalid or expired token",
	AuthTokenRevoked:  "Token has been revoked",
	AuthLoggedOut:     "Logged out",
	AuthLoginThrottle: "Too many login attempts. Please try again later.",

	ErrCodeParamInvalid: "Invalid input data",
	ErrCodeUnavailable:  "Service temporarily unavailable. Please try again.",
	ErrCodeInternal:     "An unexpected error occurred",
}

// Msg returns the user-facing text for a code.
func Msg(code int) string {
	if m, ok := msg[code]; ok {
		return m
	}
	return msg[ErrCodeInternal]
}
