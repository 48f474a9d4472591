package errors

var (
	// Authentication
	ErrMissingCredential = Unauthorized("missing authorization credential")
	ErrInvalidCredential = Unauthorized("token is invalid")
	ErrExpiredCredential = Unauthorized("token has expired")
	ErrUnknownSubject    = Unauthorized("user not found")

	// Second factor
	ErrChallengeNotFound = NotFound("challenge is no longer valid, please log in again")
	ErrChallengeExpired  = FailedPrecondition("verification code has expired, please log in again")
	ErrInvalidCode       = InvalidArg("invalid verification code")

	// Conversations and messages
	ErrNotConversationMember = Forbidden("you are not a member of this conversation")
	ErrConversationNotFound  = NotFound("conversation not found")
	ErrEmptyMessage          = InvalidArg("message content cannot be empty")

	// Friend requests
	ErrSelfFriendRequest    = InvalidArg("you cannot add yourself as a friend")
	ErrAlreadyFriends       = AlreadyExists("already friends")
	ErrPendingRequestExists = AlreadyExists("there is already a pending friend request")
	ErrRequestNotFound      = NotFound("friend request not found")
	ErrRequestHandled       = FailedPrecondition("request has already been handled")
)
