package shared

type Error string

// Implement the error interface
func (e Error) Error() string { return string(e) }

//------------
// Definitions
//------------

// repository errors
const (
	ErrDuplicateUsername = Error("username already exists")
	ErrInvalidRole       = Error("invalid role")
	ErrAccountNotFound   = Error("account not found")
	ErrRecordNotFound    = Error("record not found")
	ErrCreatorNotFound   = Error("creating account does not exist")
)
