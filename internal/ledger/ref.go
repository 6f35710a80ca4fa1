package ledger

// UserRef identifies a user in one of three resolution modes:
// UserByID, UserByName or UserByNameOrCreate.
type UserRef interface {
	userRef()
}

// StrictUserRef is a UserRef that never creates a user.
// Only UserByID and UserByName implement it.
type StrictUserRef interface {
	UserRef
	strictUserRef()
}

// UserByID passes the id through without checking that it exists.
type UserByID UserID

// UserByName resolves to the newest user with exactly this name.
type UserByName string

// UserByNameOrCreate resolves like UserByName, creating the user on a miss.
type UserByNameOrCreate string

func (UserByID) userRef() {}
func (UserByID) strictUserRef() {}
func (UserByName) userRef() {}
func (UserByName) strictUserRef() {}
func (UserByNameOrCreate) userRef() {}

// TokenRef identifies a token in one of three resolution modes:
// TokenByID, TokenByName or TokenByNameOrCreate.
type TokenRef interface {
	tokenRef()
}

// StrictTokenRef is a TokenRef that never creates a token.
type StrictTokenRef interface {
	TokenRef
	strictTokenRef()
}

// TokenByID passes the id through without checking that it exists.
type TokenByID TokenID

// TokenByName resolves to the newest token with exactly this name.
type TokenByName string

// TokenByNameOrCreate resolves like TokenByName, creating the token on a miss.
type TokenByNameOrCreate string

func (TokenByID) tokenRef() {}
func (TokenByID) strictTokenRef() {}
func (TokenByName) tokenRef() {}
func (TokenByName) strictTokenRef() {}
func (TokenByNameOrCreate) tokenRef() {}
