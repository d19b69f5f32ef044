package model

// Principal is the identity a request is made on behalf of. The zero value
// is the anonymous principal.
type Principal struct {
	UserID   int64
	Username string
}

func Anonymous() Principal {
	return Principal{}
}

func (p Principal) IsAuthenticated() bool {
	return p.UserID > 0
}
