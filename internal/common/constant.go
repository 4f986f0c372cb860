package common

// Local store keys.
const (
	UsersKey = "users_key"
	UserKey  = "user_key"
	IndexKey = "index_key"
)
