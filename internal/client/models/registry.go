package models

// Registry is the set of known accounts. Usernames are unique.
type Registry struct {
	Users []*User `json:"users" validate:"dive,required"`
}

func NewRegistry() *Registry {
	return &Registry{}
}

// NewUser reports whether no registered user has candidate's username.
func (r *Registry) NewUser(candidate *User) bool {
	_, found := r.UserByUsername(candidate.Username)
	return !found
}

// AddUser appends u unconditionally; callers check NewUser first.
func (r *Registry) AddUser(u *User) {
	r.Users = append(r.Users, u)
}

func (r *Registry) UserByUsername(username string) (*User, bool) {
	for _, u := range r.Users {
		if u.Username == username {
			return u, true
		}
	}
	return nil, false
}

// Put stores u, replacing the registered user with the same username or
// appending it when there is none.
func (r *Registry) Put(u *User) {
	for i, existing := range r.Users {
		if existing.Username == u.Username {
			r.Users[i] = u
			return
		}
	}
	r.AddUser(u)
}
