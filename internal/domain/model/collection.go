package model

// Collection names one working collection of the store.
type Collection string

// Known collections.
const (
	Users       Collection = "users"
	Tasks       Collection = "tasks"
	Skills      Collection = "skills"
	Reports     Collection = "reports"
	Performance Collection = "performance"
	SkillGaps   Collection = "skill_gaps"
	Training    Collection = "training"
)

// Collections lists every list-shaped collection in a stable order.
var Collections = []Collection{Users, Tasks, Skills, Reports, Performance, SkillGaps, Training}

// identityKeys holds the ordered field names that identify a record of each
// collection. Lookups try them in order and the first match wins.
var identityKeys = map[Collection][]string{
	Users:       {"id"},
	Tasks:       {"id"},
	Skills:      {"id"},
	Reports:     {"date"},
	Performance: {"employeeId", "employee_id"},
	SkillGaps:   {"skillId"},
	// Training suggestions have no unique key; they are filtered, not fetched.
	Training: nil,
}

// loginKeys are the user fields a login username may match.
var loginKeys = []string{"id", "employeeId", "email"}

// IdentityKeys returns the ordered identifier fields for c.
func (c Collection) IdentityKeys() []string {
	return identityKeys[c]
}

// Valid reports whether c is a known collection.
func (c Collection) Valid() bool {
	_, ok := identityKeys[c]
	return ok
}

// LoginKeys returns the user fields a login username is compared against.
func LoginKeys() []string {
	return loginKeys
}

// Matches reports whether any of keys holds exactly value in r.
func (r Record) Matches(keys []string, value string) bool {
	for _, k := range keys {
		if s, ok := r.String(k); ok && s == value {
			return true
		}
	}
	return false
}
