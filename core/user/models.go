package user

import (
	"time"

	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/eduplatform/core"
)

type Role string

// Roles
const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool { return lo.Contains(AllRoles, r) }

// Profile holds the role specific data of an Account.
// Exactly one implementation matches each Role.
type Profile interface {
	Role() Role
	clone() Profile
}

type AdminProfile struct {
	Permissions []string `json:"permissions"`
}

type TeacherProfile struct {
	Subjects []string `json:"subjects"`
}

type StudentProfile struct {
	Level string `json:"level"`
}

type ParentProfile struct {
	Children []int `json:"children"` // student IDs
}

func (AdminProfile) Role() Role   { return RoleAdmin }
func (TeacherProfile) Role() Role { return RoleTeacher }
func (StudentProfile) Role() Role { return RoleStudent }
func (ParentProfile) Role() Role  { return RoleParent }

func (p AdminProfile) clone() Profile {
	return AdminProfile{Permissions: append([]string(nil), p.Permissions...)}
}

func (p TeacherProfile) clone() Profile {
	return TeacherProfile{Subjects: append([]string(nil), p.Subjects...)}
}

func (p StudentProfile) clone() Profile { return p }

func (p ParentProfile) clone() Profile {
	return ParentProfile{Children: append([]int(nil), p.Children...)}
}

// HasChild reports whether studentID is linked to the parent.
func (p ParentProfile) HasChild(studentID int) bool {
	return lo.Contains(p.Children, studentID)
}

// NewProfile returns the empty profile matching role.
func NewProfile(role Role) Profile {
	switch role {
	case RoleAdmin:
		return AdminProfile{}
	case RoleTeacher:
		return TeacherProfile{}
	case RoleStudent:
		return StudentProfile{}
	case RoleParent:
		return ParentProfile{}
	}
	return nil
}

type Account struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Profile      Profile   `json:"profile"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// Clone returns a copy of the Account that shares no memory with it.
func (a Account) Clone() Account {
	a.PasswordHash = append([]byte(nil), a.PasswordHash...)
	if a.Profile != nil {
		a.Profile = a.Profile.clone()
	}
	return a
}

func (a Account) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Account) IsTeacher() bool { return a.Role == RoleTeacher }
func (a Account) IsStudent() bool { return a.Role == RoleStudent }
func (a Account) IsParent() bool  { return a.Role == RoleParent }

func (a Account) AdminProfile() (AdminProfile, bool) {
	p, ok := a.Profile.(AdminProfile)
	return p, ok
}

func (a Account) TeacherProfile() (TeacherProfile, bool) {
	p, ok := a.Profile.(TeacherProfile)
	return p, ok
}

func (a Account) StudentProfile() (StudentProfile, bool) {
	p, ok := a.Profile.(StudentProfile)
	return p, ok
}

func (a Account) ParentProfile() (ParentProfile, bool) {
	p, ok := a.Profile.(ParentProfile)
	return p, ok
}

// NewUser contains information needed to register a new Account.
// Level only applies to students, Subjects only to teachers.
type NewUser struct {
	Name     string   `json:"name" validate:"notblank"`
	Email    string   `json:"email" validate:"required,emaildomain"`
	Password string   `json:"password" validate:"pwdlen"`
	Role     Role     `json:"role" validate:"required,userrole"`
	Level    string   `json:"level"`
	Subjects []string `json:"subjects"`
}

func (nu *NewUser) Validate() error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))
	nu.Level = core.CleanString(nu.Level)
	nu.Subjects = cleanSubjects(nu.Subjects)
	return core.ValidateStruct(nu)
}

func (nu NewUser) profile() Profile {
	switch nu.Role {
	case RoleTeacher:
		return TeacherProfile{Subjects: nu.Subjects}
	case RoleStudent:
		return StudentProfile{Level: nu.Level}
	}
	return NewProfile(nu.Role)
}

// UpdateUser defines which fields may be changed on an existing Account.
// It is decoded from a free-form change set; unknown keys are ignored.
type UpdateUser struct {
	Name     string `json:"name" mapstructure:"name"`
	Email    string `json:"email" mapstructure:"email" validate:"omitempty,emaildomain"`
	Password string `json:"password" mapstructure:"password" validate:"pwdlen"`
}

// credential wraps a bare password so it goes through the same validation as NewUser.
type credential struct {
	Password string `json:"password" validate:"pwdlen"`
}

func (uu *UpdateUser) Validate(origUsr Account) error {
	name := core.CleanString(uu.Name)
	if name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}

	email := core.CleanString(uu.Email, true /* lower */)
	if email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}
	return core.ValidateStruct(uu)
}

// ProfileView is the read-only profile shown to every role.
type ProfileView struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Level     string    `json:"level,omitempty"`
	Subjects  []string  `json:"subjects,omitempty"`
	Children  []int     `json:"children,omitempty"`
}

func (a Account) View() ProfileView {
	view := ProfileView{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
	switch p := a.Profile.(type) {
	case StudentProfile:
		view.Level = p.Level
	case TeacherProfile:
		view.Subjects = append([]string(nil), p.Subjects...)
	case ParentProfile:
		view.Children = append([]int(nil), p.Children...)
	}
	return view
}

func cleanSubjects(subjects []string) []string {
	cleaned := lo.FilterMap(subjects, func(s string, _ int) (string, bool) {
		s = core.CleanString(s)
		return s, s != ""
	})
	return lo.Uniq(cleaned)
}
