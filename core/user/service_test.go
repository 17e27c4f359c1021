package user_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduplatform/core"
	"github.com/trezcool/eduplatform/core/user"
	"github.com/trezcool/eduplatform/tests"
)

func TestService_Register(t *testing.T) {
	env := testutil.Setup(t)
	svc := env.UserSvc

	tests := []struct {
		name      string
		nu        user.NewUser
		wantField string
	}{
		{name: "valid student", nu: user.NewUser{Name: "Ada", Email: "ada@school.test", Password: "pwd", Role: user.RoleStudent, Level: "5B"}},
		{name: "valid teacher", nu: user.NewUser{Name: "Tom", Email: " TOM@School.test ", Password: "pwd", Role: user.RoleTeacher, Subjects: []string{"Math", " ", "Math", "Physics"}}},
		{name: "valid parent", nu: user.NewUser{Name: "Pam", Email: "pam@home.test", Password: "pwd", Role: user.RoleParent}},
		{name: "valid admin", nu: user.NewUser{Name: "Root", Email: "root@school.test", Password: "pwd", Role: "ADMIN"}},
		{name: "email without domain separator", nu: user.NewUser{Name: "Bad", Email: "bad.school.test", Password: "pwd", Role: user.RoleStudent}, wantField: "email"},
		{name: "blank email", nu: user.NewUser{Name: "Bad", Email: "  ", Password: "pwd", Role: user.RoleStudent}, wantField: "email"},
		{name: "unknown role", nu: user.NewUser{Name: "Bad", Email: "bad@school.test", Password: "pwd", Role: "janitor"}, wantField: "role"},
		{name: "blank name", nu: user.NewUser{Name: " ", Email: "anon@school.test", Password: "pwd", Role: user.RoleStudent}, wantField: "name"},
		{name: "longest password", nu: user.NewUser{Name: "Lin", Email: "lin@school.test", Password: strings.Repeat("x", user.MaxPasswordLen), Role: user.RoleStudent}},
		{name: "password too long", nu: user.NewUser{Name: "Lon", Email: "lon@school.test", Password: strings.Repeat("x", user.MaxPasswordLen+1), Role: user.RoleStudent}, wantField: "password"},
		{name: "multibyte password too long", nu: user.NewUser{Name: "Lon", Email: "lon@school.test", Password: strings.Repeat("é", 37), Role: user.RoleStudent}, wantField: "password"},
	}

	seen := make(map[int]bool)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := svc.QueryAll()
			usr, err := svc.Register(tt.nu)
			if tt.wantField != "" {
				require.Error(t, err)
				assert.True(t, core.IsValidation(err), "want validation error, got %v", err)
				vErr, ok := errors.Cause(err).(*core.ValidationError)
				require.True(t, ok)
				_, found := vErr.Field(tt.wantField)
				assert.True(t, found, "field %q not reported in %+v", tt.wantField, vErr.Fields)

				after, _ := svc.QueryAll()
				assert.Len(t, after, len(before), "no account must be created")
				return
			}
			require.NoError(t, err)
			assert.False(t, seen[usr.ID], "duplicate id %d", usr.ID)
			seen[usr.ID] = true
			assert.NotEmpty(t, usr.PasswordHash)
			assert.False(t, bytes.Equal(usr.PasswordHash, []byte(tt.nu.Password)), "password must not be stored in clear")
			assert.Equal(t, usr.Role, usr.Profile.Role())
		})
	}

	teachers, err := svc.QueryByRole(user.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "tom@school.test", teachers[0].Email)
	prof, ok := teachers[0].TeacherProfile()
	require.True(t, ok)
	assert.Equal(t, []string{"Math", "Physics"}, prof.Subjects)
}

func TestService_Authenticate(t *testing.T) {
	env := testutil.Setup(t)
	svc := env.UserSvc
	usr := testutil.Register(t, svc, user.NewUser{Name: "Ada", Email: "ada@school.test", Password: "s3cret", Role: user.RoleStudent})

	tests := []struct {
		name    string
		id      int
		pwd     string
		wantErr error
	}{
		{name: "valid credentials", id: usr.ID, pwd: "s3cret"},
		{name: "wrong password", id: usr.ID, pwd: "S3cret", wantErr: user.ErrAuthFailed},
		{name: "empty password", id: usr.ID, wantErr: user.ErrAuthFailed},
		{name: "unknown account", id: 404, pwd: "s3cret", wantErr: user.ErrAuthFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authenticate(tt.id, tt.pwd)
			if err != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.ID != usr.ID {
				t.Errorf("Authenticate() id = %d, want %d", got.ID, usr.ID)
			}
		})
	}

	t.Run("update credential", func(t *testing.T) {
		require.NoError(t, svc.UpdateCredential(usr.ID, "n3w"))
		_, err := svc.Authenticate(usr.ID, "s3cret")
		assert.Equal(t, user.ErrAuthFailed, err)
		_, err = svc.Authenticate(usr.ID, "n3w")
		assert.NoError(t, err)
		assert.Equal(t, user.ErrNotFound, svc.UpdateCredential(404, "n3w"))

		err = svc.UpdateCredential(usr.ID, strings.Repeat("x", user.MaxPasswordLen+1))
		assert.True(t, core.IsValidation(err), "want validation error, got %v", err)
		_, err = svc.Authenticate(usr.ID, "n3w")
		assert.NoError(t, err, "rejected password must not replace the stored one")
	})
}

func TestService_GetByRoleAndID(t *testing.T) {
	env := testutil.Setup(t)
	teacher := testutil.CreateUser(t, env.Repos.Users, "Tom", "tom@school.test", "", user.RoleTeacher)

	_, err := env.UserSvc.GetByRoleAndID(user.RoleTeacher, teacher.ID)
	assert.NoError(t, err)
	_, err = env.UserSvc.GetByRoleAndID(user.RoleStudent, teacher.ID)
	assert.Equal(t, user.ErrNotFound, err)
	_, err = env.UserSvc.GetByRoleAndID(user.RoleTeacher, 404)
	assert.Equal(t, user.ErrNotFound, err)
}

func TestService_LinkParentChild(t *testing.T) {
	env := testutil.Setup(t)
	svc := env.UserSvc
	parent := testutil.CreateUser(t, env.Repos.Users, "Pam", "pam@home.test", "", user.RoleParent)
	parent2 := testutil.CreateUser(t, env.Repos.Users, "Pat", "pat@home.test", "", user.RoleParent)
	student := testutil.CreateUser(t, env.Repos.Users, "Ada", "ada@school.test", "", user.RoleStudent)
	teacher := testutil.CreateUser(t, env.Repos.Users, "Tom", "tom@school.test", "", user.RoleTeacher)

	tests := []struct {
		name      string
		parentID  int
		studentID int
		wantErr   error
	}{
		{name: "link", parentID: parent.ID, studentID: student.ID},
		{name: "link again", parentID: parent.ID, studentID: student.ID},
		{name: "second parent", parentID: parent2.ID, studentID: student.ID},
		{name: "parent is not a parent", parentID: teacher.ID, studentID: student.ID, wantErr: user.ErrNotFound},
		{name: "child is not a student", parentID: parent.ID, studentID: teacher.ID, wantErr: user.ErrNotFound},
		{name: "unknown parent", parentID: 404, studentID: student.ID, wantErr: user.ErrNotFound},
		{name: "unknown student", parentID: parent.ID, studentID: 404, wantErr: user.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.LinkParentChild(tt.parentID, tt.studentID); err != tt.wantErr {
				t.Errorf("LinkParentChild() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	got, err := svc.GetByID(parent.ID)
	require.NoError(t, err)
	prof, _ := got.ParentProfile()
	assert.Equal(t, []int{student.ID}, prof.Children, "re-linking must not duplicate the child")

	parents, err := svc.ParentsOf(student.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{parent.ID, parent2.ID}, []int{parents[0].ID, parents[1].ID})

	children, err := svc.Children(parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, student.ID, children[0].ID)
}

func TestService_Remove(t *testing.T) {
	env := testutil.Setup(t)
	svc := env.UserSvc
	parent := testutil.CreateUser(t, env.Repos.Users, "Pam", "pam@home.test", "", user.RoleParent)
	student := testutil.CreateUser(t, env.Repos.Users, "Ada", "ada@school.test", "", user.RoleStudent)
	_, err := svc.LinkParentChild(parent.ID, student.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(student.ID))
	assert.Equal(t, user.ErrNotFound, svc.Remove(student.ID))

	_, err = svc.GetByID(student.ID)
	assert.Equal(t, user.ErrNotFound, err)

	got, err := svc.GetByID(parent.ID)
	require.NoError(t, err)
	prof, _ := got.ParentProfile()
	assert.Empty(t, prof.Children, "removed student must be dropped from the parent")

	// IDs are never reused
	other := testutil.CreateUser(t, env.Repos.Users, "Bob", "bob@school.test", "", user.RoleStudent)
	assert.Greater(t, other.ID, student.ID)
}

func TestService_UpdateProfile(t *testing.T) {
	env := testutil.Setup(t)
	svc := env.UserSvc
	usr := testutil.Register(t, svc, user.NewUser{Name: "Ada", Email: "ada@school.test", Password: "old", Role: user.RoleStudent, Level: "5B"})

	tests := []struct {
		name      string
		changes   map[string]interface{}
		wantName  string
		wantEmail string
		wantPwd   string
		wantValid bool
	}{
		{name: "name only", changes: map[string]interface{}{"name": "Ada L."}, wantName: "Ada L.", wantEmail: "ada@school.test", wantPwd: "old"},
		{name: "unknown fields ignored", changes: map[string]interface{}{"role": "admin", "id": 99, "created_at": "now"}, wantName: "Ada L.", wantEmail: "ada@school.test", wantPwd: "old"},
		{name: "email", changes: map[string]interface{}{"email": "Ada@Home.test"}, wantName: "Ada L.", wantEmail: "ada@home.test", wantPwd: "old"},
		{name: "invalid email", changes: map[string]interface{}{"email": "nope"}, wantValid: true},
		{name: "password too long", changes: map[string]interface{}{"password": strings.Repeat("x", user.MaxPasswordLen+1)}, wantValid: true},
		{name: "password", changes: map[string]interface{}{"password": "new"}, wantName: "Ada L.", wantEmail: "ada@home.test", wantPwd: "new"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProfile(usr.ID, tt.changes)
			if tt.wantValid {
				assert.True(t, core.IsValidation(err), "want validation error, got %v", err)
				return
			}
			require.NoError(t, err)

			got, err := svc.GetByID(usr.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantEmail, got.Email)
			assert.Equal(t, user.RoleStudent, got.Role)
			assert.Equal(t, usr.CreatedAt, got.CreatedAt)
			_, err = svc.Authenticate(usr.ID, tt.wantPwd)
			assert.NoError(t, err)
		})
	}

	_, err := svc.UpdateProfile(404, map[string]interface{}{"name": "x"})
	assert.Equal(t, user.ErrNotFound, err)
}

func TestService_Profile(t *testing.T) {
	env := testutil.Setup(t)
	usr := testutil.Register(t, env.UserSvc, user.NewUser{Name: "Tom", Email: "tom@school.test", Role: user.RoleTeacher, Subjects: []string{"Math"}})

	view, err := env.UserSvc.Profile(usr.ID)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, view.ID)
	assert.Equal(t, user.RoleTeacher, view.Role)
	assert.Equal(t, []string{"Math"}, view.Subjects)
	assert.Empty(t, view.Level)
}
