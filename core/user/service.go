package user

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/trezcool/eduplatform/core"
)

var (
	// errors
	ErrNotFound   = core.NewNotFoundError("user not found")
	ErrAuthFailed = core.NewAuthError("authentication failed")
)

type (
	Repository interface {
		CreateUser(usr Account) (Account, error)
		// QueryAllUsers returns all accounts ordered by ID.
		QueryAllUsers() ([]Account, error)
		QueryUsersByRole(role Role) ([]Account, error)
		GetUserByID(id int) (Account, error)
		// UpdateUser saves the mutable fields of usr: Name, Email, PasswordHash & UpdatedAt.
		UpdateUser(usr Account) (Account, error)
		// DeleteUser removes the account and every back-reference held to it by parents.
		DeleteUser(id int) error
		// AddChild links studentID to parentID. Linking twice is a no-op.
		AddChild(parentID, studentID int) (Account, error)
		QueryParentsOf(studentID int) ([]Account, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register validates nu, hashes its password and stores the new Account.
func (svc *Service) Register(nu NewUser) (Account, error) {
	if err := nu.Validate(); err != nil {
		return Account{}, err
	}

	now := time.Now().UTC()
	usr := Account{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		Profile:   nu.profile(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(usr)
}

// Authenticate checks pwd against the stored digest of the account.
// Unknown accounts and wrong passwords both fail with ErrAuthFailed.
func (svc *Service) Authenticate(id int, pwd string) (Account, error) {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		if err == ErrNotFound {
			return Account{}, ErrAuthFailed
		}
		return Account{}, err
	}
	if err := usr.CheckPassword(pwd); err != nil {
		return Account{}, ErrAuthFailed
	}
	return usr, nil
}

func (svc *Service) UpdateCredential(id int, pwd string) error {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return err
	}
	if err := core.ValidateStruct(&credential{Password: pwd}); err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateUser(usr)
	return err
}

func (svc *Service) QueryAll() ([]Account, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) QueryByRole(role Role) ([]Account, error) {
	return svc.repo.QueryUsersByRole(role)
}

func (svc *Service) GetByID(id int) (Account, error) {
	return svc.repo.GetUserByID(id)
}

// GetByRoleAndID fails with ErrNotFound when id does not resolve to an account of the given role.
func (svc *Service) GetByRoleAndID(role Role, id int) (Account, error) {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return Account{}, err
	}
	if usr.Role != role {
		return Account{}, ErrNotFound
	}
	return usr, nil
}

func (svc *Service) Profile(id int) (ProfileView, error) {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return ProfileView{}, err
	}
	return usr.View(), nil
}

// UpdateProfile applies a partial update limited to name, email & password.
// Unrecognized keys in changes are ignored.
func (svc *Service) UpdateProfile(id int, changes map[string]interface{}) (Account, error) {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return Account{}, err
	}

	var uu UpdateUser
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &uu,
	})
	if err != nil {
		return Account{}, errors.Wrap(err, "building decoder")
	}
	if err := dec.Decode(changes); err != nil {
		return Account{}, core.NewValidationError(errors.Wrap(err, "decoding profile changes"))
	}
	if err := uu.Validate(usr); err != nil {
		return Account{}, err
	}

	usr.Name = uu.Name
	usr.Email = uu.Email
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return Account{}, errors.Wrap(err, "hashing password")
		}
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(usr)
}

func (svc *Service) Remove(id int) error {
	return svc.repo.DeleteUser(id)
}

// LinkParentChild adds studentID to the parent's children. Re-linking is a no-op.
func (svc *Service) LinkParentChild(parentID, studentID int) (Account, error) {
	if _, err := svc.GetByRoleAndID(RoleParent, parentID); err != nil {
		return Account{}, err
	}
	if _, err := svc.GetByRoleAndID(RoleStudent, studentID); err != nil {
		return Account{}, err
	}
	return svc.repo.AddChild(parentID, studentID)
}

// ParentsOf returns the parents linked to studentID, ordered by ID.
func (svc *Service) ParentsOf(studentID int) ([]Account, error) {
	if _, err := svc.GetByRoleAndID(RoleStudent, studentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryParentsOf(studentID)
}

// Children returns the student accounts linked to parentID.
// Children removed from the directory are skipped.
func (svc *Service) Children(parentID int) ([]Account, error) {
	parent, err := svc.GetByRoleAndID(RoleParent, parentID)
	if err != nil {
		return nil, err
	}
	prof, _ := parent.ParentProfile()
	children := make([]Account, 0, len(prof.Children))
	for _, id := range prof.Children {
		child, err := svc.repo.GetUserByID(id)
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
