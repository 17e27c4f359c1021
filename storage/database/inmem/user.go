package inmemdb

import (
	"sort"

	"github.com/samber/lo"

	"github.com/trezcool/eduplatform/core/user"
)

type userRepository struct {
	db *userTable
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

// query returns copies of all accounts matching keep, ordered by ID.
func (repo *userRepository) query(keep func(usr *user.Account) bool) []user.Account {
	users := make([]user.Account, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		if keep == nil || keep(u) {
			users = append(users, u.Clone())
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (repo *userRepository) CreateUser(usr user.Account) (user.Account, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	usr.ID = repo.db.pkCount
	if usr.Profile == nil {
		usr.Profile = user.NewProfile(usr.Role)
	}
	stored := usr.Clone()
	repo.db.table[usr.ID] = &stored
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(nil), nil
}

func (repo *userRepository) QueryUsersByRole(role user.Role) ([]user.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(usr *user.Account) bool { return usr.Role == role }), nil
}

func (repo *userRepository) GetUserByID(id int) (user.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return usr.Clone(), nil
	}
	return user.Account{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(usr user.Account) (user.Account, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save mutable fields
	origUsr, ok := repo.db.table[usr.ID]
	if !ok {
		return user.Account{}, user.ErrNotFound
	}
	origUsr.Name = usr.Name
	origUsr.Email = usr.Email
	if usr.PasswordHash != nil {
		origUsr.PasswordHash = append([]byte(nil), usr.PasswordHash...)
	}
	origUsr.UpdatedAt = usr.UpdatedAt
	return origUsr.Clone(), nil
}

func (repo *userRepository) DeleteUser(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return user.ErrNotFound
	}

	switch prof := usr.Profile.(type) {
	case user.StudentProfile:
		for parentID := range repo.db.parentsByChild[id] {
			if parent, ok := repo.db.table[parentID]; ok {
				pp, _ := parent.ParentProfile()
				pp.Children = lo.Without(pp.Children, id)
				parent.Profile = pp
			}
		}
		delete(repo.db.parentsByChild, id)
	case user.ParentProfile:
		for _, childID := range prof.Children {
			delete(repo.db.parentsByChild[childID], id)
			if len(repo.db.parentsByChild[childID]) == 0 {
				delete(repo.db.parentsByChild, childID)
			}
		}
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *userRepository) AddChild(parentID, studentID int) (user.Account, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	parent, ok := repo.db.table[parentID]
	if !ok {
		return user.Account{}, user.ErrNotFound
	}
	student, ok := repo.db.table[studentID]
	if !ok || !student.IsStudent() {
		return user.Account{}, user.ErrNotFound
	}
	pp, ok := parent.ParentProfile()
	if !ok {
		return user.Account{}, user.ErrNotFound
	}

	if !pp.HasChild(studentID) {
		pp.Children = append(pp.Children, studentID)
		parent.Profile = pp
	}
	parents, ok := repo.db.parentsByChild[studentID]
	if !ok {
		parents = make(map[int]struct{})
		repo.db.parentsByChild[studentID] = parents
	}
	parents[parentID] = struct{}{}
	return parent.Clone(), nil
}

func (repo *userRepository) QueryParentsOf(studentID int) ([]user.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := lo.Keys(repo.db.parentsByChild[studentID])
	sort.Ints(ids)
	parents := make([]user.Account, 0, len(ids))
	for _, id := range ids {
		if parent, ok := repo.db.table[id]; ok {
			parents = append(parents, parent.Clone())
		}
	}
	return parents, nil
}
