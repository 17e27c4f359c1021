package main

import (
	"github.com/trezcool/eduplatform/core/coursework"
	"github.com/trezcool/eduplatform/core/user"
)

func (cli *commandLine) parentMenu() []menuItem {
	return []menuItem{
		{label: "View Child Grades", run: cli.childGrades},
		{label: "View Child Assignments", run: cli.childAssignments},
		{label: "View Profile", run: cli.viewProfile},
		{label: "Update Profile", run: cli.updateProfile},
		{label: "Notifications", run: cli.notifications},
		{label: "View Schedule", run: cli.viewSchedule},
	}
}

// promptChild reads a child ID and resolves it among the parent's children.
func (cli *commandLine) promptChild(acc user.Account) (user.Account, error) {
	cid, err := cli.promptInt("Child ID")
	if err != nil {
		return user.Account{}, err
	}
	prof, _ := acc.ParentProfile()
	if !prof.HasChild(cid) {
		return user.Account{}, user.ErrNotFound
	}
	return cli.school.Users.GetByRoleAndID(user.RoleStudent, cid)
}

func (cli *commandLine) childGrades(acc user.Account) error {
	child, err := cli.promptChild(acc)
	if err != nil {
		return err
	}
	subs, err := cli.school.Coursework.StudentSubmissions(child.ID)
	if err != nil {
		return err
	}
	cli.printf("Grades of %s:\n", child.Name)
	cli.printSubmissions(subs)
	return cli.printAverage(child.ID)
}

// childAssignments lists the assignments of the child's class (its Level) and the work the child handed in.
func (cli *commandLine) childAssignments(acc user.Account) error {
	child, err := cli.promptChild(acc)
	if err != nil {
		return err
	}
	prof, _ := child.StudentProfile()
	if prof.Level == "" {
		cli.printf("%s has no class set.\n", child.Name)
	} else {
		assignments, err := cli.school.Coursework.QueryAssignments(coursework.QueryFilter{ClassID: prof.Level})
		if err != nil {
			return err
		}
		cli.printf("Assignments of %s (class %s):\n", child.Name, prof.Level)
		cli.printAssignments(assignments)
	}

	subs, err := cli.school.Coursework.StudentSubmissions(child.ID)
	if err != nil {
		return err
	}
	cli.printf("Work submitted by %s:\n", child.Name)
	cli.printSubmittedWork(subs)
	return nil
}
