package main

import (
	"github.com/trezcool/eduplatform/core/coursework"
	"github.com/trezcool/eduplatform/core/user"
)

func (cli *commandLine) studentMenu() []menuItem {
	return []menuItem{
		{label: "Submit Assignment", run: cli.submitAssignment},
		{label: "View Grades", run: cli.viewGrades},
		{label: "Calculate Average", run: func(acc user.Account) error { return cli.printAverage(acc.ID) }},
		{label: "My Assignments", run: cli.classAssignments},
		{label: "View Profile", run: cli.viewProfile},
		{label: "Update Profile", run: cli.updateProfile},
		{label: "View Schedule", run: cli.viewSchedule},
		{label: "Notifications", run: cli.notifications},
	}
}

func (cli *commandLine) submitAssignment(acc user.Account) error {
	aid, err := cli.promptInt("Assignment ID")
	if err != nil {
		return err
	}
	content, err := cli.prompt("Content")
	if err != nil {
		return err
	}
	if _, err := cli.school.Coursework.Submit(acc.ID, aid, content); err != nil {
		return err
	}
	cli.println("Submitted.")
	return nil
}

func (cli *commandLine) viewGrades(acc user.Account) error {
	subs, err := cli.school.Coursework.StudentSubmissions(acc.ID)
	if err != nil {
		return err
	}
	cli.printSubmissions(subs)
	return nil
}

// classAssignments lists the assignments of the student's class.
func (cli *commandLine) classAssignments(acc user.Account) error {
	prof, _ := acc.StudentProfile()
	if prof.Level == "" {
		cli.println("No class set on your profile.")
		return nil
	}
	assignments, err := cli.school.Coursework.QueryAssignments(coursework.QueryFilter{ClassID: prof.Level})
	if err != nil {
		return err
	}
	cli.printAssignments(assignments)
	return nil
}
