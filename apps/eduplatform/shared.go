package main

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/trezcool/eduplatform/core/coursework"
	"github.com/trezcool/eduplatform/core/user"
)

func (cli *commandLine) promptClassDay() (classID, day string, err error) {
	if classID, err = cli.prompt("Class ID"); err != nil {
		return "", "", err
	}
	if day, err = cli.prompt("Day of week"); err != nil {
		return "", "", err
	}
	return classID, day, nil
}

func (cli *commandLine) viewProfile(acc user.Account) error {
	view, err := cli.school.Users.Profile(acc.ID)
	if err != nil {
		return err
	}
	cli.println("Profile Information:")
	cli.printf("  ID: %d\n", view.ID)
	cli.printf("  Full Name: %s\n", view.Name)
	cli.printf("  Email: %s\n", view.Email)
	cli.printf("  Role: %s\n", view.Role)
	cli.printf("  Created At: %s\n", view.CreatedAt.Format("2006-01-02 15:04"))
	switch view.Role {
	case user.RoleStudent:
		cli.printf("  Grade: %s\n", view.Level)
	case user.RoleTeacher:
		cli.printf("  Subjects: %s\n", strings.Join(view.Subjects, ", "))
	case user.RoleParent:
		cli.printf("  Children IDs: %s\n", joinIDs(view.Children))
	}
	return nil
}

var profileFields = map[string]string{
	"1": "name",
	"2": "email",
	"3": "password",
}

func (cli *commandLine) updateProfile(acc user.Account) error {
	choice, err := cli.choose("Update options: [1] Full Name, [2] Email, [3] Password", "1", "2", "3")
	if err != nil {
		return err
	}
	field := profileFields[choice]

	var value string
	if field == "password" {
		value, err = cli.promptPassword("New password")
	} else {
		value, err = cli.prompt("New " + field)
	}
	if err != nil {
		return err
	}
	if _, err := cli.school.Users.UpdateProfile(acc.ID, map[string]interface{}{field: value}); err != nil {
		return err
	}
	cli.println("Profile updated successfully.")
	return nil
}

func (cli *commandLine) notifications(acc user.Account) error {
	notifs, err := cli.school.Mailbox.List(acc.ID)
	if err != nil {
		return err
	}
	cli.println("=== Notifications ===")
	if len(notifs) == 0 {
		cli.println("No notifications.")
		return nil
	}
	for _, n := range notifs {
		cli.println(n.String())
		cli.println(strings.Repeat("-", 30))
	}
	unread, err := cli.school.Mailbox.UnreadCount(acc.ID)
	if err != nil {
		return err
	}
	cli.printf("%d unread.\n", unread)

	choice, err := cli.choose("[1] Mark as read, [2] Delete, [0] Back", "0", "1", "2")
	if err != nil || choice == "0" {
		return err
	}
	id, err := cli.promptInt("Notification ID")
	if err != nil {
		return err
	}
	if choice == "1" {
		if _, err := cli.school.Mailbox.MarkRead(acc.ID, id); err != nil {
			return err
		}
		cli.println("Marked as read.")
		return nil
	}
	if err := cli.school.Mailbox.Delete(acc.ID, id); err != nil {
		return err
	}
	cli.println("Notification deleted.")
	return nil
}

func (cli *commandLine) viewSchedule(user.Account) error {
	classID, day, err := cli.promptClassDay()
	if err != nil {
		return err
	}
	lessons, err := cli.school.Schedules.View(classID, day)
	if err != nil {
		return err
	}
	cli.printf("Schedule for class %s on %s:\n", classID, day)
	if len(lessons) == 0 {
		cli.println("  No lessons scheduled.")
	}
	for _, l := range lessons {
		cli.printf("  %s: %s (%s)\n", l.Time, l.Subject, l.TeacherName)
	}
	return nil
}

// printSubmissions lists subs with their assignment titles and grades.
func (cli *commandLine) printSubmissions(subs []coursework.Submission) {
	if len(subs) == 0 {
		cli.println("No submissions.")
		return
	}
	for _, sub := range subs {
		title := "?"
		if a, err := cli.school.Coursework.GetAssignment(sub.AssignmentID); err == nil {
			title = a.Title
		}
		if sub.IsGraded() {
			cli.printf("  Assignment %d (%s), student %d: grade %d, comment: %s\n",
				sub.AssignmentID, title, sub.StudentID, sub.GradeValue(), sub.Comment)
		} else {
			cli.printf("  Assignment %d (%s), student %d: not graded yet\n", sub.AssignmentID, title, sub.StudentID)
		}
	}
}

// printSubmittedWork prints each submission with its content.
func (cli *commandLine) printSubmittedWork(subs []coursework.Submission) {
	if len(subs) == 0 {
		cli.println("No submissions.")
		return
	}
	for _, sub := range subs {
		title := "?"
		if a, err := cli.school.Coursework.GetAssignment(sub.AssignmentID); err == nil {
			title = a.Title
		}
		cli.printf("  Assignment %d (%s), submitted %s: %s\n",
			sub.AssignmentID, title, sub.SubmittedAt.Format("2006-01-02 15:04"), sub.Content)
	}
}

func (cli *commandLine) printAverage(studentID int) error {
	avg, ok, err := cli.school.Coursework.AverageGrade(studentID)
	if err != nil {
		return err
	}
	if !ok {
		cli.println("Average: no graded work yet.")
		return nil
	}
	cli.printf("Average: %.2f\n", avg)
	return nil
}

func (cli *commandLine) printAssignments(assignments []coursework.Assignment) {
	if len(assignments) == 0 {
		cli.println("No assignments.")
		return
	}
	for _, a := range assignments {
		deadline := "none"
		if !a.Deadline.IsZero() {
			deadline = a.Deadline.Format("2006-01-02")
		}
		cli.printf("  %d: %s [%s] class %s, deadline %s\n", a.ID, a.Title, a.Subject, a.ClassID, deadline)
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, cast.ToString(id))
	}
	return strings.Join(parts, ", ")
}
