package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/trezcool/eduplatform/core/coursework"
	"github.com/trezcool/eduplatform/core/notification"
	"github.com/trezcool/eduplatform/core/user"
)

func (cli *commandLine) teacherMenu() []menuItem {
	return []menuItem{
		{label: "Create Assignment", run: cli.createAssignment},
		{label: "Grade Assignment", run: cli.gradeAssignment},
		{label: "Message Parents", run: cli.messageParents},
		{label: "View Submissions", run: cli.viewSubmissions},
		{label: "Student Progress", run: cli.studentProgress},
		{label: "View Profile", run: cli.viewProfile},
		{label: "Update Profile", run: cli.updateProfile},
		{label: "View Schedule", run: cli.viewSchedule},
		{label: "Notifications", run: cli.notifications},
	}
}

func (cli *commandLine) createAssignment(acc user.Account) error {
	na := coursework.NewAssignment{TeacherID: acc.ID}
	var err error
	if na.Title, err = cli.prompt("Title"); err != nil {
		return err
	}
	if na.Description, err = cli.prompt("Description"); err != nil {
		return err
	}
	deadline, err := cli.prompt("Deadline (YYYY-MM-DD, optional)")
	if err != nil {
		return err
	}
	if deadline != "" {
		if na.Deadline, err = cast.ToTimeInDefaultLocationE(deadline, time.UTC); err != nil {
			return errors.Errorf("invalid deadline %q", deadline)
		}
	}
	if na.Subject, err = cli.prompt("Subject"); err != nil {
		return err
	}
	if na.ClassID, err = cli.prompt("Class ID"); err != nil {
		return err
	}

	a, err := cli.school.Coursework.CreateAssignment(na)
	if err != nil {
		return err
	}
	cli.printf("Assignment created with ID: %d\n", a.ID)
	return nil
}

func (cli *commandLine) gradeAssignment(acc user.Account) error {
	aid, err := cli.promptInt("Assignment ID")
	if err != nil {
		return err
	}
	sid, err := cli.promptInt("Student ID")
	if err != nil {
		return err
	}
	value, err := cli.promptInt("Grade (1-5)")
	if err != nil {
		return err
	}
	comment, err := cli.prompt("Comment")
	if err != nil {
		return err
	}
	notify, err := cli.choose("Send notification to the student's parents? [1] Yes, [2] No", "1", "2")
	if err != nil {
		return err
	}

	_, deliveries, err := cli.school.GradeAndNotify(acc.ID, aid, sid, value, comment, notify == "1")
	if err != nil {
		return err
	}
	cli.println("Graded successfully.")
	if notify == "1" {
		cli.printDeliveries(deliveries)
	}
	return nil
}

func (cli *commandLine) messageParents(acc user.Account) error {
	sid, err := cli.promptInt("Student ID")
	if err != nil {
		return err
	}
	msg, err := cli.prompt("Message to parents")
	if err != nil {
		return err
	}
	deliveries, err := cli.school.NotifyParents(acc.ID, sid, msg)
	if err != nil {
		return err
	}
	cli.printDeliveries(deliveries)
	return nil
}

func (cli *commandLine) printDeliveries(deliveries []notification.Delivery) {
	if len(deliveries) == 0 {
		cli.println("No parents found for this student.")
		return
	}
	for _, d := range deliveries {
		if d.OK() {
			cli.printf("Notification sent to parent %d.\n", d.RecipientID)
		} else {
			cli.printf("Failed to send to parent %d: %s\n", d.RecipientID, d.Err)
		}
	}
}

func (cli *commandLine) viewSubmissions(user.Account) error {
	aid, err := cli.promptInt("Assignment ID")
	if err != nil {
		return err
	}
	subs, err := cli.school.Coursework.AssignmentSubmissions(aid)
	if err != nil {
		return err
	}
	cli.printSubmissions(subs)
	return nil
}

func (cli *commandLine) studentProgress(user.Account) error {
	sid, err := cli.promptInt("Student ID")
	if err != nil {
		return err
	}
	student, err := cli.school.Users.GetByRoleAndID(user.RoleStudent, sid)
	if err != nil {
		return err
	}
	cli.printf("Progress of %s:\n", student.Name)
	subs, err := cli.school.Coursework.StudentSubmissions(sid)
	if err != nil {
		return err
	}
	cli.printSubmissions(subs)
	return cli.printAverage(sid)
}
