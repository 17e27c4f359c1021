package main

import (
	"github.com/trezcool/eduplatform/core/user"
)

func (cli *commandLine) adminMenu() []menuItem {
	return []menuItem{
		{label: "Add User", run: cli.addUser},
		{label: "Remove User", run: cli.removeUser},
		{label: "View Profile", run: cli.viewProfile},
		{label: "Update Profile", run: cli.updateProfile},
		{label: "Link Parent-Child", run: cli.linkParentChild},
		{label: "Manage Schedules", run: cli.manageSchedules},
		{label: "Send Notification", run: cli.sendNotification},
		{label: "Notifications", run: cli.notifications},
		{label: "Export Data", run: func(user.Account) error {
			cli.exportAll()
			return nil
		}},
	}
}

var newUserRoles = map[string]user.Role{
	"1": user.RoleStudent,
	"2": user.RoleTeacher,
	"3": user.RoleParent,
	"4": user.RoleAdmin,
}

func (cli *commandLine) addUser(acc user.Account) error {
	var nu user.NewUser
	var err error
	if nu.Name, err = cli.prompt("Full Name"); err != nil {
		return err
	}
	if nu.Email, err = cli.prompt("Email"); err != nil {
		return err
	}
	if nu.Password, err = cli.promptPassword("Password"); err != nil {
		return err
	}
	choice, err := cli.choose("User type: [1] Student, [2] Teacher, [3] Parent, [4] Admin", "1", "2", "3", "4")
	if err != nil {
		return err
	}
	nu.Role = newUserRoles[choice]

	switch nu.Role {
	case user.RoleStudent:
		if nu.Level, err = cli.prompt("Grade"); err != nil {
			return err
		}
	case user.RoleTeacher:
		subjects, err := cli.prompt("Subjects (comma separated)")
		if err != nil {
			return err
		}
		nu.Subjects = splitList(subjects)
	}

	usr, err := cli.school.Users.Register(nu)
	if err != nil {
		return err
	}
	cli.log.Info("user added", acc, map[string]interface{}{"id": usr.ID, "role": usr.Role.String()})
	cli.printf("User added with ID: %d\n", usr.ID)
	return nil
}

func (cli *commandLine) removeUser(acc user.Account) error {
	id, err := cli.promptInt("User ID to remove")
	if err != nil {
		return err
	}
	if id == acc.ID {
		cli.println("You cannot remove yourself.")
		return nil
	}
	if err := cli.school.RemoveAccount(id); err != nil {
		return err
	}
	cli.log.Info("user removed", acc, map[string]interface{}{"id": id})
	cli.println("User removed.")
	return nil
}

func (cli *commandLine) linkParentChild(user.Account) error {
	parentID, err := cli.promptInt("Parent ID")
	if err != nil {
		return err
	}
	studentID, err := cli.promptInt("Student ID")
	if err != nil {
		return err
	}
	if _, err := cli.school.Users.LinkParentChild(parentID, studentID); err != nil {
		return err
	}
	cli.printf("Student %d linked to parent %d.\n", studentID, parentID)
	return nil
}

func (cli *commandLine) manageSchedules(user.Account) error {
	choice, err := cli.choose("[1] Create schedule, [2] Add lesson, [3] Remove lesson, [4] View schedule, [5] List schedules",
		"1", "2", "3", "4", "5")
	if err != nil {
		return err
	}
	if choice == "5" {
		return cli.listSchedules()
	}
	if choice == "4" {
		return cli.viewSchedule(user.Account{})
	}

	classID, day, err := cli.promptClassDay()
	if err != nil {
		return err
	}
	switch choice {
	case "1":
		if _, err := cli.school.Schedules.CreateSchedule(classID, day); err != nil {
			return err
		}
		cli.printf("Schedule created for class %s on %s.\n", classID, day)
	case "2":
		if _, err := cli.school.Schedules.GetSchedule(classID, day); err != nil {
			return err
		}
		tm, err := cli.prompt("Time (e.g. 09:00-10:00)")
		if err != nil {
			return err
		}
		subject, err := cli.prompt("Subject")
		if err != nil {
			return err
		}
		teacherID, err := cli.promptInt("Teacher ID")
		if err != nil {
			return err
		}
		if _, err := cli.school.Schedules.AddLesson(classID, day, tm, subject, teacherID); err != nil {
			return err
		}
		cli.printf("Lesson added at %s.\n", tm)
	case "3":
		tm, err := cli.prompt("Time to remove")
		if err != nil {
			return err
		}
		if err := cli.school.Schedules.RemoveLesson(classID, day, tm); err != nil {
			return err
		}
		cli.printf("Lesson at %s removed.\n", tm)
	}
	return nil
}

func (cli *commandLine) listSchedules() error {
	schedules, err := cli.school.Schedules.QueryAll()
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		cli.println("No schedules.")
		return nil
	}
	for _, s := range schedules {
		cli.printf("  %s on %s: %d lesson(s)\n", s.ClassID, s.Day, len(s.Lessons))
	}
	return nil
}

func (cli *commandLine) sendNotification(acc user.Account) error {
	ids, err := cli.promptInts("Recipient IDs (comma separated)")
	if err != nil {
		return err
	}
	msg, err := cli.prompt("Message")
	if err != nil {
		return err
	}
	for _, d := range cli.school.Mailbox.SendMany(acc.ID, ids, msg) {
		if d.OK() {
			cli.printf("Notification %d sent to %d.\n", d.NotificationID, d.RecipientID)
		} else {
			cli.printf("Failed to send to %d: %s\n", d.RecipientID, d.Err)
		}
	}
	return nil
}
