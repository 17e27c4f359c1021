package main

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"golang.org/x/term"

	"github.com/trezcool/eduplatform/core"
	"github.com/trezcool/eduplatform/core/school"
	"github.com/trezcool/eduplatform/core/user"
	"github.com/trezcool/eduplatform/services/export"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	decimalRE = regexp.MustCompile(`^[0-9]+$`)

	errInvalidChoice = errors.New("invalid choice")
	errLoginFailed   = errors.New("login failed")
)

type (
	commandLine struct {
		school   *school.Service
		exporter *exportsvc.Exporter
		log      core.Logger
		in       *bufio.Scanner
		out      io.Writer
		terminal bool // passwords are read without echo
	}

	menuItem struct {
		label string
		run   func(acc user.Account) error
	}
)

func newCommandLine(svc *school.Service, exporter *exportsvc.Exporter, log core.Logger, in io.Reader, out io.Writer, terminal bool) *commandLine {
	return &commandLine{
		school:   svc,
		exporter: exporter,
		log:      log,
		in:       bufio.NewScanner(in),
		out:      out,
		terminal: terminal,
	}
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) println(args ...interface{}) {
	fmt.Fprintln(cli.out, args...)
}

// prompt prints label and reads one trimmed line. It returns io.EOF once the input is exhausted.
func (cli *commandLine) prompt(label string) (string, error) {
	cli.printf("%s: ", label)
	if !cli.in.Scan() {
		if err := cli.in.Err(); err != nil {
			return "", errors.Wrap(err, "reading input")
		}
		return "", io.EOF
	}
	return strings.TrimSpace(cli.in.Text()), nil
}

func (cli *commandLine) promptInt(label string) (int, error) {
	s, err := cli.prompt(label)
	if err != nil {
		return 0, err
	}
	return parseDecimal(s)
}

// parseDecimal only accepts base 10 digits, so "010" is 10 and "0x1F" is rejected.
func parseDecimal(s string) (int, error) {
	if !decimalRE.MatchString(s) {
		return 0, errors.Errorf("invalid number %q", s)
	}
	digits := strings.TrimLeft(s, "0")
	if digits == "" {
		return 0, nil
	}
	n, err := cast.ToIntE(digits)
	if err != nil {
		return 0, errors.Errorf("invalid number %q", s)
	}
	return n, nil
}

// promptInts reads a comma separated list of numbers.
func (cli *commandLine) promptInts(label string) ([]int, error) {
	s, err := cli.prompt(label)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0)
	for _, part := range splitList(s) {
		n, err := parseDecimal(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, n)
	}
	return ids, nil
}

func (cli *commandLine) promptPassword(label string) (string, error) {
	if !cli.terminal {
		return cli.prompt(label)
	}
	cli.printf("%s: ", label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	cli.println()
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}

func splitList(s string) []string {
	parts := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// report prints err for the user. Failures outside the domain taxonomy are logged too.
func (cli *commandLine) report(acc user.Account, err error) {
	if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
		for _, fld := range vErr.Fields {
			cli.printf("error: %s: %s\n", fld.Field, fld.Error)
		}
		return
	}
	cli.printf("error: %s\n", err)
	if !core.IsNotFound(err) && !core.IsConflict(err) && !core.IsAuth(err) && errors.Cause(err) != errInvalidChoice {
		cli.log.Error("command failed", err, acc)
	}
}

func (cli *commandLine) printDirectory() {
	accounts, err := cli.school.Users.QueryAll()
	if err != nil {
		cli.log.Error("listing accounts", err)
		return
	}
	cli.println("Registered users:")
	for _, acc := range accounts {
		cli.printf("  %s - ID: %d - Role: %s\n", acc.Name, acc.ID, acc.Role)
	}
}

var loginRoles = map[string]user.Role{
	"1": user.RoleAdmin,
	"2": user.RoleTeacher,
	"3": user.RoleStudent,
	"4": user.RoleParent,
}

// run drives the main menu until the user exits or the input ends.
func (cli *commandLine) run() error {
	cli.println("Welcome to EduPlatform")
	for {
		cli.println()
		cli.printDirectory()
		cli.println("Choose your role: [1] Admin, [2] Teacher, [3] Student, [4] Parent, [5] Exit")
		choice, err := cli.prompt("Enter role number")
		if err != nil {
			return ignoreEOF(err)
		}
		if choice == "5" {
			return nil
		}
		role, ok := loginRoles[choice]
		if !ok {
			cli.println("Invalid choice.")
			continue
		}

		acc, err := cli.login(role)
		if err == errLoginFailed {
			continue
		}
		if err != nil {
			return ignoreEOF(err)
		}
		if err := cli.session(acc); err != nil {
			return ignoreEOF(err)
		}
	}
}

func ignoreEOF(err error) error {
	if err == io.EOF {
		return nil
	}
	return err
}

func (cli *commandLine) login(role user.Role) (user.Account, error) {
	id, err := cli.promptInt("ID")
	if err == io.EOF {
		return user.Account{}, err
	}
	if err != nil {
		cli.println("Invalid ID format.")
		return user.Account{}, errLoginFailed
	}
	pwd, err := cli.promptPassword("Password")
	if err != nil {
		return user.Account{}, err
	}

	acc, err := cli.school.Users.Authenticate(id, pwd)
	if err != nil || acc.Role != role {
		cli.log.Warn("failed login", map[string]interface{}{"id": id, "role": role.String()})
		cli.println("Invalid credentials or not registered.")
		return user.Account{}, errLoginFailed
	}
	cli.log.Info("login", acc)
	cli.printf("Welcome, %s!\n", acc.Name)
	return acc, nil
}

func (cli *commandLine) menu(role user.Role) []menuItem {
	switch role {
	case user.RoleAdmin:
		return cli.adminMenu()
	case user.RoleTeacher:
		return cli.teacherMenu()
	case user.RoleStudent:
		return cli.studentMenu()
	case user.RoleParent:
		return cli.parentMenu()
	}
	return nil
}

// session runs the role menu of acc until logout.
func (cli *commandLine) session(acc user.Account) error {
	items := cli.menu(acc.Role)
	for {
		options := make([]string, 0, len(items)+1)
		for i, item := range items {
			options = append(options, fmt.Sprintf("[%d] %s", i+1, item.label))
		}
		options = append(options, "[0] Logout")
		cli.println()
		cli.println(strings.Join(options, ", "))

		choice, err := cli.prompt("Choose action")
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}
		idx, err := parseDecimal(choice)
		if err != nil || idx < 1 || idx > len(items) {
			cli.println("Invalid action.")
			continue
		}

		// accounts may change during the session (profile updates, links)
		if acc, err = cli.school.Users.GetByID(acc.ID); err != nil {
			cli.println("Your account no longer exists.")
			return nil
		}
		if err := items[idx-1].run(acc); err != nil {
			if err == io.EOF {
				return err
			}
			cli.report(acc, err)
		}
	}
}

// choose prints options and returns the selected key.
func (cli *commandLine) choose(options string, keys ...string) (string, error) {
	cli.println(options)
	choice, err := cli.prompt("Choose")
	if err != nil {
		return "", err
	}
	for _, k := range keys {
		if choice == k {
			return choice, nil
		}
	}
	return "", errInvalidChoice
}

// exportAll snapshots the school and writes every export artifact. It never panics.
func (cli *commandLine) exportAll() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			cli.log.Error("export aborted", errors.Errorf("%v", r))
			cli.println("Export failed.")
			ok = false
		}
	}()

	snap, err := cli.school.Snapshot()
	if err != nil {
		cli.log.Error("taking snapshot", err)
		cli.println("Export failed.")
		return false
	}
	ok = true
	for _, r := range cli.exporter.ExportAll(snap) {
		if r.OK() {
			cli.printf("%s export succeeded: %s\n", r.Format, strings.Join(r.Paths, ", "))
		} else {
			cli.printf("%s export failed: %s\n", r.Format, r.Err)
			ok = false
		}
	}
	return ok
}

// serve runs the CLI and exports the data on exit, including after an unexpected panic.
// It returns the process exit code.
func (cli *commandLine) serve() (code int) {
	defer func() {
		if r := recover(); r != nil {
			cli.log.Error("unexpected failure, exporting data", errors.Errorf("%v", r))
			cli.exportAll()
			code = 1
		}
	}()

	err := cli.run()
	cli.println("Exporting data before exit...")
	cli.exportAll()
	if err != nil {
		cli.log.Error("input failure", err)
		return 1
	}
	cli.println("Goodbye!")
	return 0
}
