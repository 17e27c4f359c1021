package inmemdb

import (
	"sync"

	"github.com/trezcool/eduplatform/core/coursework"
	"github.com/trezcool/eduplatform/core/notification"
	"github.com/trezcool/eduplatform/core/schedule"
	"github.com/trezcool/eduplatform/core/user"
)

type (
	// DB is the process-lifetime arena holding every table.
	// Tables reference each other by ID only.
	DB struct {
		user         *userTable
		coursework   *courseworkTable
		schedule     *scheduleTable
		notification *mailboxTable
	}

	userTable struct {
		sync.RWMutex
		table          map[int]*user.Account
		parentsByChild map[int]map[int]struct{} // {studentID: {parentID}}
		pkCount        int
	}

	submissionKey struct {
		assignmentID int
		studentID    int
	}

	courseworkTable struct {
		sync.RWMutex
		assignments  map[int]*coursework.Assignment
		submissions  map[submissionKey]*coursework.Submission
		byStudent    map[int][]int // {studentID: [assignmentID]}
		byAssignment map[int][]int // {assignmentID: [studentID]}
		pkCount      int
	}

	scheduleKey struct {
		classID string
		day     string
	}

	scheduleTable struct {
		sync.RWMutex
		table   map[scheduleKey]*schedule.Schedule
		pkCount int
	}

	mailbox struct {
		notifications []notification.Notification
		seq           int
	}

	mailboxTable struct {
		sync.RWMutex
		table map[int]*mailbox // {recipientID: mailbox}
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{
			table:          make(map[int]*user.Account),
			parentsByChild: make(map[int]map[int]struct{}),
		},
		coursework: &courseworkTable{
			assignments:  make(map[int]*coursework.Assignment),
			submissions:  make(map[submissionKey]*coursework.Submission),
			byStudent:    make(map[int][]int),
			byAssignment: make(map[int][]int),
		},
		schedule:     &scheduleTable{table: make(map[scheduleKey]*schedule.Schedule)},
		notification: &mailboxTable{table: make(map[int]*mailbox)},
	}
	return db, nil
}
