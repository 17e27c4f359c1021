package inmemdb

import (
	"sort"

	"github.com/trezcool/eduplatform/core/schedule"
)

type scheduleRepository struct {
	db *scheduleTable
}

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db.schedule}
}

func (repo *scheduleRepository) CreateSchedule(s schedule.Schedule) (schedule.Schedule, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := scheduleKey{classID: s.ClassID, day: s.Day}
	if _, ok := repo.db.table[key]; ok {
		return schedule.Schedule{}, schedule.ErrAlreadyExists
	}
	repo.db.pkCount++
	s.ID = repo.db.pkCount
	stored := s.Clone()
	repo.db.table[key] = &stored
	return s, nil
}

func (repo *scheduleRepository) GetSchedule(classID, day string) (schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[scheduleKey{classID: classID, day: day}]; ok {
		return s.Clone(), nil
	}
	return schedule.Schedule{}, schedule.ErrScheduleNotFound
}

func (repo *scheduleRepository) QueryAllSchedules() ([]schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]schedule.Schedule, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		res = append(res, s.Clone())
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].ClassID != res[j].ClassID {
			return res[i].ClassID < res[j].ClassID
		}
		return res[i].Day < res[j].Day
	})
	return res, nil
}

func (repo *scheduleRepository) AddLesson(classID, day string, lesson schedule.Lesson) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	s, ok := repo.db.table[scheduleKey{classID: classID, day: day}]
	if !ok {
		return schedule.ErrScheduleNotFound
	}
	if _, ok := s.Lessons[lesson.Time]; ok {
		return schedule.ErrSlotOccupied
	}
	s.Lessons[lesson.Time] = lesson
	return nil
}

func (repo *scheduleRepository) RemoveLesson(classID, day, time string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	s, ok := repo.db.table[scheduleKey{classID: classID, day: day}]
	if !ok {
		return schedule.ErrScheduleNotFound
	}
	if _, ok := s.Lessons[time]; !ok {
		return schedule.ErrNoSuchLesson
	}
	delete(s.Lessons, time)
	return nil
}
