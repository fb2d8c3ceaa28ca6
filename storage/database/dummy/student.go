package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	st.ID = repo.db.seq
	repo.db.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id int) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.table[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudentsByCreator(ctx context.Context, creatorID int) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0)
	for _, st := range repo.db.table {
		if st.CreatorID == creatorID {
			students = append(students, *st)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *studentRepository) UpdateStudentStatus(ctx context.Context, id int, status string) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	st, ok := repo.db.table[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	st.Status = status
	return *st, nil
}
