package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID         int       `db:"id"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	Phone      string    `db:"phone"`
	CourseID   null.Int  `db:"course_id"`
	CreatorID  int       `db:"creator_id"`
	Status     string    `db:"status"`
	EnrolledAt time.Time `db:"enrolled_at"`
}

func (row studentRow) student() student.Student {
	return student.Student{
		ID:         row.ID,
		Name:       row.Name,
		Email:      row.Email,
		Phone:      row.Phone,
		CourseID:   row.CourseID.Ptr(),
		CreatorID:  row.CreatorID,
		Status:     row.Status,
		EnrolledAt: row.EnrolledAt,
	}
}

func (repo studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	q := `
INSERT INTO student (name, email, phone, course_id, creator_id, status, enrolled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	err := repo.db.QueryRowxContext(
		ctx, q,
		st.Name, st.Email, st.Phone, null.IntFromPtr(st.CourseID), st.CreatorID, st.Status, st.EnrolledAt,
	).Scan(&st.ID)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id int) (student.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student by id")
	}
	return row.student(), nil
}

func (repo studentRepository) QueryStudentsByCreator(ctx context.Context, creatorID int) ([]student.Student, error) {
	var rows []studentRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student WHERE creator_id = $1 ORDER BY id`, creatorID)
	if err != nil {
		return nil, errors.Wrap(err, "querying students by creator")
	}
	students := make([]student.Student, len(rows))
	for i, row := range rows {
		students[i] = row.student()
	}
	return students, nil
}

func (repo studentRepository) UpdateStudentStatus(ctx context.Context, id int, status string) (student.Student, error) {
	var row studentRow
	err := repo.db.QueryRowxContext(ctx, `UPDATE student SET status = $1 WHERE id = $2 RETURNING *`, status, id).StructScan(&row)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "updating student status")
	}
	return row.student(), nil
}
