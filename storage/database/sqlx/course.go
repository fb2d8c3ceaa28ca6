package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

type courseRow struct {
	ID        int    `db:"id"`
	Name      string `db:"name"`
	DriveLink string `db:"drive_link"`
	CreatorID int    `db:"creator_id"`
}

func (row courseRow) course() course.Course {
	return course.Course{
		ID:        row.ID,
		Name:      row.Name,
		DriveLink: row.DriveLink,
		CreatorID: row.CreatorID,
	}
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	q := `
INSERT INTO course (name, drive_link, creator_id)
VALUES ($1, $2, $3)
RETURNING id`
	err := repo.db.QueryRowxContext(ctx, q, crs.Name, crs.DriveLink, crs.CreatorID).Scan(&crs.ID)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	var row courseRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM course WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course by id")
	}
	return row.course(), nil
}

func (repo courseRepository) QueryCoursesByCreator(ctx context.Context, creatorID int) ([]course.Course, error) {
	var rows []courseRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM course WHERE creator_id = $1 ORDER BY id`, creatorID)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses by creator")
	}
	courses := make([]course.Course, len(rows))
	for i, row := range rows {
		courses[i] = row.course()
	}
	return courses, nil
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM course WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.ErrNotFound
	}
	return nil
}
