package course_test

import (
	"context"
	"testing"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

func setup(t *testing.T) (*course.Service, course.Repository, user.Repository) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewCourseRepository(db)
	return course.NewService(repo), repo, dummydb.NewUserRepository(db)
}

func TestService_Create(t *testing.T) {
	svc, _, usrRepo := setup(t)
	ctx := context.Background()

	creator := testutil.CreateUser(t, usrRepo, "alice", "", user.RoleCreator, true)

	crs, err := svc.Create(ctx, course.NewCourse{
		Name:      "Piano 101",
		DriveLink: "https://drive.test/abc",
	}, creator.ID)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if crs.ID == 0 {
		t.Error("Create() did not assign an ID")
	}
	if crs.CreatorID != creator.ID {
		t.Errorf("CreatorID = %d, want %d", crs.CreatorID, creator.ID)
	}
}

func TestService_QueryByCreator(t *testing.T) {
	svc, repo, usrRepo := setup(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, usrRepo, "alice", "", user.RoleCreator, true)
	eve := testutil.CreateUser(t, usrRepo, "eve", "", user.RoleCreator, true)

	crs1 := testutil.CreateCourse(t, repo, "Piano 101", "https://drive.test/abc", alice.ID)
	testutil.CreateCourse(t, repo, "Drums 101", "https://drive.test/ghi", eve.ID)

	courses, err := svc.QueryByCreator(ctx, alice.ID)
	if err != nil {
		t.Fatalf("QueryByCreator() failed: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != crs1.ID {
		t.Errorf("QueryByCreator() = %v, want only %q", courses, crs1.Name)
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo, usrRepo := setup(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, usrRepo, "alice", "", user.RoleCreator, true)
	eve := testutil.CreateUser(t, usrRepo, "eve", "", user.RoleCreator, true)
	admin := testutil.CreateUser(t, usrRepo, "admin", "", user.RoleAdmin, true)

	crs1 := testutil.CreateCourse(t, repo, "Piano 101", "https://drive.test/abc", alice.ID)
	crs2 := testutil.CreateCourse(t, repo, "Guitar 101", "https://drive.test/def", alice.ID)

	if err := svc.Delete(ctx, 666, alice); err != course.ErrNotFound {
		t.Errorf("Delete() error = %v, want %v", err, course.ErrNotFound)
	}
	if err := svc.Delete(ctx, crs1.ID, eve); err != course.ErrNotOwner {
		t.Errorf("Delete() error = %v, want %v", err, course.ErrNotOwner)
	}

	if err := svc.Delete(ctx, crs1.ID, alice); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := repo.GetCourseByID(ctx, crs1.ID); err != course.ErrNotFound {
		t.Errorf("expected the course to be gone, got %v", err)
	}

	// admins can delete any course
	if err := svc.Delete(ctx, crs2.ID, admin); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
}
