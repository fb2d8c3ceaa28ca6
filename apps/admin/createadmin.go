package main

import (
	"context"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

// createAdmin creates an active admin account, or promotes an existing
// account to admin with a fresh password.
func (cli *commandLine) createAdmin(uname, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUserByUsername(ctx, uname)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Username:  uname,
			Role:      user.RoleAdmin,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	upd := user.User{
		ID:        usr.ID,
		Role:      user.RoleAdmin,
		UpdatedAt: now,
	}
	if err = upd.SetPassword(pwd); err != nil {
		return err
	}
	active := true
	_, err = cli.usrRepo.UpdateUser(ctx, upd, &active)
	return err
}
