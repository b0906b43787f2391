package cli

import (
	"context"
	"errors"
)

var errPasswordMismatch = errors.New("passwords do not match")

func (a *App) signIn(ctx context.Context) error {
	email, err := a.readLine("Email")
	if err != nil {
		return err
	}
	password, err := a.readPassword("Password")
	if err != nil {
		return err
	}
	return a.Gate.SignIn(ctx, email, password)
}

func (a *App) signUp(ctx context.Context) error {
	email, err := a.readLine("Email")
	if err != nil {
		return err
	}
	password, err := a.readPassword("Password")
	if err != nil {
		return err
	}
	confirm, err := a.readPassword("Confirm password")
	if err != nil {
		return err
	}
	if password != confirm {
		return errPasswordMismatch
	}
	return a.Gate.SignUp(ctx, email, password)
}

// signOut はサーバーでの失効に失敗してもローカルの状態を破棄します。
func (a *App) signOut(ctx context.Context) error {
	return a.Gate.SignOut(ctx)
}
