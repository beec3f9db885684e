package system

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/keyring"
)

type AuthCmd struct {
	Login  AuthLoginCmd  `cmd:"" help:"Store an access token in the OS keyring."`
	Logout AuthLogoutCmd `cmd:"" help:"Remove the stored access token."`
	Status AuthStatusCmd `cmd:"" help:"Show where the access token comes from." default:"1"`
}

type AuthLoginCmd struct {
	Token string `arg:"" optional:"" help:"Bearer token issued by the identity provider. Prompted for when omitted."`
}

func (c *AuthLoginCmd) Run(ctx *cli.Context) error {
	token := c.Token
	if token == "" {
		err := huh.NewInput().
			Title("Access token").
			EchoMode(huh.EchoModePassword).
			Value(&token).
			Run()
		if err != nil {
			return err
		}
	}

	if !keyring.IsAvailable() {
		return fmt.Errorf("%w; export %s instead", keyring.ErrKeyringUnavailable, constants.TokenEnvVar)
	}
	if err := keyring.SetToken(token); err != nil {
		return err
	}
	ctx.Println("Access token saved to the OS keyring.")
	return nil
}

type AuthLogoutCmd struct{}

func (c *AuthLogoutCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			ctx.Println("No access token stored.")
			return nil
		}
		return err
	}
	ctx.Println("Access token removed.")
	return nil
}

type AuthStatusCmd struct{}

func (c *AuthStatusCmd) Run(ctx *cli.Context) error {
	_, source, err := keyring.Resolve()
	switch {
	case err == nil:
		ctx.Printf("Signed in (token from %s).\n", source)
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println("Not signed in. Run 'flowday auth login' or set " + constants.TokenEnvVar + ".")
	default:
		return err
	}

	if !keyring.IsAvailable() {
		ctx.Println("Warning: the OS keyring is not available on this system.")
	}
	return nil
}
