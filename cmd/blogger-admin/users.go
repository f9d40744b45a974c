package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/target/blogger-api/internal/bootstrap"
	"github.com/target/blogger-api/internal/data"
	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/service"
)

func runListUsers(cmdCtx *commandContext, args []string) error {
	opts, err := parseListUsersFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		svc := service.NewUserService(service.UserServiceOptions{Repo: data.NewUserRepo(db), Logger: cmdCtx.Logger})
		page, listErr := svc.List(ctx, opts.Limit, opts.Offset)
		if listErr != nil {
			return listErr
		}
		return printUsers(os.Stdout, page.Items, page.Total)
	})
}

func printUsers(w io.Writer, users []*domainauth.User, total int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writeln(tw, "ID\tEMAIL\tNAME\tROLE\tCREATED"); err != nil {
		return err
	}
	for _, u := range users {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Email, u.Name, u.Role, u.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\n%d of %d account(s)\n", len(users), total)
}

func runSetRole(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetRoleFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewUserRepo(db)
		user, lookupErr := repo.GetByEmail(ctx, service.NormalizeEmail(opts.Email))
		if lookupErr != nil {
			return fmt.Errorf("lookup %s: %w", opts.Email, lookupErr)
		}

		// The CLI acts outside any session, so no account is treated as the actor.
		svc := service.NewUserService(service.UserServiceOptions{Repo: repo, Logger: cmdCtx.Logger})
		updated, updateErr := svc.UpdateRole(ctx, service.UpdateRoleInput{UserID: user.ID, Role: opts.Role})
		if updateErr != nil {
			return updateErr
		}
		return writef(os.Stdout, "%s is now %s\n", updated.Email, updated.Role)
	})
}

func runRevokeToken(cmdCtx *commandContext, args []string) error {
	opts, err := parseRevokeTokenFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	client, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{RedisConfig: cmdCtx.Config.Redis, Logger: cmdCtx.Logger})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	authCfg := cmdCtx.Config.Auth
	authCfg.TokenRevocation = true
	bundle, err := bootstrap.BuildAuthServices(bootstrap.AuthConfig{
		Auth:        authCfg,
		RedisClient: client,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	if err := bundle.Tokens.Revoke(ctx, opts.Token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return writeln(os.Stdout, "token revoked")
}
