// Command storefront-grant writes a subscription for a subject and optionally mints a bearer token
// for local testing of gated routes
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"storefront/internal/adapters/identity/jwtauth"
	"storefront/internal/core/access"
	"storefront/internal/modkit"
	"storefront/internal/modkit/module"
	"storefront/internal/platform/config"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/store"

	pdom "storefront/internal/services/principal/domain"
	principalmod "storefront/internal/services/principal/module"
)

func main() {
	_ = config.LoadDotenv()
	logger.Init(logger.FromEnv())
	l := logger.Get()
	root := config.New()

	var (
		fSub    = flag.String("subject", "", "subject id (uuid)")
		fTier   = flag.String("tier", "", "tier to grant: lite | growth | partner; empty skips the write")
		fStatus = flag.String("status", string(access.StatusActive), "subscription status")
		fCust   = flag.String("customer", "", "billing customer id to link")
		fRole   = flag.String("role", "", "role to grant: user | admin | superuser; empty keeps the stored role")
		fToken  = flag.Bool("token", false, "print a bearer token for the subject (needs AUTH_JWT_SECRET)")
		fTTL    = flag.Duration("ttl", time.Hour, "token lifetime")
	)
	flag.Parse()

	if *fSub == "" {
		fmt.Fprintln(os.Stderr, "-subject is required")
		os.Exit(2)
	}

	if *fTier != "" {
		tier, ok := access.ParseTier(*fTier)
		if !ok {
			l.Fatal().Str("tier", *fTier).Msg("unknown tier")
		}
		status, ok := access.ParseStatus(*fStatus)
		if !ok {
			l.Fatal().Str("status", *fStatus).Msg("unknown status")
		}

		var role access.Role
		if *fRole != "" {
			r, ok := access.ParseRole(*fRole)
			if !ok {
				l.Fatal().Str("role", *fRole).Msg("unknown role")
			}
			role = r
		}

		ctx := context.Background()
		st, err := store.Open(ctx, store.FromConfig(root, "storefront", "grant"), store.WithLogger(*l))
		if err != nil {
			l.Panic().Err(err).Msg("store.Open failed")
		}
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()

		deps := modkit.Deps{Cfg: root, Log: *l}.FromStore(st)
		mod := principalmod.New(deps, principalmod.Options{})
		module.Register(mod.Name(), mod.Ports())
		ports := module.MustPortsOf[principalmod.Ports](mod)

		if err := ports.Writer.Apply(ctx, pdom.Subscription{
			SubjectID:  *fSub,
			Tier:       tier,
			Status:     status,
			CustomerID: *fCust,
			Role:       role,
		}); err != nil {
			l.Fatal().Err(err).Msg("grant failed")
		}
		l.Info().Str("subject", *fSub).Str("tier", string(tier)).Str("status", string(status)).Str("role", string(role)).Msg("subscription written")
	}

	if *fToken {
		v, err := jwtauth.New(jwtauth.FromConfig(root.Prefix("AUTH_")))
		if err != nil {
			l.Fatal().Err(err).Msg("jwt config")
		}
		tok, err := v.Sign(*fSub, *fTTL)
		if err != nil {
			l.Fatal().Err(err).Msg("sign failed")
		}
		fmt.Println(tok)
	}
}
