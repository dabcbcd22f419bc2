// Package api provides the HTTP API for the application
package api

import (
	"errors"

	"storefront/internal/adapters/identity/jwtauth"
	"storefront/internal/core/access"
	"storefront/internal/platform/config"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	phttp "storefront/internal/platform/net/http"
	"storefront/internal/platform/net/csrf"
	"storefront/internal/platform/net/middleware"
	"storefront/internal/platform/net/origin"
	"storefront/internal/platform/store"
	"storefront/internal/services/audit"

	"storefront/internal/modkit"
	"storefront/internal/modkit/httpkit"
	"storefront/internal/modkit/module"
	"storefront/internal/modkit/swaggerkit"

	accessmod "storefront/internal/services/api/access/module"
	contactmod "storefront/internal/services/api/contact/module"
	csrfmod "storefront/internal/services/api/csrf/module"
	metamod "storefront/internal/services/api/meta/module"
	webhooksmod "storefront/internal/services/api/webhooks/module"

	// Principal store module (owns the Lookup and Writer ports)
	principalmod "storefront/internal/services/principal/module"
)

// Options are the API options
type Options struct {
	// Config is the root view; each component reads its own prefix
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Audit          audit.Recorder
	EnableSwagger  bool
	EnableProfiler bool
}

// webhookExclude skips the forgery guard for endpoints that verify provider signatures
var webhookExclude = []string{"/api/v1/webhooks/**"}

// enhancedPaths run the enhanced guard at route level instead of the standard one
var enhancedPaths = []string{"/api/v1/contact/leads/**"}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) error {
	if opt.Store == nil || opt.Store.PG == nil {
		return errors.New("api: postgres is required for principal lookups")
	}
	log := opt.Logger
	if log == nil {
		log = logger.Get()
	}
	rec := opt.Audit
	if rec == nil {
		rec = audit.Nop{}
	}

	root := opt.Config
	apiCfg := root.Prefix("CORE_API_")
	csrfCfg := root.Prefix("CSRF_")
	authCfg := root.Prefix("AUTH_")
	dev := apiCfg.MayBool("DEV", false)

	// shared deps for modules
	deps := modkit.Deps{Log: *log, Cfg: root}.FromStore(opt.Store)
	deny := denials{rec: rec}

	// forgery guards
	manager, err := csrf.New(csrf.FromConfig(csrfCfg, dev))
	if err != nil {
		return err
	}
	origins := origin.Default(apiCfg.MayString("PUBLIC_URL", ""), dev, csrfCfg.MayCSV("ALLOWED_ORIGINS", nil)...)

	// route table
	rules, err := access.NewRuleSet(access.DefaultRules(),
		access.WithPaywall(root.Prefix("ACCESS_").MayString("PAYWALL_PATH", access.DefaultPaywall)))
	if err != nil {
		return err
	}

	// Construct the principal module first and extract its ports
	principals := principalmod.New(deps, principalmod.Options{})
	pports := module.MustPortsOf[principalmod.Ports](principals)

	verifier, err := newVerifier(authCfg, log)
	if err != nil {
		return err
	}
	deps.Auth = httpkit.NewPort(verifier, pports.Lookup,
		httpkit.WithSessionCookie(authCfg.MayString("SESSION_COOKIE", "")),
		httpkit.WithPaywall(rules.Paywall()),
		httpkit.WithDenyHook(deny.auth),
	)

	mods := []module.Module{
		metamod.New(deps),
		csrfmod.New(deps, manager),
		contactmod.New(deps, contactmod.Options{
			AdminGuard: middleware.ProtectEnhanced(manager, origins, middleware.ProtectOptions{Dev: dev, OnDeny: deny.guard}),
		}),
		accessmod.New(deps, rules),
		principals, // include so its ports are registered
		webhooksmod.New(deps, modkit.WithPorts(webhooksmod.Ports{
			Subscriptions: pports.Writer,
		})),
	}

	exclude := append(csrfCfg.MayCSV("EXCLUDE", webhookExclude), enhancedPaths...)
	stack := append(httpkit.CommonStack(),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins:   origins.Allowed(),
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.Protect(manager, middleware.ProtectOptions{Dev: dev, Exclude: exclude, OnDeny: deny.guard}),
	)

	// Swagger, profiler and metrics
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	r.Handle("/metrics", metrics.Handler())

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	// gated pages
	mountPages(r, deps.Auth, rules, apiCfg.MayString("STATIC_DIR", ""), deny.route)

	if dev {
		log.Warn().Msg("dev mode: forgery guards are off and the csrf cookie is not Secure")
	}
	log.Info().
		Strs("origins", origins.Allowed()).
		Strs("csrf_exclude", exclude).
		Bool("redis", deps.Redis != nil).
		Bool("clickhouse", deps.CH != nil).
		Msg("api mounted")
	return nil
}

// newVerifier builds the JWT verifier; without a secret every bearer token is rejected
func newVerifier(cfg config.Conf, log *logger.Logger) (httpkit.IdentityVerifier, error) {
	jc := jwtauth.FromConfig(cfg)
	if jc.Secret == "" {
		log.Warn().Msg("AUTH_JWT_SECRET unset; authenticated routes will reject every token")
		return nil, nil
	}
	v, err := jwtauth.New(jc)
	if err != nil {
		return nil, err
	}
	return v, nil
}
