package main

import (
	"context"
	"flag"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mediacloud/sous-chef-kitchen/pkg/buildtime"
	kck "github.com/mediacloud/sous-chef-kitchen/pkg/configs/kitchen"
	"github.com/mediacloud/sous-chef-kitchen/pkg/domain/order"
	orderpg "github.com/mediacloud/sous-chef-kitchen/pkg/domain/order/db/postgres"
	"github.com/mediacloud/sous-chef-kitchen/pkg/echoutil"
	"github.com/mediacloud/sous-chef-kitchen/pkg/kitchen"
	"github.com/mediacloud/sous-chef-kitchen/pkg/kitchen/session"
	"github.com/mediacloud/sous-chef-kitchen/pkg/mediacloud"
	"github.com/mediacloud/sous-chef-kitchen/pkg/prefect"
	"github.com/mediacloud/sous-chef-kitchen/pkg/recipe"

	"github.com/mediacloud/sous-chef-kitchen/cmd/kitchend/handlers"
)

func main() {

	configPath := flag.String("config-path", "", "kitchen config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	log.Printf("sous-chef-kitchen %s", buildtime.VersionString())

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	conf, err := kck.LoadKitchenConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configuration: %s", err)
	}

	ctx := context.Background()

	recipes, err := recipe.LoadRegistry(conf.RecipeDir)
	if err != nil {
		log.Fatalf("can not load recipes from %s: %s", conf.RecipeDir, err)
	}
	go func() {
		if err := recipes.Watch(ctx, log.Default()); err != nil {
			log.Printf("recipe dir is no longer watched: %s", err)
		}
	}()

	engine, err := prefect.NewClient(conf.PrefectAPIRoot, prefect.WithAPIKey(conf.PrefectAPIKey))
	if err != nil {
		log.Fatalf("can not reach the workflow engine at %s: %s", conf.PrefectAPIRoot, err)
	}
	chef := kitchen.New(engine, recipes, conf.Deployment, conf.WorkPool, conf.MaxUserFlows)

	upstream, err := mediacloud.NewClient(conf.MediaCloudAPIRoot)
	if err != nil {
		log.Fatalf("media cloud api root %s is invalid: %s", conf.MediaCloudAPIRoot, err)
	}
	validator := kitchen.NewValidator(upstream)
	sessions, err := session.NewIssuer([]byte(conf.SessionKey), conf.SessionTTL)
	if err != nil {
		log.Fatalf("can not set up sessions: %s", err)
	}

	// The order journal is optional: without a database the kitchen
	// still cooks, it just forgets who ordered what.
	var journal order.Interface
	if conf.DBURI != "" {
		j, closeJournal, err := orderpg.New(ctx, conf.DBURI)
		if err != nil {
			log.Fatalf("can not open order journal: %s", err)
		}
		defer closeJournal()
		journal = j
	} else {
		log.Println("no dbURI configured. orders are not journaled.")
	}

	api, err := root("/api")
	if err != nil {
		log.Fatalf("api root /api is invalid url or path: %s", err)
	}

	e.GET("/", handlers.HelloHandler())
	e.GET(api("system/status"), handlers.SystemStatusHandler(chef))

	identified := e.Group("", handlers.AuthMiddleware(validator, sessions))
	identified.GET(api("auth/validate"), handlers.ValidateAuthHandler())

	authed := identified.Group("", handlers.RequireAuthorized())
	{
		authed.POST(api("auth/session"), handlers.CreateSessionHandler(sessions))
	}
	{
		authed.GET(api("recipes"), handlers.RecipeListHandler(chef))
		authed.GET(api("recipes/:name/schema"), handlers.RecipeSchemaHandler(chef))
		authed.POST(api("recipes/:name/order"), handlers.RecipeOrderHandler(chef, journal))
	}
	{
		authed.GET(api("runs"), handlers.FindRunsHandler(chef))
		authed.GET(api("runs/:runId"), handlers.GetRunHandler(chef))
		authed.GET(api("runs/:runId/artifacts"), handlers.RunArtifactsHandler(chef))
		authed.POST(api("runs/:runId/cancel"), handlers.CancelRunHandler(chef))
		authed.POST(api("runs/:runId/pause"), handlers.PauseRunHandler(chef))
		authed.POST(api("runs/:runId/resume"), handlers.ResumeRunHandler(chef))
	}
	{
		authed.GET(api("orders"), handlers.FindOrdersHandler(journal))
	}

	log.Println("registered routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(":"+conf.ServerPort, cert, key))
	} else {
		e.Logger.Fatal(e.Start(":" + conf.ServerPort))
	}
}

// create api URL factory
//
// it receives relative path from root, and returns full-path of URL,
// "/" terminated (AddTrailingSlash is in force).
func root(r string) (func(...string) string, error) {
	base := ""
	{
		b, err := url.Parse(r)
		if err != nil {
			return nil, err
		}
		base = b.Path
	}

	return func(s ...string) string {
		parts := make([]string, len(s)+1)
		parts[0] = base
		copy(parts[1:], s)
		p := path.Join(parts...)
		if !strings.HasSuffix(p, "/") {
			p += "/"
		}
		return p
	}, nil
}
