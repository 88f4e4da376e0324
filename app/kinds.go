package app

import (
	"github.com/kendraSO/site/api"
	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/analytics"
	"github.com/kendraSO/site/core/cache"
	"github.com/kendraSO/site/core/cookie"
	"github.com/kendraSO/site/core/db"
	"github.com/kendraSO/site/core/module"
	"github.com/kendraSO/site/core/search"
	"github.com/kendraSO/site/core/session"
	"github.com/kendraSO/site/cron"
	"github.com/kendraSO/site/graphql"
)

// Kind is a type of application and its default module list. Order in the
// list only matters between modules that do not depend on each other.
type Kind struct {
	Name    string
	Modules func() []module.Descriptor
}

// Web serves HTTP and GraphQL.
var Web = Kind{
	Name: "web",
	Modules: func() []module.Descriptor {
		return []module.Descriptor{
			module.Bind("config", config.New),
			module.Bind("database", db.New),
			module.Bind("schema", db.NewMigrations),
			module.Bind("status", db.NewStatus),
			module.Bind("cache", cache.NewModule),
			module.Bind("cookie", cookie.New),
			module.Bind("session", session.New),
			module.Bind("analytics", analytics.New),
			module.Bind("search", search.New),
			module.Bind("http", api.NewModule),
			module.Bind("graphql", graphql.New),
		}
	},
}

// Worker runs scheduled jobs.
var Worker = Kind{
	Name: "worker",
	Modules: func() []module.Descriptor {
		return []module.Descriptor{
			module.Bind("config", config.New),
			module.Bind("database", db.New),
			module.Bind("cache", cache.NewModule),
			module.Bind("cron", cron.NewModule),
		}
	},
}

// Console only loads configuration.
var Console = Kind{
	Name: "console",
	Modules: func() []module.Descriptor {
		return []module.Descriptor{
			module.Bind("config", config.New),
		}
	},
}

// Kinds lists the known kinds by name.
var Kinds = map[string]Kind{
	Web.Name:     Web,
	Worker.Name:  Worker,
	Console.Name: Console,
}
