package html

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kendraSO/site/api"
	"github.com/kendraSO/site/core/analytics"
	"github.com/kendraSO/site/core/module"
	"github.com/kendraSO/site/core/session"
)

func init() {
	api.RegisterRoute(RegisterStatusPage)
}

type statusPage struct {
	App      string
	Location string
	Modules  []module.Info
	Views    int
	Visit    analytics.Visit
}

// RegisterStatusPage mounts GET /status, an HTML listing of the registered
// modules. Session and analytics are used when the application has them;
// ?reset restarts the session view count.
func RegisterStatusPage(e *echo.Echo, host module.Host) {
	t, err := NewTemplate()
	if err != nil {
		host.Logger().Error("status page disabled", "err", err)
		return
	}
	e.Renderer = t
	e.GET("/status", func(c echo.Context) error {
		w, r := c.Response(), c.Request()
		page := statusPage{
			App:      host.ID(),
			Location: host.Location().String(),
			Modules:  host.Registered(),
		}
		if a, err := module.Lookup[*analytics.Module](host, module.CapAnalytics); err == nil {
			page.Visit = a.Visit(w, r)
		}
		if s, err := module.Lookup[*session.Module](host, module.CapSession); err == nil {
			views, err := countView(c, s)
			if err != nil {
				return err
			}
			page.Views = views
		}
		return c.Render(http.StatusOK, "status.html", page)
	})
}

func countView(c echo.Context, s *session.Module) (int, error) {
	ctx := c.Request().Context()
	sess, err := s.Load(ctx, c.Request())
	if err != nil {
		return 0, err
	}
	if c.QueryParams().Has("reset") {
		sess.Forget("views")
	}
	var views int
	if _, err := sess.Value("views", &views); err != nil {
		return 0, err
	}
	views++
	if err := sess.Put("views", views); err != nil {
		return 0, err
	}
	return views, s.Save(ctx, c.Response(), sess)
}
