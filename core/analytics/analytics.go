// Package analytics provides the analytics capability: tracker settings read
// from ANALYTICS_* and the per-visitor opt-out rules.
package analytics

import (
	"context"
	"net/http"
	"time"

	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/cookie"
	"github.com/kendraSO/site/core/module"
)

// Cookie and query parameter names of the opt-out flow.
const (
	OptOut = "AnalyticsOptOut"
	OptIn  = "AnalyticsOptIn"
)

// optOutAge is long enough to never expire in practice.
const optOutAge = 10 * 365 * 24 * time.Hour

// Settings are decoded from the ANALYTICS_ section of the configuration.
type Settings struct {
	Enabled                 bool   `mapstructure:"enabled"`
	GoogleAccount           string `mapstructure:"google_account"`
	EnhancedLinkAttribution bool   `mapstructure:"google_enhanced_link_attribution"`
	DisplayAdvertising      bool   `mapstructure:"google_display_advertising"`
	FacebookPixelID         string `mapstructure:"facebook_pixel_id"`
	BingUETID               string `mapstructure:"bing_uet_id"`
	TwitterTrackPixelID     string `mapstructure:"twitter_track_pixel_id"`
	TwitterPurchasePixelID  string `mapstructure:"twitter_purchase_pixel_id"`
	PardotAccountID         string `mapstructure:"pardot_account_id"`
	PardotCampaignID        string `mapstructure:"pardot_campaign_id"`
	VWOAccountID            string `mapstructure:"vwo_account_id"`
	HotjarAccountID         string `mapstructure:"hotjar_account_id"`
}

// Module provides the analytics capability.
type Module struct {
	host     module.Host
	settings Settings
}

// New returns the analytics module.
func New(host module.Host) *Module {
	return &Module{host: host}
}

func (m *Module) Provides() []module.Capability { return []module.Capability{module.CapAnalytics} }
func (m *Module) Depends() []module.Capability  { return []module.Capability{module.CapConfig} }

func (m *Module) Init(_ context.Context) error {
	cfgModule, err := module.Lookup[*config.Module](m.host, module.CapConfig)
	if err != nil {
		return err
	}
	settings := Settings{Enabled: true}
	if err := cfgModule.Section("ANALYTICS_", &settings); err != nil {
		return err
	}
	m.settings = settings
	m.host.Logger().Debug("analytics configured", "enabled", settings.Enabled, "trackers", settings.trackers())
	return nil
}

// Settings returns the decoded settings.
func (m *Module) Settings() Settings {
	return m.settings
}

func (s Settings) trackers() int {
	n := 0
	for _, id := range []string{
		s.GoogleAccount, s.FacebookPixelID, s.BingUETID, s.TwitterTrackPixelID,
		s.TwitterPurchasePixelID, s.PardotAccountID, s.VWOAccountID, s.HotjarAccountID,
	} {
		if id != "" {
			n++
		}
	}
	return n
}

// Visit is the analytics state of one request.
type Visit struct {
	Settings
	OptedOut bool
}

func (v Visit) active(id string) bool {
	return id != "" && v.Enabled && !v.OptedOut
}

func (v Visit) HasGoogleAnalytics() bool { return v.active(v.GoogleAccount) }
func (v Visit) HasFacebookPixel() bool   { return v.active(v.FacebookPixelID) }
func (v Visit) HasBingUET() bool         { return v.active(v.BingUETID) }
func (v Visit) HasVWO() bool             { return v.active(v.VWOAccountID) }
func (v Visit) HasHotjar() bool          { return v.active(v.HotjarAccountID) }

func (v Visit) HasTwitterPixel() bool {
	return v.active(v.TwitterTrackPixelID) || v.active(v.TwitterPurchasePixelID)
}

func (v Visit) HasPardot() bool {
	return v.active(v.PardotAccountID) && v.PardotCampaignID != ""
}

// HasAnalytics reports whether any tracker is active for the visit.
func (v Visit) HasAnalytics() bool {
	return v.HasGoogleAnalytics() || v.HasFacebookPixel() || v.HasTwitterPixel() ||
		v.HasBingUET() || v.HasPardot() || v.HasVWO() || v.HasHotjar()
}

func (m *Module) cookies() *cookie.Module {
	if !m.host.HasCapability(module.CapCookie) {
		return nil
	}
	c, err := module.Lookup[*cookie.Module](m.host, module.CapCookie)
	if err != nil {
		return nil
	}
	return c
}

// optedOut applies the opt-out rules: a stored opt-out cookie, cleared by an
// AnalyticsOptIn query parameter, and an AnalyticsOptOut parameter that wins
// over both.
func (m *Module) optedOut(r *http.Request) (out, optIn, optOut bool) {
	query := r.URL.Query()
	optIn = query.Has(OptIn)
	optOut = query.Has(OptOut)

	if c := m.cookies(); c != nil {
		if _, err := c.Get(r, OptOut); err == nil {
			out = true
		}
	}
	if optIn {
		out = false
	}
	if optOut {
		out = true
	}
	return out, optIn, optOut
}

// Enabled reports whether tracking is allowed for r without changing any
// cookie.
func (m *Module) Enabled(r *http.Request) bool {
	out, _, _ := m.optedOut(r)
	return m.settings.Enabled && !out
}

// Visit evaluates r and persists an opt-in or opt-out request in the
// AnalyticsOptOut cookie. Without a cookie module the request still applies
// but nothing is stored.
func (m *Module) Visit(w http.ResponseWriter, r *http.Request) Visit {
	out, optIn, optOut := m.optedOut(r)
	if optIn || optOut {
		if c := m.cookies(); c == nil {
			m.host.Logger().Warn("analytics opt-out change without a cookie module", "path", r.URL.Path)
		} else if optOut {
			c.Set(w, OptOut, "1", optOutAge)
		} else {
			c.Delete(w, OptOut)
		}
	}
	return Visit{Settings: m.settings, OptedOut: out}
}
