package config

import "github.com/leapstack-labs/docsite/internal/ui/features/common"

// Settings converts the configuration into what the page layout renders.
func (c *Config) Settings() common.Settings {
	t := c.Theme
	return common.Settings{
		Theme: common.Theme{
			LogoText:        t.LogoText,
			LogoSrc:         t.LogoSrc,
			ProjectLink:     t.ProjectLink,
			DarkMode:        t.DarkMode,
			HueLight:        t.Hue.Light,
			HueDark:         t.Hue.Dark,
			SaturationLight: t.Saturation.Light,
			SaturationDark:  t.Saturation.Dark,
			Banner: common.Banner{
				Key:         t.Banner.Key,
				Text:        t.Banner.Text,
				LinkText:    t.Banner.LinkText,
				Href:        t.Banner.Href,
				Dismissible: t.Banner.Dismissible,
			},
			DocsRepositoryBase: t.DocsRepositoryBase,
			TOCBackToTop:       t.TOCBackToTop,
		},
		Analytics: common.Analytics{
			Production:   c.IsProduction(),
			GTMID:        c.Analytics.GTMID,
			TwitterPixel: c.Analytics.TwitterPixel,
		},
		Search: common.Search{
			Enabled: c.Search.Enabled,
			Label:   c.Search.Label,
		},
		Dev: c.Environment == DefaultEnv,
	}
}
