package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qadatrack/qada/internal/constants"
	"github.com/qadatrack/qada/internal/models"
	"github.com/qadatrack/qada/internal/prayer"
)

type PrayerCmd struct {
	City    string  `help:"City to look up timings for."`
	Country string  `help:"Country for the city lookup."`
	Lat     float64 `help:"Latitude for a coordinate lookup."`
	Lon     float64 `help:"Longitude for a coordinate lookup."`
	Method  int     `help:"Calculation method id (see --list-methods)." default:"0"`

	ListMethods bool `help:"Print the known calculation methods and exit."`
}

func (c *PrayerCmd) Run(ctx *Context) error {
	if c.ListMethods {
		fmt.Printf("%-4s %s\n", "ID", "Method")
		for _, m := range prayer.Methods {
			fmt.Printf("%-4d %s\n", m.ID, m.Name)
		}
		return nil
	}

	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	settings := a.Settings()
	city, country := c.City, c.Country
	if city == "" && country == "" && c.Lat == 0 && c.Lon == 0 {
		city, country = settings.PrayerCity, settings.PrayerCountry
	}

	method := c.Method
	if method == 0 {
		method = settings.PrayerMethod
	}
	if method == 0 {
		method = constants.DefaultPrayerMethod
	}

	runCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var timings prayer.Timings
	switch {
	case city != "" && country != "":
		timings, err = a.Prayer.ByCity(runCtx, a.Clock.Now(), city, country, method)
	case c.Lat != 0 || c.Lon != 0:
		timings, err = a.Prayer.ByCoordinates(runCtx, a.Clock.Now(), c.Lat, c.Lon, method)
	default:
		return fmt.Errorf("no location: pass --city and --country (or --lat/--lon), or set one first")
	}
	if err != nil {
		switch {
		case errors.Is(err, prayer.ErrLocationNotFound):
			return fmt.Errorf("location not found: %s, %s", city, country)
		case errors.Is(err, prayer.ErrService):
			return fmt.Errorf("prayer time service unavailable: %w", err)
		default:
			return err
		}
	}

	// A successful city lookup becomes the remembered location.
	if city != "" && country != "" {
		a.UpdateSettings(func(s *models.Settings) {
			s.PrayerCity = city
			s.PrayerCountry = country
			s.PrayerMethod = method
		})
	}

	fmt.Printf("Prayer times for %s (%s):\n", locationLabel(city, country, c.Lat, c.Lon), a.Clock.Now().Format(constants.DateFormat))
	for _, name := range prayer.DisplayOrder {
		if t, ok := timings[name]; ok {
			fmt.Printf("  %-8s %s\n", name, t)
		}
	}
	return nil
}

func locationLabel(city, country string, lat, lon float64) string {
	if city != "" {
		return fmt.Sprintf("%s, %s", city, country)
	}
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}
