package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/online_catalog/internal/httpserver"
	"github.com/Skotchmaster/online_catalog/internal/metrics"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the registered HTTP routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e := echo.New()
		httpserver.Register(e, &httpserver.Deps{
			ProductHandler:  &httpserver.ProductHTTP{},
			CategoryHandler: &httpserver.CategoryHTTP{},
			UserHandler:     &httpserver.UserHTTP{},
			Metrics:         metrics.New(),
		})

		routes := e.Routes()
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH")
		for _, r := range routes {
			fmt.Fprintf(w, "%s\t%s\n", r.Method, r.Path)
		}
		return w.Flush()
	},
}
