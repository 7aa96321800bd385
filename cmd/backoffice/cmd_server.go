package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/orderdesk/backoffice/app/routes"
	"github.com/orderdesk/backoffice/internal/server"
	"github.com/orderdesk/backoffice/pkg/router"
)

// backoffice serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP (and optional gRPC) server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// backoffice route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		routes.RegisterAPI(r, nil)

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
