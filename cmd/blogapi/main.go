// Command blogapi runs the blog HTTP API.
//
//	blogapi            # same as "blogapi serve"
//	blogapi serve      # start the HTTP server
//	blogapi indexes    # create MongoDB indexes and exit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// @title          Blog API
// @version        1.0
// @description    Register, log in, and manage author-scoped blog posts.
// @BasePath       /
// @securityDefinitions.apikey BearerAuth
// @in             header
// @name           Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:           "blogapi",
		Short:         "Blog API server",
		Long:          "HTTP API for user registration, token login and author-scoped blog posts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, newIndexesCmd())
	return root
}
