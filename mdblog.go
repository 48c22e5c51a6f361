package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const envFileName = ".env"

// newRootCmd builds the command line. serve runs once the configuration is
// read.
func newRootCmd(serve func(ctx context.Context, conf *SiteConf) error) *cobra.Command {
	var prod bool

	cmd := &cobra.Command{
		Use:   "mdblog",
		Short: "Render a directory of markdown posts into a static site",
		Long: `mdblog renders every markdown post in the data directory to an HTML page,
writes an index page sorted by date, and re-renders the whole site whenever
something in the data directory changes.

Settings are read from the environment and from a .env file in the working
directory: TITLE, AUTHOR, BASE_URL, DATA_DIR, WEBPAGE_DIR, IMAGES_DIR, FOOTER,
MARKDOWN, WATCH_MODE and WATCH_INTERVAL.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := readConf(prod, envFileName)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), conf)
		},
	}

	cmd.Flags().BoolVar(&prod, "prod", false, "Build for production: use BASE_URL and skip draft pages")
	return cmd
}

func main() {
	if err := newRootCmd(serve).ExecuteContext(context.Background()); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

// serve renders the site once and then re-renders it on every change until
// interrupted.
func serve(ctx context.Context, conf *SiteConf) error {
	src, err := newChangeSource(conf)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := rebuild(conf); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rerenderOnChange(ctx, conf, src)
}
