package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/morphonent/morphonent/internal/config"
	"github.com/morphonent/morphonent/internal/demo"
	"github.com/morphonent/morphonent/pkg/async"
	"github.com/morphonent/morphonent/pkg/bus"
	"github.com/morphonent/morphonent/pkg/dom"
	"github.com/morphonent/morphonent/pkg/morph"
	"github.com/morphonent/morphonent/pkg/render"
)

func renderCmd() *cobra.Command {
	var (
		configPath string
		out        string
		pretty     bool
		page       bool
	)

	cmd := &cobra.Command{
		Use:   "render [app]",
		Short: "Print an app's server-rendered markup",
		Long: `Render a demo app once and print its markup, annotated with the
path ids a client engine hydrates from.

Positions still pending after the first pass are left empty.

Examples:
  morphonent render counter
  morphonent render languages --pretty
  morphonent render ping --page --out ping.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if pretty {
				cfg.Render.Pretty = true
			}
			if len(args) > 0 {
				cfg.Server.App = args[0]
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			app, err := demo.Lookup(cfg.Server.App)
			if err != nil {
				return err
			}

			markup, err := renderApp(app, cfg, page)
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), markup)
				return nil
			}
			if err := os.WriteFile(out, []byte(markup), 0644); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file (default ./morphonent.yaml)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")
	cmd.Flags().BoolVar(&page, "page", false, "Wrap the markup in a full HTML document")

	return cmd
}

// renderApp renders app into a fresh document and serializes it.
func renderApp(app demo.App, cfg *config.Config, page bool) (string, error) {
	loop := async.NewLoop()
	e := morph.New(loop,
		morph.WithBus(bus.New()),
		morph.WithMarker(cfg.Render.MarkerAttr),
	)

	doc := dom.NewDocument()
	root, err := doc.CreateElement("main")
	if err != nil {
		return "", err
	}
	if err := root.SetAttribute("id", "app"); err != nil {
		return "", err
	}
	if err := doc.Body().AppendChild(root); err != nil {
		return "", err
	}
	if err := e.Render(root, app(e)); err != nil {
		return "", err
	}
	loop.Drain()

	r := render.NewRenderer(render.RendererConfig{
		Pretty:      cfg.Render.Pretty,
		Indent:      cfg.Render.Indent,
		Marker:      cfg.Render.MarkerAttr,
		TextMarkers: cfg.Render.TextMarkers,
	})
	if !page {
		return r.RenderToString(root)
	}
	var buf bytes.Buffer
	err = r.RenderPage(&buf, render.PageData{
		Root:  root,
		Title: cfg.Name,
		Lang:  "en",
	})
	return buf.String(), err
}
