package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/layout"
	"github.com/matzehuels/pathloom/pkg/render"
	"github.com/matzehuels/pathloom/pkg/suggest"
)

// suggestOptions holds the flags of the suggest command.
type suggestOptions struct {
	hub      hubFlags
	format   string
	output   string
	detailed bool
	refresh  bool
	timeout  time.Duration
}

// suggestCommand creates the "suggest" command.
func (c *CLI) suggestCommand() *cobra.Command {
	var opts suggestOptions

	cmd := &cobra.Command{
		Use:   "suggest <provider>",
		Short: "Ask one provider for the neighbours of a hub",
		Long: `Dispatch a single provider for a hub and print the laid-out fragment.

Without --format or --output a summary is printed. With --output the format
is taken from the file extension unless --format is given.`,
		Example: `  pathloom suggest kegg-enzymes-by-gene --source EntrezGene --id 8854
  pathloom suggest hmdb --source HMDB --id HMDB00031 -o hmdb.svg
  pathloom suggest wikipathways --source EntrezGene --id 8854 --label ALDH1A2 -f json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProviders,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSuggest(cmd, args[0], opts)
		},
	}

	opts.hub.bind(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&opts.format, "format", "f", "", "output format (json, yaml, dot, svg, png, pdf)")
	fl.StringVarP(&opts.output, "output", "o", "", "write to this file instead of stdout")
	fl.BoolVar(&opts.detailed, "detailed", false, "show namespace and identifier under each label")
	fl.BoolVar(&opts.refresh, "refresh", false, "bypass cached upstream responses")
	fl.DurationVar(&opts.timeout, "timeout", 0, "give up after this long (default: provider timeout from config)")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(render.Formats()))
		for _, f := range render.Formats() {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (c *CLI) runSuggest(cmd *cobra.Command, name string, opts suggestOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format, err := outputFormat(opts.format, opts.output)
	if err != nil {
		return err
	}

	a, err := c.openApp(ctx, opts.refresh)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	hub, err := opts.hub.entity(a.cfg.IDMap.Organism)
	if err != nil {
		return err
	}

	d := a.dispatcher(nil)
	defer d.Close()

	prog := newProgress(logger)
	h, err := d.Dispatch(ctx, name, hub)
	if err != nil {
		return err
	}
	logger.Debug("dispatched", "id", h.ID(), "provider", name, "hub", hub.Key())

	o, err := waitWithSpinner(ctx, h, fmt.Sprintf("Asking %s about %s", name, hub.DisplayLabel()), opts.timeout)
	if err != nil {
		d.Cancel(h)
		if ctx.Err() != nil {
			printWarning("Cancelled %s", name)
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s did not answer within %s", name, opts.timeout)
	}

	switch o.State {
	case suggest.StateFailed:
		return o.Err
	case suggest.StateCancelled:
		return errors.New(errors.ErrCodeCancelled, "%s was cancelled", name)
	}

	frag := *o.Fragment
	prog.done(fmt.Sprintf("%d spokes from %s", len(frag.Spokes), name))

	if format == "" {
		printFragment(cmd.OutOrStdout(), name, frag)
		if len(frag.Spokes) > 0 && hub.HasID() {
			printNextStep("Render it", fmt.Sprintf("pathloom suggest %s --source %s --id %s -o %s.svg",
				name, hub.DataSource, hub.ID, name))
		}
		return nil
	}
	return writeFragment(cmd.OutOrStdout(), frag, format, opts)
}

// waitWithSpinner blocks until h has an outcome. A positive timeout bounds
// the wait on top of the provider's own limit.
func waitWithSpinner(ctx context.Context, h *suggest.Handle, message string, timeout time.Duration) (suggest.Outcome, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	spinner := newSpinnerWithContext(ctx, message)
	spinner.Start()
	o, err := h.Wait(ctx)
	spinner.Stop()
	return o, err
}

// outputFormat picks the format from --format, then from the extension of
// --output. An empty result means the text summary.
func outputFormat(format, output string) (render.Format, error) {
	if format != "" {
		return render.ParseFormat(format)
	}
	if output == "" {
		return "", nil
	}
	ext := filepath.Ext(output)
	if ext == "" {
		return render.FormatJSON, nil
	}
	return render.ParseFormat(ext)
}

func writeFragment(stdout io.Writer, frag layout.Fragment, format render.Format, opts suggestOptions) error {
	if format.Binary() && opts.output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s output needs --output", format)
	}

	data, err := render.Render(frag, format, render.Options{Detailed: opts.detailed})
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s", format)
	printFile(opts.output)
	return nil
}

// printFragment prints the hub and its spokes in layout order.
func printFragment(w io.Writer, provider string, frag layout.Fragment) {
	hub := frag.Hub.Entity
	fmt.Fprintf(w, "%s %s %s\n",
		StyleTitle.Render(hub.DisplayLabel()),
		StyleDim.Render(hub.Key()),
		StyleDim.Render("via "+provider))
	if frag.Hub.Attribution != "" {
		fmt.Fprintln(w, StyleDim.Render("Source: "+frag.Hub.Attribution))
	}

	if len(frag.Spokes) == 0 {
		fmt.Fprintln(w, StyleWarning.Render("No suggestions"))
		return
	}

	n := len(frag.Spokes)
	for i, s := range frag.Spokes {
		e := s.Entity
		id := e.Key()
		if !e.HasID() {
			id = "label only"
		}
		deg := layout.Angle(i, n) * 180 / math.Pi
		fmt.Fprintf(w, "  %s %-32s %s %s\n",
			StyleDim.Render(iconArrow),
			StyleValue.Render(e.DisplayLabel()),
			StyleHighlight.Render(id),
			StyleDim.Render(fmt.Sprintf("%5.1f°", deg)))
	}
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d spokes, radius %.0f", n, frag.Radius)))
}

// completeProviders completes provider names from the configured registry.
func (c *CLI) completeProviders(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := c.openApp(ctx, false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer a.Close(ctx)
	return a.registry.Names(), cobra.ShellCompDirectiveNoFileComp
}
