package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/blog"
	"github.com/eringen/folio/content"
)

// errContentGaps signals a failed --check without printing the gap twice.
var errContentGaps = errors.New("content check failed")

func newPostsCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List the registered posts",
		Long: `List the registered posts newest first, marking those without a body.
With --check, exit non-zero when a post has no body or a body has no post.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var fsys fs.FS = content.FS
			if siteCfg.ContentDir != "" {
				fsys = os.DirFS(siteCfg.ContentDir)
			}
			lib, err := blog.LoadLibrary(fsys, content.PostsDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tSLUG\tTAGS\tBODY")
			for _, p := range blog.Posts.All() {
				body := "-"
				if c, ok := lib.Content(p.Slug); ok {
					body = fmt.Sprintf("%d min", c.Minutes())
				}
				slug := p.Slug
				if p.Featured {
					slug += " *"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Date, slug, strings.Join(p.Tags, ","), body)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if !check {
				return nil
			}
			if err := lib.Validate(blog.Posts); err != nil {
				var gap *blog.ContentGapError
				if !errors.As(err, &gap) {
					return err
				}
				for _, s := range gap.Missing {
					fmt.Fprintf(out, "missing body: %s\n", s)
				}
				for _, s := range gap.Orphans {
					fmt.Fprintf(out, "orphan body: %s\n", s)
				}
				cmd.SilenceErrors = true
				return errContentGaps
			}
			fmt.Fprintf(out, "ok: %d posts, %d bodies\n", blog.Posts.Len(), lib.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "validate post bodies against the registry")
	cmd.Flags().String("content-dir", "", "content directory (default embedded)")
	return cmd
}
