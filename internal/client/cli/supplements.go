package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/vitapick/internal/client/models"
	"github.com/dmitrijs2005/vitapick/internal/common"
	"github.com/spf13/cobra"
)

func newSearchCommand(o *rootOptions) *cobra.Command {
	var q models.SearchQuery

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search supplements",
		Args:  cobra.MaximumNArgs(1),
	}
	f := cmd.Flags()
	f.StringVar(&q.Category, "category", "", "category filter")
	f.IntVar(&q.Page, "page", 0, "page number, starting at 0")
	f.IntVar(&q.Size, "size", 20, "page size")

	cmd.RunE = o.run(func(ctx context.Context, a *App, _ *cobra.Command, args []string) error {
		if len(args) == 1 {
			q.Keyword = args[0]
		}
		page, err := a.api.SearchSupplements(ctx, q)
		if err != nil {
			return err
		}
		printSupplements(a.out, page.Content)
		fmt.Fprintf(a.out, "page %d, %d results", page.Page, page.TotalElements)
		if page.HasNext {
			fmt.Fprintf(a.out, " (more with --page %d)", page.Page+1)
		}
		fmt.Fprintln(a.out)
		return nil
	})
	return cmd
}

func newPopularCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "popular",
		Short: "List popular supplements",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, a *App, _ *cobra.Command, _ []string) error {
			items, err := a.api.PopularSupplements(ctx)
			if err != nil {
				return err
			}
			printSupplements(a.out, items)
			return nil
		}),
	}
}

func newLikesCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "likes",
		Short: "List the supplements you liked",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, a *App, _ *cobra.Command, _ []string) error {
			items, err := a.api.LikedSupplements(ctx)
			if err != nil {
				return err
			}
			printSupplements(a.out, items)
			return nil
		}),
	}
}

// newLikeCommand builds "like" or, with like false, "unlike".
func newLikeCommand(o *rootOptions, like bool) *cobra.Command {
	use, short, done := "like", "Like a supplement", "Liked"
	if !like {
		use, short, done = "unlike", "Remove a like", "Unliked"
	}

	return &cobra.Command{
		Use:   use + " <supplement-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, a *App, _ *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := a.api.SetLiked(ctx, ids[0], like); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %d\n", done, ids[0])
			return nil
		}),
	}
}

func newRecommendCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Show recommended combinations",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, a *App, _ *cobra.Command, _ []string) error {
			recs, err := a.api.RecommendCombinations(ctx)
			if err != nil {
				return err
			}
			for _, r := range recs {
				fmt.Fprintf(a.out, "%s\n  %s\n", r.Title, r.Description)
				for _, s := range r.Supplements {
					fmt.Fprintf(a.out, "  - %s\n", s.Name)
				}
			}
			return nil
		}),
	}
}

func newAnalyzeCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <supplement-id> <supplement-id>...",
		Short: "Analyze a supplement combination",
		Args:  cobra.MinimumNArgs(2),
		RunE: o.run(func(ctx context.Context, a *App, _ *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			res, err := a.api.AnalyzeCombination(ctx, ids)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Score: %d\n%s\n", res.Score, res.Summary)
			printInteractions(a.out, "Synergies", res.Synergies)
			printInteractions(a.out, "Conflicts", res.Conflicts)
			return nil
		}),
	}
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, s := range args {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: bad supplement id %q", common.ErrorValidation, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printSupplements(w io.Writer, items []models.Supplement) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No supplements found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tLIKED")
	for _, s := range items {
		liked := ""
		if s.Liked {
			liked = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Name, s.Brand, liked)
	}
	tw.Flush()
}

func printInteractions(w io.Writer, title string, items []models.Interaction) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "  %s: %s\n", strings.Join(it.Nutrients, " + "), it.Description)
	}
}
