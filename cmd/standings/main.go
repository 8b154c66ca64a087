// Command standings prints a contest leaderboard in the terminal.
//
//	standings -server http://localhost:5200 -contest 12 -token $GATEWAY_SERVICE_TOKEN
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"algo-journey/leaderboard"
	"algo-journey/utils"

	"github.com/fatih/color"
)

func main() {
	server := flag.String("server", "http://localhost:5200", "leaderboard service base URL")
	contestID := flag.String("contest", "", "contest id")
	token := flag.String("token", os.Getenv("GATEWAY_SERVICE_TOKEN"), "gateway token")
	order := flag.String("order", "", `group order: "attempt" or "score"`)
	flag.Parse()

	if *contestID == "" {
		fmt.Fprintln(os.Stderr, "standings: -contest is required")
		os.Exit(2)
	}
	groupOrder, err := leaderboard.ParseGroupOrder(*order)
	if err != nil {
		fmt.Fprintln(os.Stderr, "standings:", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body, err := fetchSnapshot(ctx, *server, *contestID, *token)
	if err != nil {
		color.Red("could not load leaderboard: %v", err)
		os.Exit(1)
	}
	contest, err := leaderboard.DecodeContest(body)
	if err != nil {
		color.Red("could not load leaderboard: %v", err)
		os.Exit(1)
	}

	render(os.Stdout, leaderboard.BuildView(contest, groupOrder))
}

func fetchSnapshot(ctx context.Context, server, contestID, token string) ([]byte, error) {
	base, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", server, err)
	}
	endpoint := base.JoinPath("contests", contestID, "snapshot")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

var tierColors = map[leaderboard.Tier]*color.Color{
	leaderboard.TierEasy:    color.New(color.FgGreen),
	leaderboard.TierMedium:  color.New(color.FgYellow),
	leaderboard.TierHard:    color.New(color.FgRed),
	leaderboard.TierDefault: color.New(color.FgWhite),
}

var podium = []*color.Color{
	color.New(color.FgHiYellow, color.Bold),
	color.New(color.FgHiWhite, color.Bold),
	color.New(color.FgYellow),
}

func render(w io.Writer, v leaderboard.ContestView) {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	bold.Fprintf(w, "Contest %s  [%s]  %s → %s\n", v.ID, v.Status,
		v.StartTime.Format(time.RFC3339), v.EndTime.Format(time.RFC3339))
	for _, q := range v.Questions {
		fmt.Fprintf(w, "  %-4s %-32s %4d pts  ", q.Label, q.Slug, q.Points)
		tierColors[q.Tier].Fprintln(w, q.DifficultyLabel)
	}

	if len(v.Groups) == 0 {
		dim.Fprintln(w, "\nNo group has attempted this contest yet.")
		return
	}

	for _, g := range v.Groups {
		fmt.Fprintln(w)
		bold.Fprintf(w, "#%d %s", g.Rank, g.Name)
		fmt.Fprintf(w, "  (coordinator %s, %d participating, %d not allowed)\n", g.Coordinator, g.Participating, g.NotAllowed)

		header := fmt.Sprintf("  %-4s %-20s", "Rank", "Member")
		for _, q := range v.Questions {
			header += fmt.Sprintf(" %6s", q.Label)
		}
		dim.Fprintln(w, header+fmt.Sprintf(" %7s", "Total"))

		for _, m := range g.Members {
			line := fmt.Sprintf("  %-4s %-20s", m.RankLabel, m.Username)
			for _, cell := range m.Cells {
				line += fmt.Sprintf(" %6s", cellText(cell))
			}
			line += fmt.Sprintf(" %7g", m.Total)

			switch {
			case !m.Ranked:
				dim.Fprintln(w, line)
			case m.Rank <= len(podium):
				podium[m.Rank-1].Fprintln(w, line)
			default:
				fmt.Fprintln(w, line)
			}
		}
		bold.Fprintf(w, "  %-25s %g\n", "Group total", g.Total)
	}
}

func cellText(c leaderboard.Cell) string {
	switch c.State {
	case leaderboard.CellAttempted:
		return fmt.Sprintf("%g", c.Score)
	case leaderboard.CellNotApplicable:
		return "n/a"
	}
	return "·"
}
