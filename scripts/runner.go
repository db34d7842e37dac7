package scripts

import (
	"context"
	"fmt"
	"io"

	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/services"
	"github.com/Dosada05/pingpong-tournament/utils"
)

// Run plays the script against svc and prints the event as it unfolds.
// It stops at the first rejected result.
func Run(ctx context.Context, svc services.TournamentService, s *Script, out io.Writer) (*models.Tournament, error) {
	players := make([]services.PlayerInput, len(s.Players))
	for i, name := range s.Players {
		players[i] = services.PlayerInput{Name: name, Seed: i + 1}
	}

	t, err := svc.Create(ctx, services.CreateTournamentInput{
		Name:            s.Name,
		Players:         players,
		GroupCount:      s.Groups,
		AdvancePerGroup: s.Advance,
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "%s (%d players, %d groups, top %d advance)\n", t.Name, len(t.Entrants), t.GroupCount, t.AdvancePerGroup)

	for _, g := range t.Groups {
		fmt.Fprintf(out, "\nGroup %s\n", g.Name)
		for _, m := range g.Members {
			fmt.Fprintf(out, "  %d. %s\n", m.Seed, m.Name)
		}
		for _, p := range g.Schedule {
			fmt.Fprintf(out, "  %s vs %s\n", p.A.Name, p.B.Name)
		}
	}

	for i, gr := range s.GroupResults {
		if err := recordGroup(ctx, svc, t.ID, gr); err != nil {
			return nil, fmt.Errorf("group result %d (%s vs %s): %w", i+1, gr.A, gr.B, err)
		}
	}

	groups, err := svc.ListGroups(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		fmt.Fprintf(out, "\nStandings %s\n", g.Name)
		for _, row := range g.Standings {
			fmt.Fprintf(out, "%d. %s - %d pts\n", row.Rank, row.Entrant.Name, row.Points)
		}
	}

	bracket, err := svc.StartKnockout(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(out, "\nAdvancing to knockout:")
	for _, q := range bracket.Qualifiers {
		fmt.Fprintln(out, q.Name)
	}

	for i, kr := range s.KnockoutResults {
		if err := recordKnockout(ctx, svc, t.ID, kr); err != nil {
			return nil, fmt.Errorf("knockout result %d: %w", i+1, err)
		}
	}

	bracket, err = svc.GetBracket(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	printBracket(out, bracket)

	if bracket.Champion != nil {
		fmt.Fprintf(out, "\nChampion: %s\n", bracket.Champion.Name)
	} else {
		fmt.Fprintln(out, "\nChampion: undecided")
	}
	return svc.Get(ctx, t.ID)
}

func recordGroup(ctx context.Context, svc services.TournamentService, id int, gr GroupResult) error {
	sets, err := utils.ParseSets(gr.Score)
	if err != nil {
		return err
	}
	a, err := svc.FindEntrant(ctx, id, gr.A)
	if err != nil {
		return err
	}
	b, err := svc.FindEntrant(ctx, id, gr.B)
	if err != nil {
		return err
	}
	_, err = svc.RecordGroupResult(ctx, id, gr.Group, services.GroupResultInput{SideA: a.ID, SideB: b.ID, Sets: sets})
	return err
}

func recordKnockout(ctx context.Context, svc services.TournamentService, id int, kr KnockoutResult) error {
	sets, err := utils.ParseSets(kr.Score)
	if err != nil {
		return err
	}
	if kr.Round != nil && kr.Match != nil {
		_, err = svc.RecordKnockoutResult(ctx, id, *kr.Round, *kr.Match, sets)
		return err
	}

	bracket, err := svc.GetBracket(ctx, id)
	if err != nil {
		return err
	}
	for _, round := range bracket.Rounds {
		for _, m := range round.Matches {
			if !m.IsReady() {
				continue
			}
			switch {
			case m.SideA.Name == kr.A && m.SideB.Name == kr.B:
			case m.SideA.Name == kr.B && m.SideB.Name == kr.A:
				sets = swapSides(sets)
			default:
				continue
			}
			_, err = svc.RecordKnockoutResult(ctx, id, m.Round, m.Index, sets)
			return err
		}
	}
	return fmt.Errorf("no playable knockout match between %s and %s", kr.A, kr.B)
}

func swapSides(sets []models.SetScore) []models.SetScore {
	out := make([]models.SetScore, len(sets))
	for i, s := range sets {
		out[i] = models.SetScore{A: s.B, B: s.A}
	}
	return out
}

func printBracket(out io.Writer, b *models.Bracket) {
	for _, round := range b.Rounds {
		fmt.Fprintf(out, "\n%s\n", round.Name)
		for _, m := range round.Matches {
			switch {
			case m.Result != nil:
				fmt.Fprintf(out, "  %s vs %s: %s, %s wins\n",
					m.SideA.Name, m.SideB.Name, utils.FormatSets(m.Result.Sets), m.Result.Winner().Name)
			case m.Bye && m.Advancing() != nil:
				fmt.Fprintf(out, "  %s receives a bye\n", m.Advancing().Name)
			case m.SideA != nil && m.SideB != nil:
				fmt.Fprintf(out, "  %s vs %s: to be played\n", m.SideA.Name, m.SideB.Name)
			case m.Bye:
				fmt.Fprintln(out, "  bye, waiting for opponent")
			case m.Vacant:
				fmt.Fprintln(out, "  (empty)")
			default:
				fmt.Fprintln(out, "  waiting for earlier rounds")
			}
		}
	}
}
