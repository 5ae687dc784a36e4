package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"hearthfield/internal/app/action"
	"hearthfield/internal/app/game"
	"hearthfield/internal/app/replay"
	"hearthfield/internal/app/techtree"
	"hearthfield/internal/bootstrap"
	"hearthfield/internal/config"
	"hearthfield/internal/domain/forage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Starts an interactive session. Type an action and a resource, for example
"harvest rocks", or one of: unlock <tech>, tick [n], status, techs, stats,
reset-stats, log [n], help, quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := bootstrap.Build(cmd.Context(), cfg, config.NewLogger(cfg.Log, os.Stderr))
		if err != nil {
			return err
		}
		defer a.Close()

		p := player{game: a.Game, replay: a.Replay, out: cmd.OutOrStdout()}
		return p.run(cmd.Context(), cmd.InOrStdin())
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}

type command struct {
	verb string
	args []string
}

var errEmptyCommand = errors.New("empty command")

func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errEmptyCommand
	}
	return command{verb: strings.ToLower(fields[0]), args: fields[1:]}, nil
}

type player struct {
	game   game.UseCase
	replay replay.UseCase
	out    io.Writer
}

func (p *player) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(p.out, "Session %s. Type \"help\" for commands.\n", p.game.SessionID)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(p.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(p.out)
			return scanner.Err()
		}
		cmd, err := parseCommand(scanner.Text())
		if errors.Is(err, errEmptyCommand) {
			continue
		}
		quit, err := p.exec(ctx, cmd)
		if err != nil {
			fmt.Fprintf(p.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (p *player) exec(ctx context.Context, cmd command) (bool, error) {
	switch cmd.verb {
	case "quit", "exit":
		return true, nil
	case "help":
		p.help()
		return false, nil
	case "status":
		return false, p.status(ctx)
	case "techs":
		return false, p.techs(ctx)
	case "stats":
		return false, p.stats(ctx)
	case "reset-stats":
		if _, err := p.game.ResetTracker(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(p.out, "Interaction statistics cleared.")
		return false, nil
	case "unlock":
		if len(cmd.args) != 1 {
			return false, errors.New("usage: unlock <technology>")
		}
		return false, p.unlock(ctx, cmd.args[0])
	case "tick":
		n, err := countArg(cmd.args)
		if err != nil {
			return false, err
		}
		return false, p.tick(ctx, n)
	case "log":
		n, err := countArg(cmd.args)
		if err != nil {
			return false, err
		}
		return false, p.log(ctx, n)
	}
	if len(cmd.args) != 1 {
		return false, fmt.Errorf("usage: %s <resource>", cmd.verb)
	}
	return false, p.act(ctx, cmd.verb, cmd.args[0])
}

func countArg(args []string) (int, error) {
	switch len(args) {
	case 0:
		return 1, nil
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("not a positive count: %q", args[0])
		}
		return n, nil
	default:
		return 0, errors.New("expected at most one count")
	}
}

func (p *player) help() {
	fmt.Fprintln(p.out, "Actions: <action> <resource>, e.g. harvest rocks, eat wildWheat, grind wildWheat")
	fmt.Fprintln(p.out, "Commands: unlock <tech>, tick [n], status, techs, stats, reset-stats, log [n], quit")
}

func (p *player) act(ctx context.Context, verb, resource string) error {
	out, err := p.game.PerformAction(ctx, game.ActionRequest{Resource: resource, Action: verb})
	if err != nil {
		return err
	}
	p.printResult(out.Result)
	for _, sub := range out.Result.Chained {
		fmt.Fprint(p.out, "  then ")
		p.printResult(sub)
	}
	fmt.Fprintf(p.out, "Hunger %d/%d\n", out.State.Hunger, forage.MaxHunger)
	return nil
}

func (p *player) printResult(res action.Result) {
	switch {
	case res.Performed && res.Gained > 0:
		fmt.Fprintf(p.out, "%s: +%s\n", res.Action, humanize.Comma(int64(res.Gained)))
	case res.Performed:
		fmt.Fprintf(p.out, "%s: done\n", res.Action)
	default:
		fmt.Fprintf(p.out, "%s: not performed (%s)\n", res.Action, res.Reason)
	}
}

func (p *player) unlock(ctx context.Context, tech string) error {
	out, err := p.game.UnlockTechnology(ctx, game.UnlockRequest{TechID: tech})
	if err != nil {
		return err
	}
	if !out.Result.Unlocked {
		fmt.Fprintf(p.out, "%s: not unlocked (%s)\n", out.Result.TechID, out.Result.Reason)
		for _, id := range out.Result.Missing {
			fmt.Fprintf(p.out, "  requires %s\n", id)
		}
		return nil
	}
	fmt.Fprintf(p.out, "Unlocked %s.\n", out.Result.TechID)
	return nil
}

func (p *player) tick(ctx context.Context, n int) error {
	out, err := p.game.AdvanceTick(ctx, game.TickRequest{Count: n})
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Tick %s.\n", humanize.Comma(out.Tick))
	if out.Matured {
		fmt.Fprintln(p.out, "Your crop is ready to harvest.")
	}
	return nil
}

func (p *player) status(ctx context.Context) error {
	out, err := p.game.Status(ctx)
	if err != nil {
		return err
	}
	st := out.State
	fmt.Fprintf(p.out, "Tick %s, hunger %d/%d\n", humanize.Comma(st.CurrentTick), st.Hunger, forage.MaxHunger)
	for _, r := range st.Resources {
		if !r.Discovered {
			continue
		}
		fmt.Fprintf(p.out, "  %-16s %6s / %s\n", r.ID, humanize.Comma(int64(r.Quantity)), humanize.Comma(int64(r.Capacity)))
	}
	if st.Planting.Planted {
		state := "growing"
		if st.Planting.Ready {
			state = "ready"
		}
		fmt.Fprintf(p.out, "  crop planted at tick %d, %s\n", st.Planting.PlantedAtTick, state)
	}
	keys := make([]string, len(out.AvailableActions))
	for i, k := range out.AvailableActions {
		keys[i] = k.String()
	}
	fmt.Fprintf(p.out, "Actions: %s\n", strings.Join(keys, ", "))
	return nil
}

func (p *player) techs(ctx context.Context) error {
	out, err := p.game.Technologies(ctx)
	if err != nil {
		return err
	}
	if len(out.Offers) == 0 {
		fmt.Fprintln(p.out, "No technologies available right now.")
	}
	for _, offer := range out.Offers {
		mark := " "
		if offer.Affordable {
			mark = "*"
		}
		costs := make([]string, 0, len(offer.Technology.Cost))
		for _, rid := range techtree.CostLines(offer.Technology) {
			costs = append(costs, fmt.Sprintf("%s %s", humanize.Comma(int64(offer.Technology.Cost[rid])), rid))
		}
		fmt.Fprintf(p.out, "%s %s: %s\n", mark, offer.Technology.ID, strings.Join(costs, ", "))
	}
	if len(out.Unlocked) > 0 {
		ids := make([]string, len(out.Unlocked))
		for i, id := range out.Unlocked {
			ids[i] = string(id)
		}
		fmt.Fprintf(p.out, "Unlocked: %s\n", strings.Join(ids, ", "))
	}
	return nil
}

func (p *player) stats(ctx context.Context) error {
	out, err := p.game.Status(ctx)
	if err != nil {
		return err
	}
	stats := out.State.InteractionStats
	if len(stats) == 0 {
		fmt.Fprintln(p.out, "No interactions recorded.")
		return nil
	}
	for _, rid := range slices.Sorted(maps.Keys(stats)) {
		for _, at := range slices.Sorted(maps.Keys(stats[rid])) {
			s := stats[rid][at]
			fmt.Fprintf(p.out, "  %s %s: %d attempted, %d succeeded, %d failed, %s gained\n",
				at, rid, s.Attempted, s.Succeeded, s.Failed, humanize.Comma(int64(s.Gained)))
		}
	}
	return nil
}

func (p *player) log(ctx context.Context, n int) error {
	out, err := p.replay.Execute(ctx, replay.Request{SessionID: p.game.SessionID, Limit: n})
	if err != nil {
		return err
	}
	for _, evt := range out.Events {
		detail := ""
		if v, ok := evt.Payload["action"]; ok {
			detail = fmt.Sprint(v)
		} else if v, ok := evt.Payload["tech_id"]; ok {
			detail = fmt.Sprint(v)
		}
		fmt.Fprintf(p.out, "  [tick %d, %s] %s %s\n", evt.Tick, humanize.Time(evt.OccurredAt), evt.Type, detail)
	}
	return nil
}
