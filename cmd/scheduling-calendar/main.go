package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	_ "time/tzdata"

	"github.com/google/uuid"

	"scheduling/internal/modkit"
	"scheduling/internal/modkit/module"
	"scheduling/internal/modkit/repokit"
	"scheduling/internal/platform/config"
	"scheduling/internal/platform/logger"
	"scheduling/internal/platform/store"

	"scheduling/internal/services/api/availability/domain"
	availmod "scheduling/internal/services/api/availability/module"
	"scheduling/internal/services/api/availability/repo"
)

func main() { os.Exit(run()) }

// run returns the process exit code
func run() int {
	var (
		fMeeting = flag.String("meeting", "", "meeting type id or slug")
		fDate    = flag.String("date", "", "day YYYY-MM-DD; empty prints the calendar from today")
		fStart   = flag.String("start", "", "RFC3339 start to check instead of listing")
		fMigrate = flag.Bool("migrate", false, "apply the postgres (and clickhouse) schema first")
		fFlush   = flag.Bool("flush-cache", false, "drop cached business hours and the -meeting type")
		fJSON    = flag.Bool("json", false, "print JSON instead of a table")
	)
	flag.Parse()

	root := config.New()
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromEnv(root, "calendar"), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if *fMigrate {
		if err := repo.Migrate(ctx, st.PG); err != nil {
			l.Fatal().Err(err).Msg("schema migration failed")
		}
		if st.CH != nil {
			if err := repo.MigrateDemand(ctx, st.CH); err != nil {
				l.Fatal().Err(err).Msg("demand table migration failed")
			}
		}
		l.Info().Msg("schema up to date")
	}

	if *fFlush {
		if err := flushCache(ctx, st, *fMeeting); err != nil {
			l.Fatal().Err(err).Msg("cache flush failed")
		}
	}

	if *fMeeting == "" {
		if !*fMigrate && !*fFlush {
			fmt.Fprintln(os.Stderr, "usage: scheduling-calendar -meeting <id|slug> [-date YYYY-MM-DD | -start RFC3339] [-json]")
			return 2
		}
		return 0
	}

	mod := availmod.New(modkit.DepsFrom(root, *l, st), availmod.FromConfig(root))
	ports := module.MustPortsOf[availmod.Ports](mod)

	// the demand log flushes when wctx ends
	wctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ports.Demand.Run(wctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	var out any
	switch {
	case *fStart != "":
		out, err = ports.Slots.Check(ctx, domain.CheckInput{MeetingType: *fMeeting, Start: *fStart})
	case *fDate != "":
		out, err = ports.Slots.Slots(ctx, domain.SlotsInput{MeetingType: *fMeeting, Date: *fDate})
	default:
		out, err = ports.Slots.Days(ctx, domain.DaysInput{MeetingType: *fMeeting})
	}
	if err != nil {
		l.Error().Err(err).Msg("availability query failed")
		return 1
	}

	if *fJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return 0
	}
	printTable(out)
	return 0
}

func flushCache(ctx context.Context, st *store.Store, ref string) error {
	if st.RDS == nil {
		return fmt.Errorf("redis is not configured")
	}
	var types []domain.MeetingType
	if ref != "" {
		r := repokit.MustBind(repo.NewPG(), st.PG)
		var (
			m   domain.MeetingType
			err error
		)
		if id, parseErr := uuid.Parse(ref); parseErr == nil {
			m, err = r.MeetingTypeByID(ctx, id)
		} else {
			m, err = r.MeetingTypeBySlug(ctx, ref)
		}
		if err != nil {
			return err
		}
		types = append(types, m)
	}
	return repo.Invalidate(ctx, st.RDS, types...)
}

func printTable(out any) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	switch v := out.(type) {
	case domain.DaySlots:
		fmt.Fprintf(w, "%s\t%s\t%d min\t%d slots\n", v.Date, v.TimeZone, v.DurationMinutes, len(v.Slots))
		for _, s := range v.Slots {
			fmt.Fprintf(w, "\t%s\t%s\n", s.Format("15:04"), s.Add(time.Duration(v.DurationMinutes)*time.Minute).Format("15:04"))
		}
	case domain.Calendar:
		fmt.Fprintf(w, "from %s\t%s\t%d days\n", v.From, v.TimeZone, v.HorizonDays)
		for _, d := range v.Days {
			fmt.Fprintf(w, "%s\t%s\t%d\n", d.Date, d.Date.Weekday(), d.SlotCount)
		}
	case domain.CheckResult:
		fmt.Fprintf(w, "available\t%s\t%s\n", v.Start.Format(time.RFC3339), v.End.Format(time.RFC3339))
	}
}
