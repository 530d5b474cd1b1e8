package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/medinote/medinote-go/internal/api"
	"github.com/medinote/medinote-go/internal/app"
	"github.com/medinote/medinote-go/internal/config"
	"github.com/medinote/medinote-go/internal/logging"
)

const usage = `usage: medinote <command> [flags]

commands:
  login     -email <addr> [-password <pw>]   sign in and persist the session
  logout                                     sign out and clear local state
  status                                     show the current session
  sync                                       pull health data into the local cache
  profile                                    show the cached health profile
  allergy   list | add <name> | rm <id>      manage allergies
  drug      list                             list cached medications
  visit     list                             list visit history
  schedule  list                             list cached schedules
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	a, err := app.New(cfg, logger)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	a.RestoreSession()

	ctx := logging.IntoContext(context.Background(), logger)

	if err := run(ctx, a, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "medinote: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, cmd string, args []string) error {
	switch cmd {
	case "login":
		return runLogin(ctx, a, args)
	case "logout":
		return a.Logout(ctx)
	case "status":
		return runStatus(a)
	case "sync":
		if err := a.Sync(ctx); err != nil {
			return err
		}
		fmt.Println("synced")
		return nil
	case "profile":
		return runProfile(a)
	case "allergy":
		return runAllergy(ctx, a, args)
	case "drug":
		return runDrugs(a, args)
	case "visit":
		return runVisits(ctx, a, args)
	case "schedule":
		return runSchedules(a, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runLogin(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted if empty)")
	fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("login: -email is required")
	}
	pw := *password
	if pw == "" {
		fmt.Fprint(os.Stderr, "password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		pw = strings.TrimSpace(line)
	}

	user, err := a.Login(ctx, *email, pw)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func runStatus(a *app.App) error {
	user, ok := a.Store.CurrentUser()
	if !ok {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("logged in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
	fmt.Printf("access token expires %s\n", a.Store.ExpiresAt().Format(time.RFC3339))
	return nil
}

func runProfile(a *app.App) error {
	p, err := a.Cache.Profile()
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println("no cached profile; run `medinote sync`")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "birth\t%s\n", p.Birth)
	fmt.Fprintf(w, "gender\t%s\n", p.Gender)
	fmt.Fprintf(w, "blood type\t%s\n", p.BloodType)
	fmt.Fprintf(w, "height\t%.1f\n", p.Height)
	fmt.Fprintf(w, "weight\t%.1f\n", p.Weight)
	fmt.Fprintf(w, "drinking\t%s\n", p.Drinking)
	fmt.Fprintf(w, "smoking\t%s\n", p.Smoking)
	return w.Flush()
}

func runAllergy(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		items, err := a.Cache.Allergies()
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("no cached allergies; run `medinote sync`")
			return nil
		}
		for _, al := range items {
			fmt.Printf("%d\t%s\n", al.ID, al.Name)
		}
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("allergy add: name required")
		}
		user, ok := a.Store.CurrentUser()
		if !ok {
			return fmt.Errorf("not logged in")
		}
		created, err := a.API.CreateAllergy(ctx, api.AllergyCreateRequest{
			AllergyName: args[1],
			UserID:      user.ID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("added allergy %d: %s\n", created.AllergyID, created.AllergyName)
		return a.Sync(ctx)
	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("allergy rm: id required")
		}
		var id int64
		if _, err := fmt.Sscanf(args[1], "%d", &id); err != nil {
			return fmt.Errorf("allergy rm: bad id %q", args[1])
		}
		if err := a.API.DeleteAllergy(ctx, id); err != nil {
			return err
		}
		fmt.Printf("removed allergy %d\n", id)
		return a.Sync(ctx)
	default:
		return fmt.Errorf("allergy: unknown subcommand %q", args[0])
	}
}

func runDrugs(a *app.App, args []string) error {
	items, err := a.Cache.Drugs()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no cached medications; run `medinote sync`")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tname\tdose\tschedule\tfrom\tto")
	for _, d := range items {
		fmt.Fprintf(w, "%d\t%s\t%s %s\t%s\t%s\t%s\n",
			d.ID, d.MedName, d.Dose, d.Unit, d.Schedule, d.StartDate, d.EndDate)
	}
	return w.Flush()
}

func runVisits(ctx context.Context, a *app.App, args []string) error {
	visits, err := a.API.GetVisits(ctx)
	if err != nil {
		return err
	}
	if len(visits) == 0 {
		fmt.Println("no visits recorded")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tdate\thospital\tdept\tdiagnosis")
	for _, v := range visits {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", v.VisitID, v.Date, v.Hospital, v.Dept, v.DiagnosisName)
	}
	return w.Flush()
}

func runSchedules(a *app.App, args []string) error {
	items, err := a.Cache.Schedules()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no cached schedules; run `medinote sync`")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tdate\ttime\ttype\ttitle\tlocation")
	for _, s := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.Date, s.Time, s.Type, s.Title, s.Location)
	}
	return w.Flush()
}
