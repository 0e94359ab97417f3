// Command surveyctl is a terminal front-end for the retail survey API. It keeps the
// login session in a local bolt file between invocations.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/retailsurvey/fieldsurvey-go/internal/client"
	"github.com/retailsurvey/fieldsurvey-go/internal/config"
	"github.com/retailsurvey/fieldsurvey-go/internal/controller"
	"github.com/retailsurvey/fieldsurvey-go/internal/session"
)

const usage = `usage: surveyctl [flags] <command> [args]

commands:
  login <username> <password>   log in and store the session
  logout                        clear the stored session
  whoami                        show the logged-in surveyor
  tasks                         list survey tasks
  today                         show today's task
  submit [flags] [image ...]    submit a survey record
  upload <image>                upload a single image

exit status: 1 failure, 2 bad input, 3 not logged in, 4 rejected by server, 5 network error

flags:
`

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], config.LoadClient(), os.Stdout); err != nil {
		if status := client.StatusCode(err); status != 0 {
			fmt.Fprintf(os.Stderr, "surveyctl: %v (HTTP %d)\n", err, status)
		} else {
			fmt.Fprintln(os.Stderr, "surveyctl:", err)
		}
		os.Exit(exitCode(err))
	}
}

var errUsage = errors.New("invalid usage")

// Exit codes.
const (
	exitFailure  = 1
	exitUsage    = 2
	exitSession  = 3
	exitRejected = 4
	exitNetwork  = 5
)

// exitCode maps err to the process exit status.
func exitCode(err error) int {
	var verr *controller.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, controller.ErrNotLoggedIn),
		errors.Is(err, controller.ErrSessionExpired),
		errors.Is(err, controller.ErrAccountDisabled):
		return exitSession
	case errors.Is(err, client.ErrNetwork):
		return exitNetwork
	case client.StatusCode(err) != 0:
		return exitRejected
	default:
		return exitFailure
	}
}

// app holds what every command needs.
type app struct {
	api      *client.Client
	sessions *session.Store
	out      io.Writer
}

func run(ctx context.Context, args []string, cfg config.ClientConfig, out io.Writer) error {
	fs := flag.NewFlagSet("surveyctl", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "API base URL")
	fs.StringVar(&cfg.SessionPath, "session", cfg.SessionPath, "session file")
	fs.BoolVar(&cfg.LogBody, "v", cfg.LogBody, "log request and response bodies")
	fs.Usage = func() {
		fmt.Fprint(out, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	if cfg.LogBody {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	api, err := client.New(cfg)
	if err != nil {
		return err
	}
	sessions, err := session.Open(cfg.SessionPath)
	if err != nil {
		return err
	}
	defer sessions.Close()

	a := &app{api: api, sessions: sessions, out: out}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami(ctx)
	case "tasks":
		return a.tasks(ctx)
	case "today":
		return a.today(ctx)
	case "submit":
		return a.submit(ctx, rest)
	case "upload":
		return a.upload(ctx, rest)
	default:
		fs.Usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: login <username> <password>", errUsage)
	}

	lc := controller.NewLoginController(a.api, a.sessions)
	defer lc.Close()

	sess, err := lc.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s (id %d)\n", sess.UserName, sess.UserID)
	return nil
}

func (a *app) logout() error {
	lc := controller.NewLoginController(a.api, a.sessions)
	defer lc.Close()

	if err := lc.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	surveyor, err := controller.CheckAccount(ctx, a.api, a.sessions)
	if err != nil {
		return err
	}
	return a.print(surveyor)
}

func (a *app) tasks(ctx context.Context) error {
	tc := controller.NewTaskListController(a.api, a.sessions)
	defer tc.Close()

	tasks, err := tc.Refresh(ctx).Await(ctx)
	if err != nil {
		return err
	}
	return a.print(tasks)
}

func (a *app) today(ctx context.Context) error {
	tc := controller.NewTaskListController(a.api, a.sessions)
	defer tc.Close()

	task, err := tc.Today(ctx)
	if err != nil {
		return err
	}
	return a.print(task)
}

func (a *app) submit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var (
		d        controller.Draft
		lat, lon string
	)
	fs.IntVar(&d.ItemID, "item", 0, "task item id")
	fs.StringVar(&d.StoreName, "store", "", "store name")
	fs.StringVar(&d.StoreAddress, "address", "", "store address")
	fs.StringVar(&d.Date, "date", "", "survey date (YYYY-MM-DD)")
	fs.StringVar(&d.Description, "desc", "", "notes")
	fs.StringVar(&lat, "lat", "", "latitude")
	fs.StringVar(&lon, "lon", "", "longitude")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var err error
	if d.Latitude, err = parseCoord("lat", lat); err != nil {
		return err
	}
	if d.Longitude, err = parseCoord("lon", lon); err != nil {
		return err
	}

	for _, path := range fs.Args() {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		d.Images = append(d.Images, controller.Image{Name: filepath.Base(path), Data: f})
	}

	sc := controller.NewSurveyController(a.api, a.sessions)
	defer sc.Close()

	resp, err := sc.Submit(ctx, d)
	if err != nil {
		return err
	}
	return a.print(resp)
}

func (a *app) upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: upload <image>", errUsage)
	}
	if _, err := controller.RequireSession(a.sessions); err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	resp, err := a.api.UploadImage(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	return a.print(resp)
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseCoord(field, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &controller.ValidationError{Field: field, Message: "must be a number"}
	}
	return &v, nil
}
